package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type scannedToken struct {
	Offset  int
	Type    TokenType
	Content string // only recorded for StartTag and EndTag
}

type scannerTestcase struct {
	input  string
	tokens []scannedToken
}

func collectTokens(t *testing.T, s *Scanner) []scannedToken {
	t.Helper()
	var actual []scannedToken
	limit := 2*len(s.stream.source) + 16
	for token := s.Scan(); token != EOS; token = s.Scan() {
		st := scannedToken{Offset: s.TokenOffset(), Type: token}
		if token == StartTag || token == EndTag {
			st.Content = s.TokenText()
		}
		actual = append(actual, st)
		limit--
		require.Greater(t, limit, 0, "scanner did not terminate")
	}
	return actual
}

var scannerTests = []scannerTestcase{
	{"<abc", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "abc"},
	}},
	{"<input", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "input"},
	}},
	{"< abc", []scannedToken{
		{0, StartTagOpen, ""},
		{1, Whitespace, ""},
		{2, StartTag, "abc"},
	}},
	{"</abc", []scannedToken{
		{0, EndTagOpen, ""},
		{2, EndTag, "abc"},
	}},
	{"</ abc>", []scannedToken{
		{0, EndTagOpen, ""},
		{2, Whitespace, ""},
		{3, EndTag, "abc"},
		{6, EndTagClose, ""},
	}},
	{"</>", []scannedToken{
		{0, EndTagOpen, ""},
		{2, EndTagClose, ""},
	}},
	{"<abc>", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "abc"},
		{4, StartTagClose, ""},
	}},
	{"<abc />", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "abc"},
		{4, Whitespace, ""},
		{5, StartTagSelfClose, ""},
	}},
	{`<abc foo="bar">`, []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "abc"},
		{4, Whitespace, ""},
		{5, AttributeName, ""},
		{8, DelimiterAssign, ""},
		{9, AttributeValue, ""},
		{14, StartTagClose, ""},
	}},
	{"<abc foo=bar>", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "abc"},
		{4, Whitespace, ""},
		{5, AttributeName, ""},
		{8, DelimiterAssign, ""},
		{9, AttributeValue, ""},
		{12, StartTagClose, ""},
	}},
	{"<abc foo>", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "abc"},
		{4, Whitespace, ""},
		{5, AttributeName, ""},
		{8, StartTagClose, ""},
	}},
	{"<!--a-->", []scannedToken{
		{0, StartCommentTag, ""},
		{4, Comment, ""},
		{5, EndCommentTag, ""},
	}},
	{"<!DOCTYPE html>", []scannedToken{
		{0, StartDoctypeTag, ""},
		{9, Doctype, ""},
		{14, EndDoctypeTag, ""},
	}},
	{"<![CDATA[a]]>", []scannedToken{
		{0, StartCDATATag, ""},
		{9, CDATAContent, ""},
		{10, EndCDATATag, ""},
	}},
	{"<script>a<b</script>", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "script"},
		{7, StartTagClose, ""},
		{8, Content, ""},
		{11, EndTagOpen, ""},
		{13, EndTag, "script"},
		{19, EndTagClose, ""},
	}},
	// a typed script stays in regular markup
	{`<script type="text/html"><div></div></script>`, []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "script"},
		{7, Whitespace, ""},
		{8, AttributeName, ""},
		{12, DelimiterAssign, ""},
		{13, AttributeValue, ""},
		{24, StartTagClose, ""},
		{25, StartTagOpen, ""},
		{26, StartTag, "div"},
		{29, StartTagClose, ""},
		{30, EndTagOpen, ""},
		{32, EndTag, "div"},
		{35, EndTagClose, ""},
		{36, EndTagOpen, ""},
		{38, EndTag, "script"},
		{44, EndTagClose, ""},
	}},
	{"<style>p{color:red}</style>", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "style"},
		{6, StartTagClose, ""},
		{7, Content, ""},
		{19, EndTagOpen, ""},
		{21, EndTag, "style"},
		{26, EndTagClose, ""},
	}},
	{"<title>a<b</title>", []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "title"},
		{6, StartTagClose, ""},
		{7, Content, ""},
		{10, EndTagOpen, ""},
		{12, EndTag, "title"},
		{17, EndTagClose, ""},
	}},
}

func TestScannerTokens(t *testing.T) {
	for _, tt := range scannerTests {
		runScannerTest(tt, t)
	}
}

func runScannerTest(tt scannerTestcase, t *testing.T) {
	t.Run(tt.input, func(t *testing.T) {
		t.Parallel()
		s := NewScanner(tt.input, 0)
		actual := collectTokens(t, s)
		if diff := cmp.Diff(tt.tokens, actual); diff != "" {
			t.Errorf("token mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestScannerTermination feeds deliberately broken markup and checks that the
// scan loop always reaches EOS.
func TestScannerTermination(t *testing.T) {
	inputs := []string{
		"<<<<",
		"<div <<",
		"</",
		"<!",
		"a<b<",
		"<div foo=>",
		"<div 'x'>",
	}
	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			s := NewScanner(input, 0)
			collectTokens(t, s)
			require.Equal(t, len(input), s.TokenEnd())
		})
	}
}

// TestScannerStateResumption re-lexes the middle of a tag from a saved state.
func TestScannerStateResumption(t *testing.T) {
	s := NewScanner("<abc", 0)
	collectTokens(t, s)
	require.Equal(t, WithinTag, s.State())

	s = NewScannerWithState(" foo=bar>", 0, s.State(), false)
	actual := collectTokens(t, s)
	expected := []scannedToken{
		{0, Whitespace, ""},
		{1, AttributeName, ""},
		{4, DelimiterAssign, ""},
		{5, AttributeValue, ""},
		{8, StartTagClose, ""},
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

// TestScannerPseudoCloseTags checks the zero length close tokens reported for
// tags cut short by a following '<'.
func TestScannerPseudoCloseTags(t *testing.T) {
	s := NewScannerWithRules("<div><div</div>", 0, WithinContent, true, nil)
	actual := collectTokens(t, s)
	expected := []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "div"},
		{4, StartTagClose, ""},
		{5, StartTagOpen, ""},
		{6, StartTag, "div"},
		{9, StartTagClose, ""}, // zero length
		{9, EndTagOpen, ""},
		{11, EndTag, "div"},
		{14, EndTagClose, ""},
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerTokenError(t *testing.T) {
	s := NewScanner("< abc", 0)
	require.Equal(t, StartTagOpen, s.Scan())
	require.Equal(t, Whitespace, s.Scan())
	require.Equal(t, "Tag name must directly follow the open bracket.", s.TokenError())
	require.Equal(t, StartTag, s.Scan())
	require.Empty(t, s.TokenError())
}

func TestScannerAttributeValueQuotes(t *testing.T) {
	s := NewScanner(`<a x="1" y='2' z=3>`, 0)
	var values []string
	for token := s.Scan(); token != EOS; token = s.Scan() {
		if token == AttributeValue {
			values = append(values, s.TokenText())
		}
	}
	require.Equal(t, []string{`"1"`, `'2'`, "3"}, values)
}

func TestScannerCustomRawTextRules(t *testing.T) {
	rules := NewTagRules(nil, []string{"verbatim"}, nil)
	s := NewScannerWithRules("<verbatim><div></verbatim>", 0, WithinContent, false, rules)
	actual := collectTokens(t, s)
	expected := []scannedToken{
		{0, StartTagOpen, ""},
		{1, StartTag, "verbatim"},
		{9, StartTagClose, ""},
		{10, Content, ""},
		{15, EndTagOpen, ""},
		{17, EndTag, "verbatim"},
		{25, EndTagClose, ""},
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}
