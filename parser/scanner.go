package parser

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:generate stringer -type=TokenType
type TokenType int

const (
	StartCommentTag TokenType = iota
	Comment
	EndCommentTag
	StartTagOpen
	StartTagClose
	StartTagSelfClose
	StartTag
	EndTagOpen
	EndTagClose
	EndTag
	DelimiterAssign
	AttributeName
	AttributeValue
	StartDoctypeTag
	Doctype
	EndDoctypeTag
	StartCDATATag
	CDATAContent
	EndCDATATag
	Content
	Whitespace
	Unknown
	EOS
)

//go:generate stringer -type=ScannerState
type ScannerState int

const (
	WithinContent ScannerState = iota
	AfterOpeningStartTag
	AfterOpeningEndTag
	WithinDoctype
	WithinTag
	WithinEndTag
	WithinComment
	WithinCDATA
	WithinScriptContent
	WithinRawText
	AfterAttributeName
	BeforeAttributeValue
)

var (
	doctypeRE       = regexp.MustCompile(`^!(?i:doctype)`)
	unquotedValueRE = regexp.MustCompile("^[^\\s\"'`=<>]+")
	scriptCommentRE = regexp.MustCompile(`<!--|-->|</?script\s*/?>?`)
	elementNameRE   = regexp.MustCompile(`^[_:\w][_:\w\-.\d]*`)
	attributeNameRE = regexp.MustCompile("^[^\\s\"'></=\\x00-\\x0f\\x7f\\x80-\\x9f]*")
)

// Scanner is a single-pass, pull-based tokenizer over HTML text. Each call to
// Scan commits one token; the token's kind, offsets and text stay readable
// until the next call. Malformed input never stops the scanner: it emits a
// best-effort token and keeps moving, so a scan loop always terminates.
type Scanner struct {
	stream      *multiLineStream
	state       ScannerState
	tokenType   TokenType
	tokenOffset int
	tokenError  string

	rules               *TagRules
	emitPseudoCloseTags bool
	hasSpaceAfterTag    bool
	lastTag             string
	lastAttributeName   string
	lastTypeValue       string
}

// NewScanner returns a scanner over input starting at initialOffset, in the
// content state. This is the standalone entry point for consumers such as
// syntax highlighters that do not need a tree.
func NewScanner(input string, initialOffset int) *Scanner {
	return NewScannerWithRules(input, initialOffset, WithinContent, false, DefaultTagRules())
}

// NewScannerWithState resumes scanning in a specific state, e.g. to re-lex
// from the middle of a tag.
func NewScannerWithState(input string, initialOffset int, initialState ScannerState, emitPseudoCloseTags bool) *Scanner {
	return NewScannerWithRules(input, initialOffset, initialState, emitPseudoCloseTags, DefaultTagRules())
}

// NewScannerWithRules is the fully parameterized constructor. The rules table
// supplies the raw-text element set; emitPseudoCloseTags makes the scanner
// report a zero-length close token when a tag is cut short by a following
// '<', which the tree builder uses to recover structure in documents under
// active editing.
func NewScannerWithRules(input string, initialOffset int, initialState ScannerState, emitPseudoCloseTags bool, rules *TagRules) *Scanner {
	if rules == nil {
		rules = DefaultTagRules()
	}
	return &Scanner{
		stream:              newMultiLineStream(input, initialOffset),
		state:               initialState,
		tokenType:           Unknown,
		rules:               rules,
		emitPseudoCloseTags: emitPseudoCloseTags,
	}
}

// Scan advances to the next token and returns its kind. The cursor is
// guaranteed to make forward progress: if an internal state fails to consume
// input, one character is eaten and Unknown is emitted.
func (s *Scanner) Scan() TokenType {
	offset := s.stream.pos()
	oldState := s.state
	tokenType := s.internalScan()
	if tokenType != EOS && offset == s.stream.pos() &&
		!(s.emitPseudoCloseTags && (tokenType == StartTagClose || tokenType == EndTagClose)) {
		logrus.WithFields(logrus.Fields{
			"offset": offset,
			"before": oldState,
			"after":  s.state,
		}).Warn("scan has not advanced, eating one character")
		s.stream.advance(1)
		return s.finishToken(offset, Unknown, "")
	}
	return tokenType
}

// TokenType returns the kind of the last scanned token.
func (s *Scanner) TokenType() TokenType {
	return s.tokenType
}

// TokenOffset returns the start offset of the last scanned token.
func (s *Scanner) TokenOffset() int {
	return s.tokenOffset
}

// TokenLength returns the length of the last scanned token.
func (s *Scanner) TokenLength() int {
	return s.stream.pos() - s.tokenOffset
}

// TokenEnd returns the offset just past the last scanned token.
func (s *Scanner) TokenEnd() int {
	return s.stream.pos()
}

// TokenText returns the source text of the last scanned token.
func (s *Scanner) TokenText() string {
	return s.stream.source[s.tokenOffset:s.stream.pos()]
}

// State returns the state the scanner will resume from.
func (s *Scanner) State() ScannerState {
	return s.state
}

// TokenError returns the recovery note attached to the last token, or "".
func (s *Scanner) TokenError() string {
	return s.tokenError
}

func (s *Scanner) internalScan() TokenType {
	offset := s.stream.pos()
	if s.stream.eos() {
		return s.finishToken(offset, EOS, "")
	}
	errorMessage := ""

	switch s.state {
	case WithinComment:
		if s.stream.advanceIfChars("-->") {
			s.state = WithinContent
			return s.finishToken(offset, EndCommentTag, "")
		}
		s.stream.advanceUntilChars("-->")
		return s.finishToken(offset, Comment, "")

	case WithinDoctype:
		if s.stream.advanceIfChar('>') {
			s.state = WithinContent
			return s.finishToken(offset, EndDoctypeTag, "")
		}
		s.stream.advanceUntilChar('>')
		return s.finishToken(offset, Doctype, "")

	case WithinCDATA:
		if s.stream.advanceIfChars("]]>") {
			s.state = WithinContent
			return s.finishToken(offset, EndCDATATag, "")
		}
		s.stream.advanceUntilChars("]]>")
		return s.finishToken(offset, CDATAContent, "")

	case WithinContent:
		if s.stream.advanceIfChar('<') {
			if !s.stream.eos() && s.stream.peekChar(0) == '!' {
				if s.stream.advanceIfChars("!--") {
					s.state = WithinComment
					return s.finishToken(offset, StartCommentTag, "")
				}
				if s.stream.advanceIfChars("![CDATA[") {
					s.state = WithinCDATA
					return s.finishToken(offset, StartCDATATag, "")
				}
				if s.stream.advanceIfRegexp(doctypeRE) != "" {
					s.state = WithinDoctype
					return s.finishToken(offset, StartDoctypeTag, "")
				}
			}
			if s.stream.advanceIfChar('/') {
				s.state = AfterOpeningEndTag
				return s.finishToken(offset, EndTagOpen, "")
			}
			s.state = AfterOpeningStartTag
			return s.finishToken(offset, StartTagOpen, "")
		}
		s.stream.advanceUntilChar('<')
		return s.finishToken(offset, Content, "")

	case AfterOpeningEndTag:
		if s.nextElementName() != "" {
			s.state = WithinEndTag
			return s.finishToken(offset, EndTag, "")
		}
		if s.stream.skipWhitespace() {
			// white space is not valid here
			return s.finishToken(offset, Whitespace, "Tag name must directly follow the open bracket.")
		}
		s.state = WithinEndTag
		s.stream.advanceUntilChar('>')
		if offset < s.stream.pos() {
			return s.finishToken(offset, Unknown, "End tag name expected.")
		}
		return s.internalScan()

	case WithinEndTag:
		if s.stream.skipWhitespace() {
			// white space is valid here
			return s.finishToken(offset, Whitespace, "")
		}
		if s.stream.advanceIfChar('>') {
			s.state = WithinContent
			return s.finishToken(offset, EndTagClose, "")
		}
		if s.emitPseudoCloseTags && s.stream.peekChar(0) == '<' {
			s.state = WithinContent
			return s.finishToken(offset, EndTagClose, "Closing bracket missing.")
		}
		errorMessage = "Closing bracket expected."

	case AfterOpeningStartTag:
		s.lastTag = s.nextElementName()
		s.lastTypeValue = ""
		s.lastAttributeName = ""
		if s.lastTag != "" {
			s.hasSpaceAfterTag = false
			s.state = WithinTag
			return s.finishToken(offset, StartTag, "")
		}
		if s.stream.skipWhitespace() {
			// white space is not valid here
			return s.finishToken(offset, Whitespace, "Tag name must directly follow the open bracket.")
		}
		s.state = WithinTag
		s.stream.advanceUntilChar('>')
		if offset < s.stream.pos() {
			return s.finishToken(offset, Unknown, "Start tag name expected.")
		}
		return s.internalScan()

	case WithinTag:
		if s.stream.skipWhitespace() {
			s.hasSpaceAfterTag = true // remember that we have seen a whitespace
			return s.finishToken(offset, Whitespace, "")
		}
		if s.hasSpaceAfterTag {
			s.lastAttributeName = s.nextAttributeName()
			if s.lastAttributeName != "" {
				s.state = AfterAttributeName
				s.hasSpaceAfterTag = false
				return s.finishToken(offset, AttributeName, "")
			}
		}
		if s.stream.advanceIfChars("/>") {
			s.state = WithinContent
			return s.finishToken(offset, StartTagSelfClose, "")
		}
		if s.stream.advanceIfChar('>') {
			switch {
			case s.lastTag == "script" && s.rules.IsRawTextElement("script"):
				if s.lastTypeValue != "" {
					// stay in html
					s.state = WithinContent
				} else {
					s.state = WithinScriptContent
				}
			case s.rules.IsRawTextElement(s.lastTag):
				s.state = WithinRawText
			default:
				s.state = WithinContent
			}
			return s.finishToken(offset, StartTagClose, "")
		}
		if s.emitPseudoCloseTags && s.stream.peekChar(0) == '<' {
			s.state = WithinContent
			return s.finishToken(offset, StartTagClose, "Closing bracket missing.")
		}
		s.stream.advance(1)
		return s.finishToken(offset, Unknown, "Unexpected character in tag.")

	case AfterAttributeName:
		if s.stream.skipWhitespace() {
			s.hasSpaceAfterTag = true
			return s.finishToken(offset, Whitespace, "")
		}
		if s.stream.advanceIfChar('=') {
			s.state = BeforeAttributeValue
			return s.finishToken(offset, DelimiterAssign, "")
		}
		s.state = WithinTag
		return s.internalScan() // no advance yet - jump to WithinTag

	case BeforeAttributeValue:
		if s.stream.skipWhitespace() {
			return s.finishToken(offset, Whitespace, "")
		}
		curChar := s.stream.peekChar(0)
		prevChar := s.stream.peekChar(-1)
		attributeValue := s.stream.advanceIfRegexp(unquotedValueRE)
		if attributeValue != "" {
			goBack := false
			if curChar == '>' && prevChar == '/' {
				// <foo bar=http://foo/>
				goBack = true
				attributeValue = attributeValue[:len(attributeValue)-1]
			}
			if s.lastAttributeName == "type" {
				s.lastTypeValue = attributeValue
			}
			if goBack {
				s.stream.goBack(1)
			}
			if attributeValue != "" {
				s.state = WithinTag
				s.hasSpaceAfterTag = false
				return s.finishToken(offset, AttributeValue, "")
			}
		}
		ch := s.stream.peekChar(0)
		if ch == '\'' || ch == '"' {
			s.stream.advance(1) // consume quote
			if s.stream.advanceUntilChar(ch) {
				s.stream.advance(1) // consume quote
			}
			if s.lastAttributeName == "type" {
				s.lastTypeValue = ""
				if offset+1 <= s.stream.pos()-1 {
					s.lastTypeValue = s.stream.source[offset+1 : s.stream.pos()-1]
				}
			}
			s.state = WithinTag
			s.hasSpaceAfterTag = false
			return s.finishToken(offset, AttributeValue, "")
		}
		s.state = WithinTag
		s.hasSpaceAfterTag = false
		return s.internalScan() // no advance yet - jump to WithinTag

	case WithinScriptContent:
		// see http://stackoverflow.com/questions/14574471/how-do-browsers-parse-a-script-tag-exactly
		scriptState := 1
		for !s.stream.eos() {
			match := s.stream.advanceIfRegexp(scriptCommentRE)
			if match == "" {
				s.stream.goToEnd()
				return s.finishToken(offset, Content, "")
			} else if match == "<!--" {
				if scriptState == 1 {
					scriptState = 2
				}
			} else if match == "-->" {
				scriptState = 1
			} else if match[1] != '/' {
				// <script
				if scriptState == 2 {
					scriptState = 3
				}
			} else {
				// </script
				if scriptState == 3 {
					scriptState = 2
				} else {
					s.stream.goBack(len(match)) // to the beginning of the closing tag
					break
				}
			}
		}
		s.state = WithinContent
		if offset < s.stream.pos() {
			return s.finishToken(offset, Content, "")
		}
		return s.internalScan() // no advance yet - jump to content

	case WithinRawText:
		s.stream.advanceUntilCharsCI("</" + s.lastTag)
		s.state = WithinContent
		if offset < s.stream.pos() {
			return s.finishToken(offset, Content, "")
		}
		return s.internalScan() // no advance yet - jump to content
	}

	s.stream.advance(1)
	s.state = WithinContent
	return s.finishToken(offset, Unknown, errorMessage)
}

func (s *Scanner) finishToken(offset int, tokenType TokenType, errorMessage string) TokenType {
	s.tokenType = tokenType
	s.tokenOffset = offset
	s.tokenError = errorMessage
	return tokenType
}

func (s *Scanner) nextElementName() string {
	return strings.ToLower(s.stream.advanceIfRegexp(elementNameRE))
}

func (s *Scanner) nextAttributeName() string {
	return strings.ToLower(s.stream.advanceIfRegexp(attributeNameRE))
}
