package textdocument

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

func newDoc(content string) *TextDocument {
	return New(uri.File("/test.html"), "html", 1, content)
}

func pos(line, character uint32) protocol.Position {
	return protocol.Position{Line: line, Character: character}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		content string
		lines   int
	}{
		{"", 1},
		{"hello", 1},
		{"hello\n", 2},
		{"hello\nworld", 2},
		{"a\r\nb\rc\nd", 4},
	}
	for _, tt := range tests {
		require.Equal(t, tt.lines, newDoc(tt.content).LineCount(), "content %q", tt.content)
	}
}

func TestPositionAt(t *testing.T) {
	doc := newDoc("abc\ndef\r\nghi")

	tests := []struct {
		offset   int
		expected protocol.Position
	}{
		{0, pos(0, 0)},
		{2, pos(0, 2)},
		{3, pos(0, 3)},
		{4, pos(1, 0)},
		{7, pos(1, 3)},
		{9, pos(2, 0)},
		{12, pos(2, 3)},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, doc.PositionAt(tt.offset), "offset %d", tt.offset)
	}

	// out of range offsets clamp to the document bounds
	require.Equal(t, pos(0, 0), doc.PositionAt(-1))
	require.Equal(t, pos(2, 3), doc.PositionAt(100))
}

func TestOffsetAt(t *testing.T) {
	doc := newDoc("abc\ndef\r\nghi")

	tests := []struct {
		position protocol.Position
		expected int
	}{
		{pos(0, 0), 0},
		{pos(0, 3), 3},
		{pos(1, 0), 4},
		{pos(1, 3), 7},
		{pos(2, 0), 9},
		{pos(2, 3), 12},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, doc.OffsetAt(tt.position), "position %v", tt.position)
	}

	// past the end of a line clamps to the line terminator
	require.Equal(t, 4, doc.OffsetAt(pos(0, 100)))
	// past the last line clamps to the end of the text
	require.Equal(t, 12, doc.OffsetAt(pos(5, 0)))
}

func TestRoundTrip(t *testing.T) {
	doc := newDoc("line one\nline two\r\nline three")
	for offset := 0; offset <= len(doc.Text()); offset++ {
		require.Equal(t, offset, doc.OffsetAt(doc.PositionAt(offset)), "offset %d", offset)
	}
}

func TestTextRange(t *testing.T) {
	doc := newDoc("abc\ndef")
	r := protocol.Range{Start: pos(0, 1), End: pos(1, 2)}
	require.Equal(t, "bc\nde", doc.TextRange(r))
}

func TestAccessors(t *testing.T) {
	doc := New(uri.File("/index.html"), "html", 7, "<p></p>")
	require.Equal(t, uri.File("/index.html"), doc.URI())
	require.Equal(t, "html", doc.LanguageID())
	require.Equal(t, int32(7), doc.Version())
	require.Equal(t, "<p></p>", doc.Text())
}
