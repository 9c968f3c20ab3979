// Package textdocument provides the text-document collaborator the language
// service consumes: an immutable full-text snapshot with line/column
// translation. Offsets are byte offsets, matching the coordinate system of
// the parser; columns are byte columns within a line.
package textdocument

import (
	"sort"

	"go.lsp.dev/protocol"
)

// TextDocument is an immutable snapshot of a document's text at one version.
type TextDocument struct {
	uri         protocol.DocumentURI
	languageID  string
	version     int32
	content     string
	lineOffsets []int
}

// New builds a snapshot and indexes its line starts.
func New(uri protocol.DocumentURI, languageID string, version int32, content string) *TextDocument {
	return &TextDocument{
		uri:         uri,
		languageID:  languageID,
		version:     version,
		content:     content,
		lineOffsets: computeLineOffsets(content),
	}
}

// URI returns the document's identifier.
func (d *TextDocument) URI() protocol.DocumentURI {
	return d.uri
}

// LanguageID returns the language the document should be parsed as.
func (d *TextDocument) LanguageID() string {
	return d.languageID
}

// Version returns the snapshot version.
func (d *TextDocument) Version() int32 {
	return d.version
}

// Text returns the full document text.
func (d *TextDocument) Text() string {
	return d.content
}

// TextRange returns the text covered by the given range.
func (d *TextDocument) TextRange(r protocol.Range) string {
	start := d.OffsetAt(r.Start)
	end := d.OffsetAt(r.End)
	return d.content[start:end]
}

// LineCount returns the number of lines, counting the last line even when it
// has no terminator.
func (d *TextDocument) LineCount() int {
	return len(d.lineOffsets)
}

// PositionAt translates a byte offset into a line/column position. Offsets
// are clamped into [0, len(text)].
func (d *TextDocument) PositionAt(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.content) {
		offset = len(d.content)
	}
	// first line starting after offset, minus one
	line := sort.Search(len(d.lineOffsets), func(i int) bool {
		return d.lineOffsets[i] > offset
	}) - 1
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(offset - d.lineOffsets[line]),
	}
}

// OffsetAt translates a position into a byte offset. Positions past the end
// of a line or of the document are clamped.
func (d *TextDocument) OffsetAt(position protocol.Position) int {
	line := int(position.Line)
	if line >= len(d.lineOffsets) {
		return len(d.content)
	}
	lineOffset := d.lineOffsets[line]
	nextLineOffset := len(d.content)
	if line+1 < len(d.lineOffsets) {
		nextLineOffset = d.lineOffsets[line+1]
	}
	offset := lineOffset + int(position.Character)
	if offset > nextLineOffset {
		offset = nextLineOffset
	}
	if offset < lineOffset {
		offset = lineOffset
	}
	return offset
}

func computeLineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			offsets = append(offsets, i+1)
		case '\n':
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
