package htmlls

import (
	"go.lsp.dev/protocol"

	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

// FindMatchingTagPosition mirrors a cursor inside one tag name of an element
// to the same spot in the paired tag name, or returns nil when the position
// is not on a tag name or the element has no end tag.
func (s *LanguageService) FindMatchingTagPosition(document *textdocument.TextDocument, position protocol.Position, htmlDocument *parser.Document) *protocol.Position {
	offset := document.OffsetAt(position)
	node := elementAt(htmlDocument, offset)
	if node == nil || node.EndTagStart < 0 {
		return nil
	}

	// within open tag, compute close tag
	if node.Start+1 <= offset && offset <= node.Start+1+len(node.Tag) {
		mirrored := document.PositionAt(offset - 1 - node.Start + node.EndTagStart + 2)
		return &mirrored
	}

	// within closing tag, compute open tag
	if node.EndTagStart+2 <= offset && offset <= node.EndTagStart+2+len(node.Tag) {
		mirrored := document.PositionAt(offset - 2 - node.EndTagStart + node.Start + 1)
		return &mirrored
	}

	return nil
}
