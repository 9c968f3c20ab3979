package htmlls

import (
	"go.lsp.dev/protocol"

	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

// FindLinkedEditingRanges returns the start and end tag name ranges of the
// element the position sits in, when the cursor is inside either name, so an
// editor can keep the two names in sync while typing.
func (s *LanguageService) FindLinkedEditingRanges(document *textdocument.TextDocument, position protocol.Position, htmlDocument *parser.Document) []protocol.Range {
	offset := document.OffsetAt(position)
	node := elementAt(htmlDocument, offset)
	if node == nil || node.EndTagStart < 0 {
		return nil
	}

	tagLen := len(node.Tag)
	withinStartTag := node.Start+1 <= offset && offset <= node.Start+1+tagLen
	withinEndTag := node.EndTagStart+2 <= offset && offset <= node.EndTagStart+2+tagLen
	if !withinStartTag && !withinEndTag {
		return nil
	}

	return []protocol.Range{
		{
			Start: document.PositionAt(node.Start + 1),
			End:   document.PositionAt(node.Start + 1 + tagLen),
		},
		{
			Start: document.PositionAt(node.EndTagStart + 2),
			End:   document.PositionAt(node.EndTagStart + 2 + tagLen),
		},
	}
}
