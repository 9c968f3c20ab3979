package htmlls

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

// DoRename renames the element tag at the position, producing edits for both
// the start and (when present) end tag name. Nil is returned when the
// position is not on a tag name.
func (s *LanguageService) DoRename(docURI uri.URI, document *textdocument.TextDocument, position protocol.Position, newName string, htmlDocument *parser.Document) *protocol.WorkspaceEdit {
	offset := document.OffsetAt(position)
	node := elementAt(htmlDocument, offset)
	if node == nil || !isWithinTagRange(node, offset) {
		return nil
	}

	edits := []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: document.PositionAt(node.Start + 1),
				End:   document.PositionAt(node.Start + 1 + len(node.Tag)),
			},
			NewText: newName,
		},
	}
	if node.EndTagStart >= 0 {
		edits = append(edits, protocol.TextEdit{
			Range: protocol.Range{
				Start: document.PositionAt(node.EndTagStart + 2),
				End:   document.PositionAt(node.EndTagStart + 2 + len(node.Tag)),
			},
			NewText: newName,
		})
	}

	return &protocol.WorkspaceEdit{
		Changes: map[uri.URI][]protocol.TextEdit{docURI: edits},
	}
}

func isWithinTagRange(node *parser.Node, offset int) bool {
	if node.EndTagStart >= 0 &&
		node.EndTagStart+2 <= offset && offset <= node.EndTagStart+2+len(node.Tag) {
		return true
	}
	return node.Start+1 <= offset && offset <= node.Start+1+len(node.Tag)
}
