package htmlls

import (
	"go.lsp.dev/protocol"

	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

// FindDocumentHighlights returns the start and end tag name ranges of the
// element whose tag the position sits on, or nothing when the position is
// not on a tag name.
func (s *LanguageService) FindDocumentHighlights(document *textdocument.TextDocument, position protocol.Position, htmlDocument *parser.Document) []protocol.DocumentHighlight {
	offset := document.OffsetAt(position)
	node := elementAt(htmlDocument, offset)
	if node == nil {
		return nil
	}

	startTagRange := tagNameRange(parser.StartTag, document, node.Start, s.rules)
	var endTagRange *protocol.Range
	if node.EndTagStart >= 0 {
		endTagRange = tagNameRange(parser.EndTag, document, node.EndTagStart, s.rules)
	}
	if (startTagRange == nil || !covers(*startTagRange, position)) &&
		(endTagRange == nil || !covers(*endTagRange, position)) {
		return nil
	}

	var result []protocol.DocumentHighlight
	if startTagRange != nil {
		result = append(result, protocol.DocumentHighlight{Range: *startTagRange, Kind: protocol.DocumentHighlightKindRead})
	}
	if endTagRange != nil {
		result = append(result, protocol.DocumentHighlight{Range: *endTagRange, Kind: protocol.DocumentHighlightKindRead})
	}
	return result
}

// tagNameRange re-scans from startOffset until the wanted token appears and
// returns its range.
func tagNameRange(tokenType parser.TokenType, document *textdocument.TextDocument, startOffset int, rules *parser.TagRules) *protocol.Range {
	scanner := parser.NewScannerWithRules(document.Text(), startOffset, parser.WithinContent, false, rules)
	token := scanner.Scan()
	for token != parser.EOS && token != tokenType {
		token = scanner.Scan()
	}
	if token == parser.EOS {
		return nil
	}
	return &protocol.Range{
		Start: document.PositionAt(scanner.TokenOffset()),
		End:   document.PositionAt(scanner.TokenEnd()),
	}
}

func isBeforeOrEqual(a, b protocol.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Character <= b.Character)
}

func covers(r protocol.Range, position protocol.Position) bool {
	return isBeforeOrEqual(r.Start, position) && isBeforeOrEqual(position, r.End)
}
