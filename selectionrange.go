package htmlls

import (
	"go.lsp.dev/protocol"

	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

// span is an offset pair inside the document text.
type span struct {
	start, end int
}

// GetSelectionRanges returns, for each position, the ladder of semantically
// meaningful ranges around it: attribute name, quoted value, tag contents,
// element, then each enclosing ancestor.
func (s *LanguageService) GetSelectionRanges(document *textdocument.TextDocument, positions []protocol.Position, htmlDocument *parser.Document) []protocol.SelectionRange {
	result := make([]protocol.SelectionRange, 0, len(positions))
	for _, position := range positions {
		result = append(result, s.getSelectionRange(position, document, htmlDocument))
	}
	return result
}

func (s *LanguageService) getSelectionRange(position protocol.Position, document *textdocument.TextDocument, htmlDocument *parser.Document) protocol.SelectionRange {
	applicableRanges := s.getApplicableRanges(position, document, htmlDocument)
	var current *protocol.SelectionRange
	havePrev := false
	var prev span
	for i := len(applicableRanges) - 1; i >= 0; i-- {
		r := applicableRanges[i]
		if !havePrev || r != prev {
			current = &protocol.SelectionRange{
				Range: protocol.Range{
					Start: document.PositionAt(r.start),
					End:   document.PositionAt(r.end),
				},
				Parent: current,
			}
		}
		prev = r
		havePrev = true
	}
	if current == nil {
		return protocol.SelectionRange{Range: protocol.Range{Start: position, End: position}}
	}
	return *current
}

func (s *LanguageService) getApplicableRanges(position protocol.Position, document *textdocument.TextDocument, htmlDocument *parser.Document) []span {
	currOffset := document.OffsetAt(position)
	currNode := elementAt(htmlDocument, currOffset)

	result := allParentTagRanges(currNode, htmlDocument)
	if currNode == nil {
		return result
	}

	// self-closing or void elements
	if currNode.StartTagEnd >= 0 && currNode.EndTagStart < 0 {
		startTagEnd := currNode.StartTagEnd
		// the rare case of unmatching tag pairs like <div></div1>
		if startTagEnd != currNode.End {
			return []span{{currNode.Start, currNode.End}}
		}

		if startTagEnd >= 2 && document.Text()[startTagEnd-2:startTagEnd] == "/>" {
			// self-closing element
			result = insertFront(result, span{currNode.Start + 1, startTagEnd - 2})
		} else {
			// void element
			result = insertFront(result, span{currNode.Start + 1, startTagEnd - 1})
		}

		return append(s.attributeLevelRanges(document, currNode, currOffset), result...)
	}

	if currNode.StartTagEnd < 0 || currNode.EndTagStart < 0 {
		return result
	}

	startTagEnd := currNode.StartTagEnd
	endTagStart := currNode.EndTagStart

	// for html like `<div class="foo">bar</div>`
	result = insertFront(result, span{currNode.Start, currNode.End})

	// cursor inside `<div class="foo">`
	if currNode.Start < currOffset && currOffset < startTagEnd {
		result = insertFront(result, span{currNode.Start + 1, startTagEnd - 1})
		return append(s.attributeLevelRanges(document, currNode, currOffset), result...)
	}

	// cursor inside `bar`
	if startTagEnd <= currOffset && currOffset <= endTagStart {
		return insertFront(result, span{startTagEnd, endTagStart})
	}

	// cursor inside `</div>`
	if currOffset >= endTagStart+2 {
		result = insertFront(result, span{endTagStart + 2, currNode.End - 1})
	}
	return result
}

// allParentTagRanges collects the ranges of every element enclosing node,
// innermost first, then the span of the whole top-level forest.
func allParentTagRanges(node *parser.Node, htmlDocument *parser.Document) []span {
	var result []span
	if node != nil {
		for parent := node.Parent; parent != nil && parent.Parent != nil; parent = parent.Parent {
			result = append(result, nodeRanges(parent)...)
		}
	}
	if roots := htmlDocument.Roots(); len(roots) > 0 {
		result = append(result, span{roots[0].Start, roots[len(roots)-1].End})
	}
	return result
}

func nodeRanges(node *parser.Node) []span {
	if node.StartTagEnd >= 0 && node.EndTagStart >= 0 && node.StartTagEnd < node.EndTagStart {
		return []span{
			{node.StartTagEnd, node.EndTagStart},
			{node.Start, node.End},
		}
	}
	return []span{{node.Start, node.End}}
}

// attributeLevelRanges re-scans the element's own text for the attribute the
// cursor is in, producing name, quoted value, bare value and name=value
// ranges.
func (s *LanguageService) attributeLevelRanges(document *textdocument.TextDocument, currNode *parser.Node, currOffset int) []span {
	nodeText := document.Text()[currNode.Start:currNode.End]
	relativeOffset := currOffset - currNode.Start

	scanner := parser.NewScannerWithRules(nodeText, 0, parser.WithinContent, false, s.rules)
	var result []span
	isInsideAttribute := false
	attrStart := 0

	for token := scanner.Scan(); token != parser.EOS; token = scanner.Scan() {
		switch token {
		case parser.AttributeName:
			if relativeOffset < scanner.TokenOffset() {
				isInsideAttribute = false
				break
			}
			if relativeOffset <= scanner.TokenEnd() {
				// `class`
				result = insertFront(result, span{scanner.TokenOffset(), scanner.TokenEnd()})
			}
			isInsideAttribute = true
			attrStart = scanner.TokenOffset()

		case parser.AttributeValue:
			if !isInsideAttribute {
				break
			}
			valueText := scanner.TokenText()
			if relativeOffset < scanner.TokenOffset() {
				// `class="foo"`
				result = append(result, span{attrStart, scanner.TokenEnd()})
			} else if relativeOffset <= scanner.TokenEnd() {
				// `"foo"`
				result = insertFront(result, span{scanner.TokenOffset(), scanner.TokenEnd()})
				// `foo`
				if len(valueText) >= 2 &&
					((valueText[0] == '"' && valueText[len(valueText)-1] == '"') ||
						(valueText[0] == '\'' && valueText[len(valueText)-1] == '\'')) &&
					relativeOffset >= scanner.TokenOffset()+1 && relativeOffset <= scanner.TokenEnd()-1 {
					result = insertFront(result, span{scanner.TokenOffset() + 1, scanner.TokenEnd() - 1})
				}
				// `class="foo"`
				result = append(result, span{attrStart, scanner.TokenEnd()})
			}
		}
	}

	for i := range result {
		result[i].start += currNode.Start
		result[i].end += currNode.Start
	}
	return result
}

func insertFront(spans []span, s span) []span {
	return append([]span{s}, spans...)
}
