package parser

import "strings"

// HTMLParser drives one scanner over a full document and builds a Document
// tree. The parser holds no per-document state, so one instance can be shared
// across goroutines; the tag rules it was created with are read-only.
type HTMLParser struct {
	rules *TagRules
}

// NewHTMLParser returns a parser using the built-in HTML5 tag rules.
func NewHTMLParser() *HTMLParser {
	return NewHTMLParserWithRules(DefaultTagRules())
}

// NewHTMLParserWithRules returns a parser consulting the given rules table
// for void elements, raw-text elements and implicit closing.
func NewHTMLParserWithRules(rules *TagRules) *HTMLParser {
	if rules == nil {
		rules = DefaultTagRules()
	}
	return &HTMLParser{rules: rules}
}

// Parse is a convenience for one-off parses with the default HTML5 rules.
func Parse(text string) *Document {
	return NewHTMLParser().Parse(text, "html")
}

// Parse builds the document tree for text. Malformed input never fails:
// unclosed elements are kept with Closed == false, stray end tags are
// dropped, and the tree always spans the whole text.
func (p *HTMLParser) Parse(text, languageID string) *Document {
	scanner := NewScannerWithRules(text, 0, WithinContent, true, p.rules)

	root := newNode(NodeKindElement, 0, len(text), nil)
	root.Closed = true
	doc := &Document{Root: root, LanguageID: languageID, content: text}

	curr := root
	endTagStart := -1
	endTagName := ""
	pendingAttribute := ""
	var pending *Node

	for token := scanner.Scan(); token != EOS; token = scanner.Scan() {
		switch token {
		case StartTagOpen:
			child := newNode(NodeKindElement, scanner.TokenOffset(), len(text), curr)
			curr.Children = append(curr.Children, child)
			curr = child

		case StartTag:
			curr.Tag = scanner.TokenText()
			p.applyImplicitClosing(curr)

		case StartTagClose:
			if curr.Parent != nil {
				curr.End = scanner.TokenEnd()
				if scanner.TokenLength() > 0 {
					curr.StartTagEnd = scanner.TokenEnd()
					if curr.Tag != "" && p.rules.IsVoidElement(curr.Tag) {
						curr.Closed = true
						curr = curr.Parent
					}
				} else {
					// pseudo close token from an incomplete start tag
					curr = curr.Parent
				}
			}

		case StartTagSelfClose:
			if curr.Parent != nil {
				curr.Closed = true
				curr.SelfClosing = true
				curr.End = scanner.TokenEnd()
				curr.StartTagEnd = scanner.TokenEnd()
				curr = curr.Parent
			}

		case EndTagOpen:
			endTagStart = scanner.TokenOffset()
			endTagName = ""

		case EndTag:
			endTagName = strings.ToLower(scanner.TokenText())

		case EndTagClose:
			// see if we can find a matching tag
			node := curr
			for !node.IsSameTag(endTagName) && node.Parent != nil {
				node = node.Parent
			}
			if node.Parent != nil {
				for curr != node {
					curr.End = endTagStart
					curr.Closed = false
					curr = curr.Parent
				}
				curr.Closed = true
				curr.EndTagStart = endTagStart
				curr.End = scanner.TokenEnd()
				curr = curr.Parent
			}

		case AttributeName:
			pendingAttribute = scanner.TokenText()
			// support valueless attributes such as 'checked'
			curr.setAttribute(pendingAttribute, scanner.TokenOffset())

		case AttributeValue:
			if pendingAttribute != "" {
				curr.setAttributeValue(pendingAttribute, scanner.TokenText(), scanner.TokenOffset(), scanner.TokenEnd())
				pendingAttribute = ""
			}

		case Content:
			child := newNode(NodeKindText, scanner.TokenOffset(), scanner.TokenEnd(), curr)
			child.Closed = true
			curr.Children = append(curr.Children, child)

		case StartCommentTag:
			pending = p.appendLeaf(curr, NodeKindComment, scanner.TokenOffset(), len(text))
		case StartDoctypeTag:
			pending = p.appendLeaf(curr, NodeKindDoctype, scanner.TokenOffset(), len(text))
		case StartCDATATag:
			pending = p.appendLeaf(curr, NodeKindCDATA, scanner.TokenOffset(), len(text))

		case Comment, Doctype, CDATAContent:
			if pending != nil {
				pending.End = scanner.TokenEnd()
			}

		case EndCommentTag, EndDoctypeTag, EndCDATATag:
			if pending != nil {
				pending.End = scanner.TokenEnd()
				pending.Closed = true
				pending = nil
			}
		}
	}

	for curr.Parent != nil {
		curr.End = len(text)
		curr.Closed = false
		curr = curr.Parent
	}
	return doc
}

// applyImplicitClosing closes open elements that an optional-end-tag rule
// says are terminated by the newly named tag, e.g. a list item closed by the
// next list item. The new node is re-homed under the closest surviving
// ancestor.
func (p *HTMLParser) applyImplicitClosing(node *Node) {
	for {
		parent := node.Parent
		if parent == nil || parent.Parent == nil || !p.rules.ClosesOnOpen(parent.Tag, node.Tag) {
			return
		}
		parent.End = node.Start
		parent.Closed = true
		parent.Children = parent.Children[:len(parent.Children)-1]
		grand := parent.Parent
		grand.Children = append(grand.Children, node)
		node.Parent = grand
	}
}

func (p *HTMLParser) appendLeaf(parent *Node, kind NodeKind, start, end int) *Node {
	child := newNode(kind, start, end, parent)
	parent.Children = append(parent.Children, child)
	return child
}
