package parser

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrOffsetOutOfRange is returned by the offset lookups when the requested
// offset does not fall inside [0, len(text)]. It is the only failure the
// document model ever signals; malformed markup degrades gracefully instead.
var ErrOffsetOutOfRange = errors.New("offset out of range")

//go:generate stringer -type=NodeKind
type NodeKind int

const (
	NodeKindElement NodeKind = iota
	NodeKindText
	NodeKindComment
	NodeKindDoctype
	NodeKindCDATA
)

// Attribute is one entry of a node's ordered attribute list. Value keeps the
// raw source text including any quotes; ValueStart is -1 for valueless
// attributes such as `checked`.
type Attribute struct {
	Name       string
	Start      int
	Value      string
	ValueStart int
	ValueEnd   int
}

// HasValue reports whether the attribute carried a value.
func (a Attribute) HasValue() bool {
	return a.ValueStart >= 0
}

// Node is one node of the parsed tree. Offsets are byte offsets into the
// source text; Start/End always bracket the whole construct including its
// tags. StartTagEnd is -1 until the start tag is terminated, EndTagStart is
// -1 when no end tag exists. Closed is false on nodes whose end tag was
// missing when the document ended.
type Node struct {
	Kind        NodeKind
	Tag         string
	Start       int
	End         int
	StartTagEnd int
	EndTagStart int
	Closed      bool
	SelfClosing bool
	Attributes  []Attribute
	Children    []*Node
	Parent      *Node
}

func newNode(kind NodeKind, start, end int, parent *Node) *Node {
	return &Node{
		Kind:        kind,
		Start:       start,
		End:         end,
		StartTagEnd: -1,
		EndTagStart: -1,
		Parent:      parent,
	}
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// IsSameTag compares the node's tag against an already lowercased name.
func (n *Node) IsSameTag(tagInLowercase string) bool {
	if n.Tag == "" {
		return tagInLowercase == ""
	}
	return len(n.Tag) == len(tagInLowercase) && strings.ToLower(n.Tag) == tagInLowercase
}

// AttributeNames returns the attribute names in source order.
func (n *Node) AttributeNames() []string {
	names := make([]string, len(n.Attributes))
	for i, attr := range n.Attributes {
		names[i] = attr.Name
	}
	return names
}

// AttributeValue returns the raw value of the named attribute and whether the
// attribute carries a value at all.
func (n *Node) AttributeValue(name string) (string, bool) {
	for _, attr := range n.Attributes {
		if attr.Name == name {
			return attr.Value, attr.HasValue()
		}
	}
	return "", false
}

// setAttribute records an attribute name occurrence. Enumeration order
// follows the first occurrence; a duplicate name resets the entry so that the
// last occurrence wins.
func (n *Node) setAttribute(name string, start int) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			n.Attributes[i] = Attribute{Name: name, Start: start, ValueStart: -1, ValueEnd: -1}
			return
		}
	}
	n.Attributes = append(n.Attributes, Attribute{Name: name, Start: start, ValueStart: -1, ValueEnd: -1})
}

func (n *Node) setAttributeValue(name, value string, valueStart, valueEnd int) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			n.Attributes[i].Value = value
			n.Attributes[i].ValueStart = valueStart
			n.Attributes[i].ValueEnd = valueEnd
			return
		}
	}
}

func (n *Node) findNodeBefore(offset int) *Node {
	idx := len(n.Children)
	for i, child := range n.Children {
		if offset <= child.Start {
			idx = i
			break
		}
	}
	if idx > 0 {
		child := n.Children[idx-1]
		if offset > child.Start {
			if offset < child.End {
				return child.findNodeBefore(offset)
			}
			if last := child.LastChild(); last != nil && last.End == child.End {
				return child.findNodeBefore(offset)
			}
			return child
		}
	}
	return n
}

func (n *Node) findNodeAt(offset int) *Node {
	idx := len(n.Children)
	for i, child := range n.Children {
		if offset < child.Start {
			idx = i
			break
		}
	}
	if idx > 0 {
		child := n.Children[idx-1]
		if offset >= child.Start && offset < child.End {
			return child.findNodeAt(offset)
		}
	}
	return n
}

// TokenTypeAt classifies an offset inside an element node as the structural
// token it falls on: StartTagOpen, StartTag, StartTagClose, StartTagSelfClose,
// Content, EndTagOpen, EndTag or EndTagClose. Text nodes report Content;
// offsets outside the node, and comment or doctype nodes, yield Unknown.
func (n *Node) TokenTypeAt(offset int) TokenType {
	if n.Start > offset || n.End <= offset {
		return Unknown
	}
	if n.Kind == NodeKindText {
		return Content
	}
	if n.Kind != NodeKindElement || n.Tag == "" {
		return Unknown
	}
	if n.Start == offset {
		return StartTagOpen
	}
	if offset < n.Start+1+len(n.Tag) {
		return StartTag
	}
	if n.StartTagEnd < 0 {
		return Unknown
	}
	if offset >= n.StartTagEnd {
		if n.EndTagStart >= 0 {
			switch {
			case offset < n.EndTagStart:
				return Content
			case offset == n.EndTagStart || offset == n.EndTagStart+1:
				return EndTagOpen
			case offset < n.End-1:
				return EndTag
			default:
				return EndTagClose
			}
		} else if n.StartTagEnd == n.End && offset >= n.End-2 {
			return StartTagSelfClose
		}
	} else if n.StartTagEnd == n.End {
		if offset >= n.StartTagEnd-2 {
			return StartTagSelfClose
		}
	} else if offset >= n.StartTagEnd-1 {
		return StartTagClose
	}
	return Unknown
}

// Document is the immutable result of one parse: a root node spanning the
// whole text, the language identifier the text was parsed as, and the source
// snapshot the offsets index into. It is never mutated after construction, so
// distinct documents may be used from concurrent goroutines freely.
type Document struct {
	Root       *Node
	LanguageID string

	content string
}

// Text returns the source snapshot the document was built from.
func (d *Document) Text() string {
	return d.content
}

// Roots returns the top-level nodes of the document.
func (d *Document) Roots() []*Node {
	return d.Root.Children
}

func (d *Document) checkOffset(offset int) error {
	if offset < 0 || offset > len(d.content) {
		return errors.Wrapf(ErrOffsetOutOfRange, "offset %d not in [0, %d]", offset, len(d.content))
	}
	return nil
}

// FindNodeAt returns the deepest node whose range contains offset. At a
// boundary shared between a child's start and the parent's body the child
// wins. When no child contains the offset the root node is returned. Offsets
// outside [0, len(text)] are the caller's error and are rejected.
func (d *Document) FindNodeAt(offset int) (*Node, error) {
	if err := d.checkOffset(offset); err != nil {
		return nil, err
	}
	return d.Root.findNodeAt(offset), nil
}

// FindNodeBefore returns the node whose range ends at or immediately before
// offset, used for cursor-adjacent queries such as completion insertion
// points. When nothing precedes the offset the root node is returned.
func (d *Document) FindNodeBefore(offset int) (*Node, error) {
	if err := d.checkOffset(offset); err != nil {
		return nil, err
	}
	return d.Root.findNodeBefore(offset), nil
}

// FindRootAt returns the top-level node whose range ends at or after offset.
func (d *Document) FindRootAt(offset int) *Node {
	for _, root := range d.Root.Children {
		if offset <= root.End {
			return root
		}
	}
	return nil
}
