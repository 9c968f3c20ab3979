package parser

import "strings"

// TagRules classifies tag names for the scanner and the tree builder: which
// elements are void (never carry content or an end tag), which have raw-text
// bodies that must not be re-lexed as markup, and which are implicitly closed
// by the appearance of a following tag. The rules are a capability parameter
// rather than a compiled-in global so alternate dialects or synthetic test
// fixtures can replace them without touching the parser.
type TagRules struct {
	voidElements    map[string]bool
	rawTextElements map[string]bool
	closedBy        map[string]map[string]bool
}

// NewTagRules builds a rules table from the given classifications. All names
// are matched case-insensitively.
func NewTagRules(voidElements, rawTextElements []string, closedBy map[string][]string) *TagRules {
	r := &TagRules{
		voidElements:    make(map[string]bool, len(voidElements)),
		rawTextElements: make(map[string]bool, len(rawTextElements)),
		closedBy:        make(map[string]map[string]bool, len(closedBy)),
	}
	for _, name := range voidElements {
		r.voidElements[strings.ToLower(name)] = true
	}
	for _, name := range rawTextElements {
		r.rawTextElements[strings.ToLower(name)] = true
	}
	for name, closers := range closedBy {
		set := make(map[string]bool, len(closers))
		for _, closer := range closers {
			set[strings.ToLower(closer)] = true
		}
		r.closedBy[strings.ToLower(name)] = set
	}
	return r
}

// IsVoidElement reports whether tag can never carry content or an end tag.
func (r *TagRules) IsVoidElement(tag string) bool {
	return r.voidElements[strings.ToLower(tag)]
}

// IsRawTextElement reports whether the body of tag is opaque text.
func (r *TagRules) IsRawTextElement(tag string) bool {
	return r.rawTextElements[strings.ToLower(tag)]
}

// ClosesOnOpen reports whether an open element named open is implicitly
// closed by a start tag named next, e.g. a list item closed by the next
// list item.
func (r *TagRules) ClosesOnOpen(open, next string) bool {
	set := r.closedBy[strings.ToLower(open)]
	if set == nil {
		return false
	}
	return set[strings.ToLower(next)]
}

var html5Rules = NewTagRules(
	[]string{
		"area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr",
	},
	[]string{"script", "style", "title", "textarea"},
	map[string][]string{
		"li":       {"li"},
		"dt":       {"dt", "dd"},
		"dd":       {"dd", "dt"},
		"rt":       {"rt", "rp"},
		"rp":       {"rt", "rp"},
		"option":   {"option", "optgroup"},
		"optgroup": {"optgroup"},
		"caption":  {"thead", "tbody", "tfoot", "tr", "colgroup"},
		"colgroup": {"thead", "tbody", "tfoot", "tr"},
		"thead":    {"tbody", "tfoot"},
		"tbody":    {"tbody", "tfoot"},
		"tr":       {"tr"},
		"td":       {"td", "th", "tr"},
		"th":       {"td", "th", "tr"},
		"p": {
			"address", "article", "aside", "blockquote", "details", "div",
			"dl", "fieldset", "figcaption", "figure", "footer", "form",
			"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr",
			"main", "menu", "nav", "ol", "p", "pre", "section", "table", "ul",
		},
	},
)

// DefaultTagRules returns the built-in HTML5 table. The returned value is
// shared and read-only.
func DefaultTagRules() *TagRules {
	return html5Rules
}
