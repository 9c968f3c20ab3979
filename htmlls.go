// Package htmlls is the engine behind an HTML language service: a scanner
// and tree-building parser that turn raw markup into a position-indexed
// document model, plus the editor features that are thin consumers of that
// model (folding, symbols, highlights, rename, matching-tag and
// linked-editing lookups, selection ranges).
//
// Malformed markup is the expected steady state for documents under active
// editing, so every layer degrades gracefully: the scanner and parser always
// produce a best-effort result and the features stay usable inside
// incomplete tags.
package htmlls

import (
	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

// LanguageServiceOptions configures a LanguageService.
type LanguageServiceOptions struct {
	// Rules replaces the built-in HTML5 tag rules table, e.g. for another
	// markup dialect. Nil keeps the default.
	Rules *parser.TagRules
}

// LanguageService bundles the parser configuration shared by all features.
// It is stateless apart from the read-only rules table and safe for
// concurrent use; every call re-parses its document snapshot.
type LanguageService struct {
	rules *parser.TagRules
}

// NewLanguageService builds a service from the given options; nil selects
// all defaults.
func NewLanguageService(options *LanguageServiceOptions) *LanguageService {
	rules := parser.DefaultTagRules()
	if options != nil && options.Rules != nil {
		rules = options.Rules
	}
	return &LanguageService{rules: rules}
}

// CreateScanner returns a standalone scanner over input, e.g. for syntax
// highlighting without tree construction.
func (s *LanguageService) CreateScanner(input string, initialOffset int) *parser.Scanner {
	return parser.NewScannerWithRules(input, initialOffset, parser.WithinContent, false, s.rules)
}

// ParseDocument builds the document tree for a text snapshot.
func (s *LanguageService) ParseDocument(document *textdocument.TextDocument) *parser.Document {
	return parser.NewHTMLParserWithRules(s.rules).Parse(document.Text(), document.LanguageID())
}

// elementAt resolves the element node at an offset. The tree also stores
// text, comment and CDATA spans as nodes; features that talk about tags want
// the enclosing element instead.
func elementAt(htmlDocument *parser.Document, offset int) *parser.Node {
	node, err := htmlDocument.FindNodeAt(offset)
	if err != nil {
		return nil
	}
	for node != nil && (node.Kind != parser.NodeKindElement || node.Tag == "") {
		node = node.Parent
	}
	return node
}
