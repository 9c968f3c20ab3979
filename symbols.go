package htmlls

import (
	"strings"

	"go.lsp.dev/protocol"

	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

// FindDocumentSymbols returns the flat symbol list for the document, one
// entry per element, with the parent element as container.
func (s *LanguageService) FindDocumentSymbols(uri protocol.DocumentURI, document *textdocument.TextDocument, htmlDocument *parser.Document) []protocol.SymbolInformation {
	var symbols []protocol.SymbolInformation
	for _, symbol := range s.FindDocumentSymbols2(document, htmlDocument) {
		walkSymbol(uri, symbol, "", &symbols)
	}
	return symbols
}

// FindDocumentSymbols2 returns the hierarchical symbol tree for the document.
func (s *LanguageService) FindDocumentSymbols2(document *textdocument.TextDocument, htmlDocument *parser.Document) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, root := range htmlDocument.Roots() {
		provideFileSymbols(document, root, &symbols)
	}
	return symbols
}

func provideFileSymbols(document *textdocument.TextDocument, node *parser.Node, symbols *[]protocol.DocumentSymbol) {
	if node.Kind != parser.NodeKindElement {
		return
	}
	symbolRange := protocol.Range{
		Start: document.PositionAt(node.Start),
		End:   document.PositionAt(node.End),
	}

	children := []protocol.DocumentSymbol{}
	for _, child := range node.Children {
		provideFileSymbols(document, child, &children)
	}

	*symbols = append(*symbols, protocol.DocumentSymbol{
		Name:           nodeToName(node),
		Kind:           protocol.SymbolKindField,
		Range:          symbolRange,
		SelectionRange: symbolRange,
		Children:       children,
	})
}

func walkSymbol(uri protocol.DocumentURI, node protocol.DocumentSymbol, containerName string, symbols *[]protocol.SymbolInformation) {
	*symbols = append(*symbols, protocol.SymbolInformation{
		Name:          node.Name,
		Kind:          node.Kind,
		ContainerName: containerName,
		Location: protocol.Location{
			URI:   uri,
			Range: node.Range,
		},
	})
	for _, child := range node.Children {
		walkSymbol(uri, child, node.Name, symbols)
	}
}

// nodeToName renders an element as `tag#id.class1.class2`.
func nodeToName(node *parser.Node) string {
	if node.Tag == "" {
		return "?"
	}
	name := node.Tag
	if id, ok := node.AttributeValue("id"); ok {
		name += "#" + stripQuotes(id)
	}
	if class, ok := node.AttributeValue("class"); ok {
		for _, className := range strings.Fields(stripQuotes(class)) {
			name += "." + className
		}
	}
	return name
}

func stripQuotes(value string) string {
	return strings.NewReplacer(`"`, "", "'", "").Replace(value)
}
