package htmlls

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

// applyEdits is good enough for the non-overlapping edits rename produces.
func applyEdits(document string, edits []protocol.TextEdit, offsetOf func(protocol.Position) int) string {
	for i := len(edits) - 1; i >= 0; i-- {
		edit := edits[i]
		start := offsetOf(edit.Range.Start)
		end := offsetOf(edit.Range.End)
		document = document[:start] + edit.NewText + document[end:]
	}
	return document
}

func TestRenameTag(t *testing.T) {
	service, document, htmlDocument := setup("<div><h1>x</h1></div>")

	edit := service.DoRename(testURI, document, pos(0, 7), "h2", htmlDocument)
	require.NotNil(t, edit)

	edits := edit.Changes[testURI]
	require.Len(t, edits, 2)
	result := applyEdits(document.Text(), edits, document.OffsetAt)
	require.Equal(t, "<div><h2>x</h2></div>", result)
}

func TestRenameFromEndTag(t *testing.T) {
	service, document, htmlDocument := setup("<div><h1>x</h1></div>")

	edit := service.DoRename(testURI, document, pos(0, 13), "h2", htmlDocument)
	require.NotNil(t, edit)
	result := applyEdits(document.Text(), edit.Changes[testURI], document.OffsetAt)
	require.Equal(t, "<div><h2>x</h2></div>", result)
}

func TestRenameUnclosedTag(t *testing.T) {
	service, document, htmlDocument := setup("<div><h1>")

	edit := service.DoRename(testURI, document, pos(0, 7), "h2", htmlDocument)
	require.NotNil(t, edit)

	edits := edit.Changes[testURI]
	require.Len(t, edits, 1)
	result := applyEdits(document.Text(), edits, document.OffsetAt)
	require.Equal(t, "<div><h2>", result)
}

func TestRenameOutsideTagName(t *testing.T) {
	service, document, htmlDocument := setup("<div><h1>x</h1></div>")

	require.Nil(t, service.DoRename(testURI, document, pos(0, 9), "h2", htmlDocument))
}
