package htmlls

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestLinkedEditingRanges(t *testing.T) {
	service, document, htmlDocument := setup("<div><span>text</span></div>")

	expected := []protocol.Range{
		rng(0, 6, 0, 10),
		rng(0, 17, 0, 21),
	}

	// from the start tag name
	ranges := service.FindLinkedEditingRanges(document, pos(0, 7), htmlDocument)
	if diff := cmp.Diff(expected, ranges); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}

	// from the end tag name
	ranges = service.FindLinkedEditingRanges(document, pos(0, 19), htmlDocument)
	if diff := cmp.Diff(expected, ranges); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkedEditingRangesOutsideName(t *testing.T) {
	service, document, htmlDocument := setup("<div><span>text</span></div>")

	require.Nil(t, service.FindLinkedEditingRanges(document, pos(0, 13), htmlDocument))
}

func TestLinkedEditingRangesNoEndTag(t *testing.T) {
	service, document, htmlDocument := setup("<div><br></div>")

	require.Nil(t, service.FindLinkedEditingRanges(document, pos(0, 7), htmlDocument))
}
