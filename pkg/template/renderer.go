// Package template expands fetched items into document elements.
//
// The standard implementation resolves a template from the host element,
// expands it once per item with pongo2, sanitizes the output, and parses it
// into [dom] elements. One item produces exactly one element; fragments with
// several roots are wrapped in a div so the contract holds.
package template

import (
	"context"

	"github.com/go-drift/listkit/pkg/dom"
)

// Renderer expands a list of data items into rendered elements, one element
// per item, in item order.
type Renderer interface {
	RenderAll(ctx context.Context, host *dom.Element, items []any) ([]*dom.Element, error)
}
