// Package fetch retrieves the JSON collections that list controllers render.
//
// A [DataSource] locates the value at an expression path inside a fetched
// JSON document. The controller, not the data source, decides whether that
// value is array-shaped; sources report only network and parse failures.
package fetch

import (
	"context"

	"github.com/go-drift/listkit/pkg/dom"
)

// DefaultExpressionPath is the field path used when the host does not name
// one.
const DefaultExpressionPath = "items"

// DataSource fetches the value at expressionPath from the JSON document a
// host element refers to. The returned value is decoded JSON: a []any for
// arrays, map[string]any for objects, or a primitive.
type DataSource interface {
	FetchItems(ctx context.Context, doc *dom.Document, host *dom.Element, expressionPath string) (any, error)
}

// StaticDataSource returns a fixed value or error. It backs the direct-items
// render path and tests.
type StaticDataSource struct {
	// Value is returned on success.
	Value any
	// Err, if set, is returned instead.
	Err error
}

// FetchItems returns the configured value or error.
func (s *StaticDataSource) FetchItems(ctx context.Context, _ *dom.Document, _ *dom.Element, _ string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Value, nil
}
