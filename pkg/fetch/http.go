package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/go-drift/listkit/pkg/dom"
	"github.com/go-drift/listkit/pkg/errors"
)

// DefaultMaxBodyBytes caps response bodies read by HTTPDataSource.
const DefaultMaxBodyBytes = 8 << 20

// HTTPDataSource fetches JSON over HTTP from the URL in the host element's
// "src" attribute, resolved against the document base URL.
type HTTPDataSource struct {
	// Client is the HTTP client to use. Defaults to http.DefaultClient.
	Client *http.Client
	// MaxBodyBytes caps the response body. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// FetchItems GETs the host's src URL and returns the decoded JSON value at
// expressionPath. An empty or "." path selects the whole document.
func (s *HTTPDataSource) FetchItems(ctx context.Context, doc *dom.Document, host *dom.Element, expressionPath string) (any, error) {
	const op = "fetch.HTTPDataSource.FetchItems"

	src := host.Attribute("src")
	if src == "" {
		return nil, errors.Fetchf(op, "host element has no src attribute")
	}
	target, err := resolveURL(doc, src)
	if err != nil {
		return nil, errors.E(op, errors.KindFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.E(op, errors.KindFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.E(op, errors.KindFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errors.Fetchf(op, "GET %s: unexpected status %d", target, resp.StatusCode)
	}

	limit := s.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, errors.E(op, errors.KindFetch, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.Fetchf(op, "GET %s: response is not valid JSON", target)
	}

	if expressionPath == "" || expressionPath == "." {
		return gjson.ParseBytes(body).Value(), nil
	}
	result := gjson.GetBytes(body, expressionPath)
	if !result.Exists() {
		e := errors.Fetchf(op, "GET %s: no value at expression path", target)
		e.Path = expressionPath
		return nil, e
	}
	return result.Value(), nil
}

// resolveURL resolves src against the document base URL, if any.
func resolveURL(doc *dom.Document, src string) (string, error) {
	ref, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	if doc == nil || doc.BaseURL() == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(doc.BaseURL())
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
