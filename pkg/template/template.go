package template

import (
	"context"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/listkit/pkg/dom"
	"github.com/go-drift/listkit/pkg/errors"
)

// TemplateRenderer renders items through a pongo2 template resolved from the
// host element: either an inline <template> child or a document-registered
// template named by the host's "template" attribute.
type TemplateRenderer struct {
	// Policy sanitizes expanded markup. Defaults to bluemonday's UGC policy.
	Policy *bluemonday.Policy

	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

// NewTemplateRenderer creates a renderer with the default sanitizer policy.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{Policy: bluemonday.UGCPolicy()}
}

// RenderAll expands every item against the host's template. Object items are
// exposed as top-level template variables plus "item"; primitive items are
// exposed as "item" and "value".
func (r *TemplateRenderer) RenderAll(ctx context.Context, host *dom.Element, items []any) ([]*dom.Element, error) {
	const op = "template.TemplateRenderer.RenderAll"

	source, err := resolveTemplate(host)
	if err != nil {
		return nil, err
	}
	tpl, err := r.compile(source)
	if err != nil {
		return nil, errors.Renderf(op, "template compile failed: %v", err)
	}

	doc := host.Document()
	if doc == nil {
		return nil, errors.Renderf(op, "host element is detached from any document")
	}

	out := make([]*dom.Element, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, errors.E(op, errors.KindRender, err)
		}
		expanded, err := tpl.Execute(itemContext(item, i))
		if err != nil {
			return nil, errors.Renderf(op, "item %d: %v", i, err)
		}
		clean := r.sanitize(expanded)
		el, err := parseFragment(doc, clean)
		if err != nil {
			return nil, errors.Renderf(op, "item %d: %v", i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

func (r *TemplateRenderer) sanitize(markup string) string {
	policy := r.Policy
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return policy.Sanitize(markup)
}

// compile caches parsed templates by source so repeated refreshes do not
// re-parse.
func (r *TemplateRenderer) compile(source string) (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[source]; ok {
		return tpl, nil
	}
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, err
	}
	if r.cache == nil {
		r.cache = make(map[string]*pongo2.Template)
	}
	r.cache[source] = tpl
	return tpl, nil
}

// itemContext builds the pongo2 context for one item.
func itemContext(item any, index int) pongo2.Context {
	ctx := pongo2.Context{"item": item, "index": index}
	if m, ok := item.(map[string]any); ok {
		for k, v := range m {
			if k == "item" || k == "index" {
				continue
			}
			ctx[k] = v
		}
	} else {
		ctx["value"] = item
	}
	return ctx
}

// resolveTemplate finds the template source for a host element.
func resolveTemplate(host *dom.Element) (string, error) {
	const op = "template.TemplateRenderer.RenderAll"

	for _, child := range host.Children() {
		if child.Tag() == "template" {
			return child.Text(), nil
		}
	}
	if id := host.Attribute("template"); id != "" {
		if doc := host.Document(); doc != nil {
			if source, ok := doc.Template(id); ok {
				return source, nil
			}
		}
		return "", errors.Templatef(op, "no template registered under %q", id)
	}
	return "", errors.Templatef(op, "no template resolvable for host element")
}

// parseFragment parses sanitized markup into a single element. Multi-root
// fragments and bare text are wrapped in a div.
func parseFragment(doc *dom.Document, markup string) (*dom.Element, error) {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), container)
	if err != nil {
		return nil, err
	}

	var roots []*dom.Element
	var looseText strings.Builder
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			roots = append(roots, convertNode(doc, n))
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				looseText.WriteString(n.Data)
			}
		}
	}

	if len(roots) == 1 && looseText.Len() == 0 {
		return roots[0], nil
	}
	wrapper := doc.CreateElement("div")
	wrapper.SetText(strings.TrimSpace(looseText.String()))
	for _, root := range roots {
		wrapper.AppendChild(root)
	}
	return wrapper, nil
}

// convertNode maps a parsed html node tree onto dom elements. Text content
// is concatenated onto the nearest element.
func convertNode(doc *dom.Document, n *html.Node) *dom.Element {
	el := doc.CreateElement(n.Data)
	for _, a := range n.Attr {
		el.SetAttribute(a.Key, a.Val)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				el.AppendText(strings.TrimSpace(c.Data))
			}
		case html.ElementNode:
			el.AppendChild(convertNode(doc, c))
		}
	}
	return el
}
