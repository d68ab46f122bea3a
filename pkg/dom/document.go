package dom

import "errors"

// ErrResizeDenied is returned by resize handlers that refuse an automatic
// height change. Controllers treat any resize error as a denial.
var ErrResizeDenied = errors.New("dom: resize denied by host")

// ResizeHandler decides whether an element may change its laid-out height.
// Returning nil accepts the change; the new height is applied by the caller.
type ResizeHandler func(el *Element, height float64) error

// DefaultViewportWidth is used for text measurement when neither the element
// chain nor the document provides a width.
const DefaultViewportWidth = 800

// Document owns a tree of elements plus the per-document state the rendering
// pipeline needs: the base URL for relative fetches, registered template
// sources, and the host's resize policy.
type Document struct {
	root          *Element
	baseURL       string
	templates     map[string]string
	resizeHandler ResizeHandler

	// ViewportWidth is the logical width used for text measurement when an
	// element has no laid-out width of its own.
	ViewportWidth float64
}

// NewDocument creates a document with an empty "body" root.
func NewDocument() *Document {
	d := &Document{
		templates:     make(map[string]string),
		ViewportWidth: DefaultViewportWidth,
	}
	d.root = &Element{doc: d, tag: "body"}
	return d
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// CreateElement creates a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: tag}
}

// SetBaseURL sets the URL that relative data-source references resolve
// against.
func (d *Document) SetBaseURL(base string) {
	d.baseURL = base
}

// BaseURL returns the document base URL, or "".
func (d *Document) BaseURL() string {
	return d.baseURL
}

// RegisterTemplate stores a template source under an id so hosts can refer
// to it by attribute instead of inlining it.
func (d *Document) RegisterTemplate(id, source string) {
	d.templates[id] = source
}

// Template returns the registered template source for id.
func (d *Document) Template(id string) (string, bool) {
	src, ok := d.templates[id]
	return src, ok
}

// SetResizeHandler installs the host's resize policy. A nil handler accepts
// every resize.
func (d *Document) SetResizeHandler(h ResizeHandler) {
	d.resizeHandler = h
}
