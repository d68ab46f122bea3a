// Package dom provides the retained document model that listkit controllers
// render into.
//
// The model is deliberately small: elements carry a tag, ordered attributes,
// text content, children, and a hidden flag. Events bubble from a target
// toward the document root and are never cancelable. Geometry is split into a
// host-assigned laid-out size and a measured content height so controllers
// can compare the two without forcing layout (see [Element.ContentHeight]).
package dom

import "strings"

// Attr is a single element attribute. Attribute order is preserved so
// serialized output is stable.
type Attr struct {
	Name  string
	Value string
}

// Element is a node in the document tree.
type Element struct {
	doc      *Document
	tag      string
	attrs    []Attr
	parent   *Element
	children []*Element
	text     string
	hidden   bool

	listeners      map[string][]*listener
	nextListenerID int

	layoutWidth  float64
	layoutHeight float64
}

type listener struct {
	id int
	fn func(*Event)
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.tag
}

// Document returns the owning document, or nil for detached elements.
func (e *Element) Document() *Document {
	return e.doc
}

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildCount returns the number of children without copying.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// Text returns the element's own text content.
func (e *Element) Text() string {
	return e.text
}

// SetText replaces the element's own text content.
func (e *Element) SetText(text string) {
	e.text = text
}

// AppendText appends to the element's own text content.
func (e *Element) AppendText(text string) {
	e.text += text
}

// Attribute returns the value of the named attribute, or "" if unset.
func (e *Element) Attribute(name string) string {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttribute reports whether the named attribute is set, even to "".
func (e *Element) HasAttribute(name string) bool {
	for _, a := range e.attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// SetAttribute sets or replaces the named attribute.
func (e *Element) SetAttribute(name, value string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// RemoveAttribute deletes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attributes returns a copy of the attribute list in declaration order.
func (e *Element) Attributes() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// Hidden reports whether the element is hidden.
func (e *Element) Hidden() bool {
	return e.hidden
}

// SetHidden toggles the element's hidden flag.
func (e *Element) SetHidden(hidden bool) {
	e.hidden = hidden
}

// AppendChild adds child as the last child, detaching it from any previous
// parent first.
func (e *Element) AppendChild(child *Element) {
	if child == nil || child == e {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = e
	child.adopt(e.doc)
	e.children = append(e.children, child)
}

// RemoveChildren detaches every child. Detached children keep their own
// subtrees and may be garbage-collected if unreferenced.
func (e *Element) RemoveChildren() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// ReplaceChildren detaches every current child and appends the given
// elements in order.
func (e *Element) ReplaceChildren(children ...*Element) {
	e.RemoveChildren()
	for _, c := range children {
		e.AppendChild(c)
	}
}

func (e *Element) removeChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// adopt updates the owning document for e and its subtree.
func (e *Element) adopt(doc *Document) {
	if e.doc == doc {
		return
	}
	e.doc = doc
	for _, c := range e.children {
		c.adopt(doc)
	}
}

// OuterHTML serializes the element and its subtree. Hidden elements carry a
// bare "hidden" attribute.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	e.writeHTML(&sb)
	return sb.String()
}

func (e *Element) writeHTML(sb *strings.Builder) {
	sb.WriteString("<")
	sb.WriteString(e.tag)
	for _, a := range e.attrs {
		sb.WriteString(" ")
		sb.WriteString(a.Name)
		if a.Value != "" {
			sb.WriteString(`="`)
			sb.WriteString(a.Value)
			sb.WriteString(`"`)
		}
	}
	if e.hidden {
		sb.WriteString(" hidden")
	}
	sb.WriteString(">")
	sb.WriteString(e.text)
	for _, c := range e.children {
		c.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteString(">")
}
