package dom

import (
	"strings"
	"testing"
)

func TestSetAttribute_ReplacesInPlace(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div")
	el.SetAttribute("role", "list")
	el.SetAttribute("class", "items")
	el.SetAttribute("role", "listbox")

	if got := el.Attribute("role"); got != "listbox" {
		t.Errorf("expected replaced value, got %q", got)
	}
	attrs := el.Attributes()
	if len(attrs) != 2 || attrs[0].Name != "role" {
		t.Errorf("expected attribute order preserved, got %v", attrs)
	}
}

func TestHasAttribute_DistinguishesEmptyFromUnset(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div")
	el.SetAttribute("role", "")
	if !el.HasAttribute("role") {
		t.Error("expected empty attribute to count as set")
	}
	if el.HasAttribute("aria-live") {
		t.Error("expected unset attribute to be absent")
	}
}

func TestAppendChild_TransfersOwnership(t *testing.T) {
	d := NewDocument()
	a := d.CreateElement("div")
	b := d.CreateElement("div")
	child := d.CreateElement("span")

	a.AppendChild(child)
	b.AppendChild(child)

	if a.ChildCount() != 0 {
		t.Error("expected child to leave its old parent")
	}
	if child.Parent() != b {
		t.Error("expected child to be reparented")
	}
}

func TestReplaceChildren_FullyReplaces(t *testing.T) {
	d := NewDocument()
	container := d.CreateElement("div")
	old := d.CreateElement("span")
	container.AppendChild(old)

	first := d.CreateElement("li")
	second := d.CreateElement("li")
	container.ReplaceChildren(first, second)

	children := container.Children()
	if len(children) != 2 || children[0] != first || children[1] != second {
		t.Fatalf("expected exactly the new children in order, got %d", len(children))
	}
	if old.Parent() != nil {
		t.Error("expected old child to be detached")
	}
}

func TestDispatchEvent_BubblesToAncestors(t *testing.T) {
	d := NewDocument()
	parent := d.CreateElement("div")
	child := d.CreateElement("span")
	d.Root().AppendChild(parent)
	parent.AppendChild(child)

	var seen []string
	child.AddEventListener("rendered", func(*Event) { seen = append(seen, "child") })
	parent.AddEventListener("rendered", func(*Event) { seen = append(seen, "parent") })
	d.Root().AddEventListener("rendered", func(*Event) { seen = append(seen, "root") })

	child.DispatchEvent(&Event{Type: "rendered", Bubbles: true})

	if strings.Join(seen, ",") != "child,parent,root" {
		t.Errorf("expected bubbling order child,parent,root, got %v", seen)
	}
}

func TestDispatchEvent_NonBubblingStopsAtTarget(t *testing.T) {
	d := NewDocument()
	parent := d.CreateElement("div")
	child := d.CreateElement("span")
	parent.AppendChild(child)

	parentSaw := false
	parent.AddEventListener("rendered", func(*Event) { parentSaw = true })
	child.DispatchEvent(&Event{Type: "rendered"})

	if parentSaw {
		t.Error("expected non-bubbling event to stop at the target")
	}
}

func TestAddEventListener_Unsubscribe(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div")
	calls := 0
	remove := el.AddEventListener("rendered", func(*Event) { calls++ })

	el.DispatchEvent(&Event{Type: "rendered"})
	remove()
	el.DispatchEvent(&Event{Type: "rendered"})

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestRequestResize_HostDenial(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div")
	d.Root().AppendChild(el)
	el.SetLayoutSize(300, 100)

	d.SetResizeHandler(func(*Element, float64) error { return ErrResizeDenied })
	if err := el.RequestResize(250); err == nil {
		t.Fatal("expected denial error")
	}
	if el.LayoutHeight() != 100 {
		t.Errorf("expected height unchanged on denial, got %f", el.LayoutHeight())
	}

	d.SetResizeHandler(nil)
	if err := el.RequestResize(250); err != nil {
		t.Fatalf("unexpected error with no handler: %v", err)
	}
	if el.LayoutHeight() != 250 {
		t.Errorf("expected height applied, got %f", el.LayoutHeight())
	}
}

func TestContentHeight_ExplicitHeightWins(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div")
	el.SetAttribute("height", "42")
	el.SetText("this text would measure taller than 42 if it wrapped many times over")

	if got := el.ContentHeight(); got != 42 {
		t.Errorf("expected explicit height 42, got %f", got)
	}
}

func TestContentHeight_StacksChildren(t *testing.T) {
	d := NewDocument()
	container := d.CreateElement("div")
	for i := 0; i < 3; i++ {
		item := d.CreateElement("li")
		item.SetAttribute("height", "50")
		container.AppendChild(item)
	}

	if got := container.ContentHeight(); got != 150 {
		t.Errorf("expected stacked height 150, got %f", got)
	}
}

func TestContentHeight_HiddenSubtreeIsZero(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("div")
	el.SetAttribute("height", "50")
	el.SetHidden(true)

	if got := el.ContentHeight(); got != 0 {
		t.Errorf("expected hidden element to measure 0, got %f", got)
	}
}

func TestContentHeight_TextWraps(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("p")
	el.SetLayoutSize(40, 0) // narrow: forces wrapping
	el.SetText("a moderately long line of text")

	narrow := el.ContentHeight()
	el.SetLayoutSize(4000, 0)
	wide := el.ContentHeight()

	if narrow <= wide {
		t.Errorf("expected narrow layout to wrap taller: narrow=%f wide=%f", narrow, wide)
	}
	if wide <= 0 {
		t.Error("expected non-empty text to have positive height")
	}
}

func TestOuterHTML(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("ul")
	el.SetAttribute("role", "list")
	item := d.CreateElement("li")
	item.SetText("a")
	el.AppendChild(item)

	got := el.OuterHTML()
	want := `<ul role="list"><li>a</li></ul>`
	if got != want {
		t.Errorf("OuterHTML = %q, want %q", got, want)
	}
}
