package list_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-drift/listkit/pkg/dom"
	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/fetch"
	"github.com/go-drift/listkit/pkg/list"
	"github.com/go-drift/listkit/pkg/listtest"
	"github.com/go-drift/listkit/pkg/sched"
	"github.com/go-drift/listkit/pkg/template"
)

// fixture bundles a controller with its collaborators and affordances.
type fixture struct {
	doc         *dom.Document
	host        *dom.Element
	placeholder *dom.Element
	fallback    *dom.Element
	source      *listtest.StubDataSource
	renderer    *listtest.StubRenderer
	scheduler   *listtest.CountingScheduler
	controller  *list.Controller
}

// newFixture wires a controller over stub collaborators. Pass opts to
// override affordances; by default both placeholder and fallback exist.
func newFixture(t *testing.T, source *listtest.StubDataSource, withFallback bool) *fixture {
	t.Helper()
	f := &fixture{
		doc:       dom.NewDocument(),
		source:    source,
		renderer:  &listtest.StubRenderer{},
		scheduler: &listtest.CountingScheduler{},
	}
	f.host = f.doc.CreateElement("dynamic-list")
	f.doc.Root().AppendChild(f.host)

	f.placeholder = f.doc.CreateElement("div")
	f.host.AppendChild(f.placeholder)
	opts := list.Options{Placeholder: f.placeholder}
	if withFallback {
		f.fallback = f.doc.CreateElement("div")
		f.fallback.SetHidden(true)
		f.host.AppendChild(f.fallback)
		opts.Fallback = f.fallback
	}
	f.controller = list.New(f.doc, f.host, f.source, f.renderer, f.scheduler, opts)
	return f
}

func itemsOf(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = map[string]any{"t": v}
	}
	return out
}

func childTexts(container *dom.Element) []string {
	var out []string
	for _, c := range container.Children() {
		out = append(out, c.Text())
	}
	return out
}

func TestRefresh_RendersItemsInOrderWithRoles(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("a", "b", "c")}},
	}, true)

	if err := f.controller.Layout(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.scheduler.FlushAll()

	got := childTexts(f.controller.Container())
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("expected children a,b,c in order, got %v", got)
	}
	for i, child := range f.controller.Container().Children() {
		if child.Attribute("role") == "" {
			t.Errorf("child %d missing role attribute", i)
		}
	}
}

func TestRefresh_AccessibilityDefaults(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{}, true)
	f.controller.Build()

	if got := f.controller.Container().Attribute("role"); got != "list" {
		t.Errorf("container role = %q, want %q", got, "list")
	}
	if got := f.host.Attribute("aria-live"); got != "polite" {
		t.Errorf("host aria-live = %q, want %q", got, "polite")
	}
}

func TestBuild_DoesNotOverwriteHostValues(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("dynamic-list")
	host.SetAttribute("aria-live", "assertive")
	doc.Root().AppendChild(host)
	container := doc.CreateElement("ul")
	container.SetAttribute("role", "listbox")
	host.AppendChild(container)

	c := list.New(doc, host, &listtest.StubDataSource{}, &listtest.StubRenderer{},
		sched.NewFrameScheduler(), list.Options{Container: container})
	c.Build()

	if got := container.Attribute("role"); got != "listbox" {
		t.Errorf("expected host-set container role kept, got %q", got)
	}
	if got := host.Attribute("aria-live"); got != "assertive" {
		t.Errorf("expected host-set aria-live kept, got %q", got)
	}
}

func TestRefresh_PreSetItemRoleKept(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("a")}},
	}, true)
	f.renderer.ItemRole = "option"

	if err := f.controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := f.controller.Container().Children()[0].Attribute("role"); got != "option" {
		t.Errorf("expected renderer-set role kept, got %q", got)
	}
}

func TestRefresh_NonArrayPayloadLeavesContainerUnchanged(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{
			{Value: itemsOf("a")},
			{Value: map[string]any{"not": "an array"}},
		},
	}, true)

	if err := f.controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := childTexts(f.controller.Container())

	err := f.controller.Refresh(context.Background())
	if !errors.IsKind(err, errors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	after := childTexts(f.controller.Container())
	if strings.Join(before, ",") != strings.Join(after, ",") {
		t.Errorf("expected container unchanged on validation failure: %v -> %v", before, after)
	}
}

func TestRefresh_FetchErrorVisualTransition(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Err: errors.Fetchf("stub", "network down")}},
	}, true)

	err := f.controller.Refresh(context.Background())
	if !errors.IsKind(err, errors.KindFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	f.scheduler.FlushAll()

	if !f.placeholder.Hidden() {
		t.Error("expected placeholder hidden after failed cycle")
	}
	if f.fallback.Hidden() {
		t.Error("expected fallback shown after failed cycle")
	}
}

func TestRefresh_RenderErrorVisualTransition(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("a")}},
	}, true)
	f.renderer.Err = errors.Renderf("stub", "template exploded")

	err := f.controller.Refresh(context.Background())
	if !errors.IsKind(err, errors.KindRender) {
		t.Fatalf("expected render error, got %v", err)
	}
	f.scheduler.FlushAll()

	if !f.placeholder.Hidden() {
		t.Error("expected placeholder hidden after render failure")
	}
	if f.fallback.Hidden() {
		t.Error("expected fallback shown after render failure")
	}
	if f.controller.Container().ChildCount() != 0 {
		t.Error("expected no partial reconciliation on render failure")
	}
}

func TestRefresh_NoFallbackConfigured(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("dynamic-list")
	doc.Root().AppendChild(host)
	scheduler := &listtest.CountingScheduler{}
	source := &listtest.StubDataSource{
		Results: []listtest.StubResult{{Err: errors.Fetchf("stub", "down")}},
	}

	c := list.New(doc, host, source, &listtest.StubRenderer{}, scheduler, list.Options{})
	err := c.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected rejection to surface")
	}
	// No placeholder and no fallback: failure schedules nothing at all.
	if got := scheduler.Writes(); got != 0 {
		t.Errorf("expected zero scheduled writes without affordances, got %d", got)
	}
}

func TestRefresh_SuccessHidesPreviouslyShownFallback(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{
			{Err: errors.Fetchf("stub", "down")},
			{Value: itemsOf("a")},
		},
	}, true)

	_ = f.controller.Refresh(context.Background())
	f.scheduler.FlushAll()
	if f.fallback.Hidden() {
		t.Fatal("expected fallback shown after failure")
	}

	if err := f.controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.scheduler.FlushAll()
	if !f.fallback.Hidden() {
		t.Error("expected fallback hidden after recovery")
	}
	if !f.placeholder.Hidden() {
		t.Error("expected placeholder hidden after success")
	}
}

func TestRefresh_RenderedEventFiresOncePerCycle(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("a", "b")}},
	}, true)

	events := 0
	f.doc.Root().AddEventListener(list.EventRendered, func(*dom.Event) { events++ })

	if err := f.controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if events != 1 {
		t.Errorf("expected exactly one rendered event, got %d", events)
	}
}

func TestRefresh_StaleResultDiscarded(t *testing.T) {
	slowGate := make(chan struct{})
	fastGate := make(chan struct{})
	started := make(chan struct{}, 2)
	source := &listtest.StubDataSource{
		Results: []listtest.StubResult{
			{Value: itemsOf("slow"), Gate: slowGate},
			{Value: itemsOf("fast"), Gate: fastGate},
		},
		Started: started,
	}
	f := newFixture(t, source, true)

	errs := make(chan error, 2)
	go func() { errs <- f.controller.Refresh(context.Background()) }()
	<-started // cycle 1 has its sequence id and is blocked in fetch
	go func() { errs <- f.controller.Refresh(context.Background()) }()
	<-started

	// Cycle 2 settles first and is applied.
	close(fastGate)
	if err := <-errs; err != nil {
		t.Fatal(err)
	}
	// Cycle 1 settles late; its result must be discarded.
	close(slowGate)
	if err := <-errs; err != nil {
		t.Fatal(err)
	}
	f.scheduler.FlushAll()

	got := childTexts(f.controller.Container())
	if strings.Join(got, ",") != "fast" {
		t.Errorf("expected container to reflect only the newest cycle, got %v", got)
	}
}

func TestReflow_ResizeIssuedOnlyWhenContentTaller(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{
			{Value: itemsOf("a", "b", "c")},
			{Value: itemsOf("a")},
		},
	}, true)
	f.renderer.ItemHeight = 50

	resizes := 0
	f.doc.SetResizeHandler(func(*dom.Element, float64) error {
		resizes++
		return nil
	})

	f.controller.Build()
	f.controller.Container().SetLayoutSize(300, 100)

	// Content 150 > laid-out 100: one resize request.
	if err := f.controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.scheduler.FlushAll()
	if resizes != 1 {
		t.Errorf("expected exactly one resize request, got %d", resizes)
	}
	if got := f.controller.Container().LayoutHeight(); got != 150 {
		t.Errorf("expected height grown to 150, got %f", got)
	}

	// Content 50 <= laid-out 150: no resize request.
	if err := f.controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.scheduler.FlushAll()
	if resizes != 1 {
		t.Errorf("expected no further resize requests, got %d", resizes)
	}
}

func TestReflow_DenialIsSwallowed(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("a", "b", "c")}},
	}, true)
	f.renderer.ItemHeight = 50

	f.doc.SetResizeHandler(func(*dom.Element, float64) error {
		return dom.ErrResizeDenied
	})
	f.controller.Build()
	f.controller.Container().SetLayoutSize(300, 100)

	if err := f.controller.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.scheduler.FlushAll()

	if got := f.controller.Container().LayoutHeight(); got != 100 {
		t.Errorf("expected denied resize to keep old height, got %f", got)
	}
}

func TestOnAttributeMutation_SrcTriggersRefresh(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("fresh")}},
	}, true)

	src := "https://example.com/items.json"
	if err := f.controller.OnAttributeMutation(context.Background(), list.Mutation{Src: &src}); err != nil {
		t.Fatal(err)
	}
	if f.source.Calls() != 1 {
		t.Errorf("expected one fetch, got %d", f.source.Calls())
	}
	if got := f.host.Attribute("src"); got != src {
		t.Errorf("expected src attribute updated, got %q", got)
	}
}

func TestOnAttributeMutation_StateRendersDirectly(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{}, true)

	m := list.Mutation{State: itemsOf("x", "y"), HasState: true}
	if err := f.controller.OnAttributeMutation(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	if f.source.Calls() != 0 {
		t.Errorf("expected data source bypassed, got %d calls", f.source.Calls())
	}
	got := childTexts(f.controller.Container())
	if strings.Join(got, ",") != "x,y" {
		t.Errorf("expected direct items rendered, got %v", got)
	}
}

// diagHandler captures diagnostics for precedence assertions.
type diagHandler struct {
	diags []string
}

func (h *diagHandler) HandleError(*errors.Error) {}

func (h *diagHandler) HandleDiagnostic(op, msg string) {
	h.diags = append(h.diags, msg)
}

func TestOnAttributeMutation_SrcWinsOverStateWithDiagnostic(t *testing.T) {
	h := &diagHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)

	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("from-src")}},
	}, true)

	src := "https://example.com/items.json"
	m := list.Mutation{Src: &src, State: itemsOf("from-state"), HasState: true}
	if err := f.controller.OnAttributeMutation(context.Background(), m); err != nil {
		t.Fatal(err)
	}

	got := childTexts(f.controller.Container())
	if strings.Join(got, ",") != "from-src" {
		t.Errorf("expected src-driven refresh to win, got %v", got)
	}
	if len(h.diags) != 1 || !strings.Contains(h.diags[0], "dropped") {
		t.Errorf("expected a dropped-state diagnostic, got %v", h.diags)
	}
}

func TestRenderItems_NonArrayIsValidationError(t *testing.T) {
	f := newFixture(t, &listtest.StubDataSource{}, true)

	err := f.controller.RenderItems(context.Background(), "not an array")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDetach_DiscardsLateResults(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	f := newFixture(t, &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("late"), Gate: gate}},
		Started: started,
	}, true)
	f.controller.Build()

	errs := make(chan error, 1)
	go func() { errs <- f.controller.Refresh(context.Background()) }()
	<-started

	f.controller.Detach()
	close(gate)
	if err := <-errs; err != nil {
		t.Fatal(err)
	}

	if f.controller.Container().ChildCount() != 0 {
		t.Error("expected no container mutation after detach")
	}
}

// TestEndToEnd_HTTPAndTemplate exercises the real data source and renderer
// through the controller: fetch over HTTP, pongo2 expansion, reconciliation
// and the rendered event.
func TestEndToEnd_HTTPAndTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"t":"a"},{"t":"b"}]}`))
	}))
	defer srv.Close()

	doc := dom.NewDocument()
	host := doc.CreateElement("dynamic-list")
	host.SetAttribute("src", srv.URL)
	doc.Root().AppendChild(host)
	tpl := doc.CreateElement("template")
	tpl.SetText(`<li>{{ t }}</li>`)
	host.AppendChild(tpl)

	fallback := doc.CreateElement("div")
	fallback.SetHidden(true)
	host.AppendChild(fallback)

	scheduler := sched.NewFrameScheduler()
	c := list.New(doc, host, &fetch.HTTPDataSource{}, template.NewTemplateRenderer(),
		scheduler, list.Options{Fallback: fallback})

	events := 0
	doc.Root().AddEventListener(list.EventRendered, func(*dom.Event) { events++ })

	if err := c.Layout(context.Background()); err != nil {
		t.Fatal(err)
	}
	scheduler.FlushAll()

	got := childTexts(c.Container())
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("expected rendered items a,b, got %v", got)
	}
	if events != 1 {
		t.Errorf("expected one rendered event, got %d", events)
	}
	if !fallback.Hidden() {
		t.Error("expected fallback to remain hidden on success")
	}
}

func TestEndToEnd_FetchRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	doc := dom.NewDocument()
	host := doc.CreateElement("dynamic-list")
	host.SetAttribute("src", srv.URL)
	doc.Root().AppendChild(host)

	placeholder := doc.CreateElement("div")
	host.AppendChild(placeholder)
	fallback := doc.CreateElement("div")
	fallback.SetHidden(true)
	host.AppendChild(fallback)

	scheduler := sched.NewFrameScheduler()
	c := list.New(doc, host, &fetch.HTTPDataSource{}, template.NewTemplateRenderer(),
		scheduler, list.Options{Placeholder: placeholder, Fallback: fallback})

	err := c.Refresh(context.Background())
	if !errors.IsKind(err, errors.KindFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	scheduler.FlushAll()

	if !placeholder.Hidden() {
		t.Error("expected placeholder hidden")
	}
	if fallback.Hidden() {
		t.Error("expected fallback shown")
	}
}

func TestRefresh_MaxItemsCap(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("dynamic-list")
	doc.Root().AppendChild(host)

	source := &listtest.StubDataSource{
		Results: []listtest.StubResult{{Value: itemsOf("a", "b", "c", "d")}},
	}
	c := list.New(doc, host, source, &listtest.StubRenderer{},
		sched.NewFrameScheduler(), list.Options{MaxItems: 2})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.Container().ChildCount(); got != 2 {
		t.Errorf("expected item cap applied, got %d children", got)
	}
}
