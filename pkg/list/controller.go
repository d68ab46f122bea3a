// Package list implements the dynamic list rendering controller.
//
// A [Controller] owns one container element inside a host element and keeps
// it in sync with a remote JSON collection: it fetches the collection
// through a [fetch.DataSource], expands each item through a
// [template.Renderer], replaces the container's children with the rendered
// elements, and reflows the container's height through the scheduler's
// read/write phases. Loading and error affordances are toggled at each
// failure boundary by the controller's visual state.
//
// # Concurrency
//
// Refresh is re-entrant: a new cycle may start while earlier ones are still
// fetching or rendering. There is no cancellation; instead every cycle gets
// a monotonically increasing sequence id, and a finished cycle's result is
// applied only if its id is greater than the highest id applied so far.
// Stale results are silently discarded, so a slow earlier fetch can never
// clobber a faster later one.
package list

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/go-drift/listkit/pkg/dom"
	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/fetch"
	"github.com/go-drift/listkit/pkg/sched"
	"github.com/go-drift/listkit/pkg/template"
)

// EventRendered is dispatched on the container, bubbling, after every
// successful reconciliation. It carries no payload.
const EventRendered = "listkit-rendered"

const (
	roleAttr     = "role"
	ariaLiveAttr = "aria-live"

	roleList     = "list"
	roleListItem = "listitem"
	livePolite   = "polite"
)

// Options configures a Controller.
type Options struct {
	// ExpressionPath locates the array to render inside the fetched JSON
	// document. Defaults to fetch.DefaultExpressionPath. A "path" attribute
	// on the host element takes precedence.
	ExpressionPath string
	// MaxItems caps the number of rendered items; 0 means no cap.
	MaxItems int
	// Container is the element rendered items are placed in. If nil, the
	// controller creates a div inside the host on Build.
	Container *dom.Element
	// Placeholder is host-supplied loading content, hidden once a cycle
	// settles.
	Placeholder *dom.Element
	// Fallback is host-supplied error content, shown when a cycle fails.
	// With no fallback configured, failure toggles nothing but the
	// placeholder.
	Fallback *dom.Element
}

// Controller orchestrates the fetch → render → reconcile → reflow pipeline
// for one host element. Collaborators are injected at construction and
// scoped to the owning document.
type Controller struct {
	doc       *dom.Document
	host      *dom.Element
	source    fetch.DataSource
	renderer  template.Renderer
	scheduler sched.Scheduler
	opts      Options
	visual    *visualState

	mu         sync.Mutex
	container  *dom.Element
	nextSeq    uint64
	appliedSeq uint64
	built      bool
	detached   bool
}

// New creates a controller for host inside doc. All collaborators are
// required; they live as long as the document.
func New(doc *dom.Document, host *dom.Element, source fetch.DataSource, renderer template.Renderer, scheduler sched.Scheduler, opts Options) *Controller {
	return &Controller{
		doc:       doc,
		host:      host,
		source:    source,
		renderer:  renderer,
		scheduler: scheduler,
		opts:      opts,
		visual:    newVisualState(scheduler, opts.Placeholder, opts.Fallback),
	}
}

// Build acquires the container and applies default accessibility
// attributes: the container gets role "list" and the host gets aria-live
// "polite", in both cases only if the host markup did not set them already.
// Build is idempotent.
func (c *Controller) Build() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		return
	}
	c.container = c.opts.Container
	if c.container == nil {
		c.container = c.doc.CreateElement("div")
	}
	if c.container.Parent() == nil {
		c.host.AppendChild(c.container)
	}
	if !c.container.HasAttribute(roleAttr) {
		c.container.SetAttribute(roleAttr, roleList)
	}
	if !c.host.HasAttribute(ariaLiveAttr) {
		c.host.SetAttribute(ariaLiveAttr, livePolite)
	}
	c.built = true
}

// Container returns the element rendered items are placed in. Nil before
// Build.
func (c *Controller) Container() *dom.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.container
}

// Layout runs the first refresh. The host lifecycle calls this once the
// element has been laid out.
func (c *Controller) Layout(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh runs one full pipeline cycle: fetch, validate, render, reconcile,
// reflow. It blocks until the cycle settles and returns the cycle's error,
// component-tagged. A cycle whose result lost to a newer cycle returns nil;
// its result is discarded without touching the container.
func (c *Controller) Refresh(ctx context.Context) error {
	const op = "list.Controller.Refresh"

	c.Build()
	seq := c.beginCycle()
	c.visual.showPlaceholder()

	path := c.effectivePath()
	payload, err := c.source.FetchItems(ctx, c.doc, c.host, path)
	if err != nil {
		c.failCycle()
		return wrapErr(op, errors.KindFetch, err)
	}

	items, err := itemsFromPayload(op, path, payload)
	if err != nil {
		c.failCycle()
		return err
	}

	return c.renderCycle(ctx, op, seq, items)
}

// RenderItems renders an externally-supplied collection directly, bypassing
// the data source. The collection must still be array-shaped.
func (c *Controller) RenderItems(ctx context.Context, payload any) error {
	const op = "list.Controller.RenderItems"

	c.Build()
	seq := c.beginCycle()
	c.visual.showPlaceholder()

	items, err := itemsFromPayload(op, "state", payload)
	if err != nil {
		c.failCycle()
		return err
	}
	return c.renderCycle(ctx, op, seq, items)
}

// renderCycle runs the shared render → reconcile → reflow tail of a cycle.
func (c *Controller) renderCycle(ctx context.Context, op string, seq uint64, items []any) error {
	if c.opts.MaxItems > 0 && len(items) > c.opts.MaxItems {
		items = items[:c.opts.MaxItems]
	}

	rendered, err := c.renderer.RenderAll(ctx, c.host, items)
	if err != nil {
		c.failCycle()
		return wrapErr(op, errors.KindRender, err)
	}

	if !c.applyCycle(seq, rendered) {
		// Stale result: a newer cycle already applied. Discard silently.
		return nil
	}

	c.scheduleReflow()
	c.visual.hidePlaceholder()
	c.visual.showFallback(false)
	return nil
}

// Mutation describes one external attribute-mutation batch.
type Mutation struct {
	// Src is the new data-source reference, if it changed.
	Src *string
	// State is the new externally-supplied items collection; only
	// meaningful when HasState is set.
	State any
	// HasState marks that the items collection changed in this batch.
	HasState bool
}

// OnAttributeMutation reacts to one mutation batch. A src change triggers a
// full refresh; a state change renders the supplied collection directly.
// When both occur in the same batch the src-driven refresh takes precedence
// and the state render is dropped with a diagnostic.
func (c *Controller) OnAttributeMutation(ctx context.Context, m Mutation) error {
	const op = "list.Controller.OnAttributeMutation"

	if m.Src != nil {
		if m.HasState {
			errors.Diagnostic(op, "state change dropped: src changed in the same mutation batch")
		}
		c.host.SetAttribute("src", *m.Src)
		return c.Refresh(ctx)
	}
	if m.HasState {
		return c.RenderItems(ctx, m.State)
	}
	return nil
}

// Detach releases the controller. In-flight cycles are not canceled; their
// results are discarded when they settle.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detached = true
	if c.container != nil {
		c.container.RemoveAllListeners()
	}
}

// beginCycle allocates the next sequence id.
func (c *Controller) beginCycle() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSeq++
	return c.nextSeq
}

// applyCycle reconciles the container with a finished cycle's result if the
// cycle is still the newest applied. Old children are detached wholesale;
// there is no recycling.
func (c *Controller) applyCycle(seq uint64, rendered []*dom.Element) bool {
	c.mu.Lock()
	if c.detached || seq <= c.appliedSeq {
		c.mu.Unlock()
		return false
	}
	c.appliedSeq = seq

	c.container.ReplaceChildren(rendered...)
	for _, el := range rendered {
		if !el.HasAttribute(roleAttr) {
			el.SetAttribute(roleAttr, roleListItem)
		}
	}
	container := c.container
	c.mu.Unlock()

	container.DispatchEvent(&dom.Event{Type: EventRendered, Bubbles: true})
	return true
}

// failCycle runs the shared failure transition: the loading placeholder is
// hidden exactly once, then the fallback is shown if one is configured.
func (c *Controller) failCycle() {
	c.visual.hidePlaceholder()
	c.visual.showFallback(true)
}

// scheduleReflow measures the container in a read phase and, if its content
// is taller than its laid-out height, requests the height change in a write
// phase. A denied resize is swallowed: the list stays usable (scrollable)
// at the old height.
func (c *Controller) scheduleReflow() {
	c.scheduler.ScheduleRead(func() {
		container := c.Container()
		content := container.ContentHeight()
		if content <= container.LayoutHeight() {
			return
		}
		c.scheduler.ScheduleWrite(func() {
			_ = container.RequestResize(content)
		})
	})
}

// effectivePath resolves the expression path: host "path" attribute, then
// options, then the default.
func (c *Controller) effectivePath() string {
	if p := c.host.Attribute("path"); p != "" {
		return p
	}
	if c.opts.ExpressionPath != "" {
		return c.opts.ExpressionPath
	}
	return fetch.DefaultExpressionPath
}

// itemsFromPayload asserts the fetched value is array-shaped.
func itemsFromPayload(op, path string, payload any) ([]any, error) {
	items, ok := payload.([]any)
	if !ok {
		return nil, errors.Validationf(op, path, payload,
			"value at expression path is not an array (got %T)", payload)
	}
	return items, nil
}

// wrapErr tags err with op and kind unless it already carries a structured
// tag from a collaborator.
func wrapErr(op string, kind errors.Kind, err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return err
	}
	return errors.E(op, kind, err)
}
