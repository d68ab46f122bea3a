// Package listtest provides deterministic stand-ins for the controller's
// collaborators: scriptable data sources and renderers, a counting
// scheduler, and a fake clock.
package listtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-drift/listkit/pkg/dom"
)

// FakeClock provides controllable time for deterministic tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubResult scripts one FetchItems call.
type StubResult struct {
	// Value is returned on success.
	Value any
	// Err, if set, is returned instead.
	Err error
	// Gate, if non-nil, blocks the call until the channel is closed. Used
	// to script cycle completion order.
	Gate <-chan struct{}
}

// StubDataSource returns scripted results in call order. After the script
// is exhausted the last result repeats.
type StubDataSource struct {
	// Results is the call script. An empty script yields empty collections.
	Results []StubResult
	// Started, if non-nil, receives one value per call as the call begins.
	// Buffer it appropriately.
	Started chan<- struct{}

	mu    sync.Mutex
	calls int
}

// FetchItems pops the next scripted result.
func (s *StubDataSource) FetchItems(ctx context.Context, _ *dom.Document, _ *dom.Element, _ string) (any, error) {
	s.mu.Lock()
	idx := s.calls
	s.calls++
	s.mu.Unlock()

	if s.Started != nil {
		s.Started <- struct{}{}
	}

	if len(s.Results) == 0 {
		return []any{}, nil
	}
	if idx >= len(s.Results) {
		idx = len(s.Results) - 1
	}
	r := s.Results[idx]

	if r.Gate != nil {
		select {
		case <-r.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Value, nil
}

// Calls returns how many times FetchItems was invoked.
func (s *StubDataSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// StubRenderer renders each item to an "li" element. Map items use their
// "t" field as text; other items use their formatted value. Each rendered
// element gets an explicit height so reflow behavior is measurable.
type StubRenderer struct {
	// Err, if set, fails every RenderAll call.
	Err error
	// ItemHeight, if > 0, is set as the "height" attribute on every
	// rendered element.
	ItemHeight float64
	// ItemRole, if set, is applied as the "role" attribute on every
	// rendered element, exercising the controller's don't-overwrite rule.
	ItemRole string

	mu    sync.Mutex
	calls int
}

// RenderAll renders items in order, one element per item.
func (r *StubRenderer) RenderAll(ctx context.Context, host *dom.Element, items []any) ([]*dom.Element, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}

	doc := host.Document()
	out := make([]*dom.Element, 0, len(items))
	for _, item := range items {
		el := doc.CreateElement("li")
		if m, ok := item.(map[string]any); ok {
			el.SetText(fmt.Sprint(m["t"]))
		} else {
			el.SetText(fmt.Sprint(item))
		}
		if r.ItemHeight > 0 {
			el.SetAttribute("height", fmt.Sprintf("%g", r.ItemHeight))
		}
		if r.ItemRole != "" {
			el.SetAttribute("role", r.ItemRole)
		}
		out = append(out, el)
	}
	return out, nil
}

// Calls returns how many times RenderAll was invoked.
func (r *StubRenderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
