package dom

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// measureFace approximates host text metrics for headless measurement.
var measureFace = basicfont.Face7x13

// LayoutWidth returns the host-assigned width, or 0 if never laid out.
func (e *Element) LayoutWidth() float64 {
	return e.layoutWidth
}

// LayoutHeight returns the host-assigned height, or 0 if never laid out.
func (e *Element) LayoutHeight() float64 {
	return e.layoutHeight
}

// SetLayoutSize records the size the host layout engine assigned.
func (e *Element) SetLayoutSize(width, height float64) {
	e.layoutWidth = width
	e.layoutHeight = height
}

// RequestResize asks the host to change this element's laid-out height.
// The host's resize handler may deny the change by returning an error, in
// which case the current height is kept. With no handler installed the
// resize is applied directly.
func (e *Element) RequestResize(height float64) error {
	if e.doc != nil && e.doc.resizeHandler != nil {
		if err := e.doc.resizeHandler(e, height); err != nil {
			return err
		}
	}
	e.layoutHeight = height
	return nil
}

// ContentHeight measures the full height of the element's content: own text
// plus children, stacked vertically. An explicit "height" attribute wins
// over measurement. Hidden subtrees measure as 0.
func (e *Element) ContentHeight() float64 {
	if e.hidden {
		return 0
	}
	if h, ok := e.explicitHeight(); ok {
		return h
	}
	total := 0.0
	if text := strings.TrimSpace(e.text); text != "" {
		total += textHeight(text, e.measureWidth())
	}
	for _, c := range e.children {
		total += c.ContentHeight()
	}
	return total
}

func (e *Element) explicitHeight() (float64, bool) {
	v := e.Attribute("height")
	if v == "" {
		return 0, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil || h < 0 {
		return 0, false
	}
	return h, true
}

// measureWidth finds the width text wraps at: the nearest laid-out ancestor
// width, falling back to the document viewport.
func (e *Element) measureWidth() float64 {
	for node := e; node != nil; node = node.parent {
		if node.layoutWidth > 0 {
			return node.layoutWidth
		}
	}
	if e.doc != nil && e.doc.ViewportWidth > 0 {
		return e.doc.ViewportWidth
	}
	return DefaultViewportWidth
}

// textHeight approximates the rendered height of text wrapped at width.
func textHeight(text string, width float64) float64 {
	lineHeight := float64(measureFace.Height)
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			lines++
			continue
		}
		advance := float64(font.MeasureString(measureFace, line)) / 64
		if width <= 0 {
			lines++
			continue
		}
		lines += int(math.Max(1, math.Ceil(advance/width)))
	}
	return float64(lines) * lineHeight
}
