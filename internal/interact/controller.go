// Package interact tracks the pointer over the plot and keeps the crosshair
// and legend in sync with the nearest data point.
package interact

import (
	"fmt"
	"log"
	"time"

	"PriceChart/internal/model"
	"PriceChart/internal/render"
	"PriceChart/internal/scale"
	"PriceChart/internal/scene"
)

// State is the pointer state over the plotting area.
type State int

const (
	Idle State = iota
	Hovering
)

func (s State) String() string {
	if s == Hovering {
		return "hovering"
	}
	return "idle"
}

// ClassLegendLine is the class of each text line in the legend group.
const ClassLegendLine = "legend-line"

// Focus describes the point under the crosshair.
type Focus struct {
	Index  int
	Point  model.PricePoint
	X, Y   float64
	Legend []string
}

// Controller owns the focus and legend groups of one scene.
// It is not safe for concurrent use; the chart serialises calls.
type Controller struct {
	scene  *scene.Scene
	loc    *time.Location
	series model.Series
	scales scale.Scales
	bound  bool
	closed bool
	state  State

	hasPointer bool
	pointerX   float64
	pointerY   float64
	focus      *Focus
}

// NewController creates an idle controller drawing into sc.
// Legend dates are shown in loc (UTC when nil).
func NewController(sc *scene.Scene, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.UTC
	}
	return &Controller{scene: sc, loc: loc}
}

// State returns the current pointer state.
func (c *Controller) State() State { return c.state }

// Focus returns the current focus point, if any.
func (c *Controller) Focus() (Focus, bool) {
	if c.focus == nil {
		return Focus{}, false
	}
	return *c.focus, true
}

// Bind points the handlers at the series and scales of the latest redraw.
// While hovering, the crosshair is moved to match the new scales.
func (c *Controller) Bind(series model.Series, s scale.Scales) {
	if c.closed {
		return
	}
	c.series = series
	c.scales = s
	c.bound = len(series) > 0
	c.focus = nil
	c.applyVisibility()
	if c.bound && c.state == Hovering && c.hasPointer {
		c.OnPointerMove(c.pointerX, c.pointerY)
	}
}

// Unbind drops the series; pointer events are ignored until the next Bind.
func (c *Controller) Unbind() {
	c.series = nil
	c.scales = scale.Scales{}
	c.bound = false
	c.focus = nil
}

// OnPointerEnter shows the crosshair.
func (c *Controller) OnPointerEnter() {
	if c.closed {
		return
	}
	c.state = Hovering
	c.applyVisibility()
}

// OnPointerLeave hides the crosshair.
func (c *Controller) OnPointerLeave() {
	if c.closed {
		return
	}
	c.state = Idle
	c.hasPointer = false
	c.applyVisibility()
}

// OnPointerMove moves the crosshair to the point nearest to x and refreshes the legend.
// x and y are relative to the plotting rectangle.
func (c *Controller) OnPointerMove(x, y float64) (f Focus, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] pointer move at (%.1f, %.1f): %v", x, y, r)
			f, ok = Focus{}, false
		}
	}()
	if c.closed {
		return Focus{}, false
	}
	if c.state == Idle {
		c.OnPointerEnter()
	}
	c.hasPointer, c.pointerX, c.pointerY = true, x, y
	if !c.bound {
		return Focus{}, false
	}

	i, found := Nearest(c.series, c.scales.Time.Invert(x))
	if !found {
		return Focus{}, false
	}
	p := c.series[i]
	focus := Focus{
		Index:  i,
		Point:  p,
		X:      c.scales.Time.Map(p.Date),
		Y:      c.scales.Price.Map(p.Close),
		Legend: LegendLines(p, c.loc),
	}
	c.drawFocus(focus)
	c.focus = &focus
	return focus, true
}

// Close detaches the controller; later events are ignored.
func (c *Controller) Close() {
	c.closed = true
	c.state = Idle
	c.hasPointer = false
	c.Unbind()
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool { return c.closed }

func (c *Controller) applyVisibility() {
	if g := c.scene.Bounds().Select(render.ClassFocus); g != nil {
		g.SetHidden(c.state != Hovering || !c.bound)
	}
}

func (c *Controller) drawFocus(f Focus) {
	bounds := c.scene.Bounds()
	d := c.scales.Dims

	if g := bounds.Select(render.ClassFocus); g != nil {
		g.Transform = fmt.Sprintf("translate(%s,%s)", scene.Num(f.X), scene.Num(f.Y))
		// Vertical guide down to the time axis.
		if l := g.Select(render.ClassXHover); l != nil {
			l.X, l.Y, l.X2, l.Y2 = 0, 0, 0, d.BoundedHeight-f.Y
		}
		// Horizontal guide to the right edge of the plot.
		if l := g.Select(render.ClassYHover); l != nil {
			l.X, l.Y, l.X2, l.Y2 = 0, 0, d.BoundedWidth-f.X, 0
		}
	}

	if g := bounds.Select(render.ClassLegend); g != nil {
		lines := g.Join(scene.KindText, ClassLegendLine, len(f.Legend))
		for k, text := range f.Legend {
			lines[k].X = 0
			lines[k].Y = float64(k * LegendSpacing)
			lines[k].Text = text
			lines[k].Set("font-size", "12")
		}
	}
}
