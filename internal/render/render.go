package render

import (
	"math"
	"strings"

	"PriceChart/internal/model"
	"PriceChart/internal/scale"
	"PriceChart/internal/scene"
)

// Bar and line colors.
const (
	UpColor   = "#03a678"
	DownColor = "#c0392b"
	LineColor = "steelblue"
)

// Element classes.
const (
	ClassLine    = "line"
	ClassVolume  = "volume"
	ClassFocus   = "focus"
	ClassOverlay = "overlay"
	ClassLegend  = "legend"
	ClassXHover  = "x-hover-line"
	ClassYHover  = "y-hover-line"
	ClassTick    = "tick"
	ClassDomain  = "domain"
)

// BarWidth is the fixed width of a volume bar.
const BarWidth = 1

// Render draws the price line, volume bars, axes and the interaction
// scaffolding (focus group, overlay, legend) into the scene.
// Existing elements are updated in place, so rendering the same input twice
// yields the same tree.
func Render(sc *scene.Scene, series model.Series, s scale.Scales) {
	if len(series) == 0 || !s.Dims.Ready() {
		Clear(sc)
		return
	}
	d := s.Dims
	sc.Resize(d.Width, d.Height, d.MarginLeft, d.MarginTop)
	bounds := sc.Bounds()

	drawAxes(bounds, s)

	line := bounds.Ensure(scene.KindPath, ClassLine)
	line.D = LinePath(series, s)
	line.Set("fill", "none")
	line.Set("stroke", LineColor)

	bars := bounds.Join(scene.KindRect, ClassVolume, len(series))
	for i, p := range series {
		b := bars[i]
		x := s.Time.Map(p.Date)
		y := s.Volume.Map(p.Volume)
		h := d.BoundedHeight - y
		if !finite(x) || !finite(y) || !finite(h) {
			y, h = d.BoundedHeight, 0
		}
		b.X, b.Y, b.Width, b.Height = x, y, BarWidth, h
		b.Set("fill", BarColor(series, i))
	}

	drawScaffolding(bounds, s)
}

// Clear removes everything data-driven, leaving the empty skeleton.
func Clear(sc *scene.Scene) {
	bounds := sc.Bounds()
	bounds.RemoveAll(ClassLine)
	bounds.RemoveAll(ClassVolume)
	bounds.RemoveAll(ClassFocus)
	bounds.RemoveAll(ClassOverlay)
	bounds.RemoveAll(ClassLegend)
	bounds.Ensure(scene.KindGroup, scene.ClassXAxis).Children = nil
	bounds.Ensure(scene.KindGroup, scene.ClassYAxis).Children = nil
}

// BarColor encodes tick direction: the first bar is up, later bars are down
// when the previous close is strictly greater than the current one.
func BarColor(series model.Series, i int) string {
	if i == 0 {
		return UpColor
	}
	if series[i-1].Close > series[i].Close {
		return DownColor
	}
	return UpColor
}

// LinePath builds the open path through every (date, close) pair.
// A point with a non-finite coordinate breaks the line; drawing resumes at the next good point.
func LinePath(series model.Series, s scale.Scales) string {
	var b strings.Builder
	move := true
	for _, p := range series {
		x, y := s.Time.Map(p.Date), s.Price.Map(p.Close)
		if !finite(x) || !finite(y) {
			move = true
			continue
		}
		if move {
			b.WriteByte('M')
			move = false
		} else {
			b.WriteByte('L')
		}
		b.WriteString(scene.Num(x))
		b.WriteByte(',')
		b.WriteString(scene.Num(y))
	}
	return b.String()
}

// drawScaffolding makes sure the focus group, pointer overlay and legend exist
// and match the current plot size. Their contents belong to the interaction controller.
func drawScaffolding(bounds *scene.Node, s scale.Scales) {
	d := s.Dims

	focus := bounds.Select(ClassFocus)
	if focus == nil {
		focus = bounds.Ensure(scene.KindGroup, ClassFocus)
		focus.SetHidden(true)
	}
	circle := focus.Ensure(scene.KindCircle, "circle")
	circle.R = 4
	circle.Set("fill", "none")
	circle.Set("stroke", LineColor)
	for _, class := range []string{ClassXHover, ClassYHover} {
		l := focus.Ensure(scene.KindLine, class)
		l.Set("stroke", "#777")
		l.Set("stroke-dasharray", "3,3")
	}

	overlay := bounds.Ensure(scene.KindRect, ClassOverlay)
	overlay.Width, overlay.Height = d.BoundedWidth, d.BoundedHeight
	overlay.Set("fill", "none")
	overlay.Set("pointer-events", "all")

	legend := bounds.Ensure(scene.KindGroup, ClassLegend)
	legend.Transform = "translate(10,10)"
	legend.Set("pointer-events", "none")

	// Keep the interaction layers above bars appended by a growing series.
	bounds.Raise(ClassFocus)
	bounds.Raise(ClassOverlay)
	bounds.Raise(ClassLegend)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
