package render

import (
	"fmt"

	"PriceChart/internal/scale"
	"PriceChart/internal/scene"
)

const (
	tickSize    = 6
	tickPadding = 3
)

// drawAxes regenerates the bottom time axis and the left price axis from the current scales.
func drawAxes(bounds *scene.Node, s scale.Scales) {
	d := s.Dims

	xAxis := bounds.Ensure(scene.KindGroup, scene.ClassXAxis)
	xAxis.Transform = fmt.Sprintf("translate(0,%s)", scene.Num(d.BoundedHeight))
	xAxis.Set("fill", "none")
	xAxis.Set("font-size", "10")
	xAxis.Set("text-anchor", "middle")
	r0, r1 := s.Time.Range()
	domain := xAxis.Ensure(scene.KindPath, ClassDomain)
	domain.D = fmt.Sprintf("M%s,%dV0H%sV%d", scene.Num(r0), tickSize, scene.Num(r1), tickSize)
	domain.Set("stroke", "currentColor")

	timeTicks := s.Time.Ticks(scale.DefaultTicks)
	timeFormat := s.Time.TickFormat()
	for i, g := range xAxis.Join(scene.KindGroup, ClassTick, len(timeTicks)) {
		tk := timeTicks[i]
		g.Transform = fmt.Sprintf("translate(%s,0)", scene.Num(s.Time.Map(tk)))
		line := g.Ensure(scene.KindLine, "tick-line")
		line.X, line.Y, line.X2, line.Y2 = 0, 0, 0, tickSize
		line.Set("stroke", "currentColor")
		label := g.Ensure(scene.KindText, "tick-label")
		label.X, label.Y = 0, tickSize+tickPadding
		label.Text = timeFormat(tk)
		label.Set("fill", "currentColor")
		label.Set("dy", "0.71em")
	}

	yAxis := bounds.Ensure(scene.KindGroup, scene.ClassYAxis)
	yAxis.Set("fill", "none")
	yAxis.Set("font-size", "10")
	yAxis.Set("text-anchor", "end")
	p0, p1 := s.Price.Range()
	ydomain := yAxis.Ensure(scene.KindPath, ClassDomain)
	ydomain.D = fmt.Sprintf("M-%d,%sH0V%sH-%d", tickSize, scene.Num(p0), scene.Num(p1), tickSize)
	ydomain.Set("stroke", "currentColor")

	priceTicks := s.Price.Ticks(scale.DefaultTicks)
	priceFormat := s.Price.TickFormat(scale.DefaultTicks)
	for i, g := range yAxis.Join(scene.KindGroup, ClassTick, len(priceTicks)) {
		v := priceTicks[i]
		g.Transform = fmt.Sprintf("translate(0,%s)", scene.Num(s.Price.Map(v)))
		line := g.Ensure(scene.KindLine, "tick-line")
		line.X, line.Y, line.X2, line.Y2 = 0, 0, -tickSize, 0
		line.Set("stroke", "currentColor")
		label := g.Ensure(scene.KindText, "tick-label")
		label.X, label.Y = -(tickSize + tickPadding), 0
		label.Text = priceFormat(v)
		label.Set("fill", "currentColor")
		label.Set("dy", "0.32em")
	}
}
