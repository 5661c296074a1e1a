package interact

import (
	"math"
	"testing"
	"time"

	"PriceChart/internal/layout"
	"PriceChart/internal/model"
	"PriceChart/internal/render"
	"PriceChart/internal/scale"
	"PriceChart/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailySeries(n int) model.Series {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make(model.Series, n)
	for i := range out {
		c := 100 + float64(i%7) - float64(i%3)
		out[i] = model.PricePoint{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(1000 + 10*i),
		}
	}
	return out
}

func setup(t *testing.T, series model.Series) (*scene.Scene, scale.Scales, *Controller) {
	t.Helper()
	dims := layout.Combine(layout.Size{Width: 800, Height: 400}, layout.DefaultMargins)
	s, err := scale.ComputeScales(series, dims, time.UTC)
	require.NoError(t, err)
	sc := scene.New()
	render.Render(sc, series, s)
	c := NewController(sc, time.UTC)
	c.Bind(series, s)
	return sc, s, c
}

func TestNearest(t *testing.T) {
	series := dailySeries(5)
	at := func(d int, h int) time.Time { return series[0].Date.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour) }

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"before first", at(-3, 0), 0},
		{"exact first", at(0, 0), 0},
		{"closer to earlier", at(1, 5), 1},
		{"closer to later", at(1, 19), 2},
		{"tie goes later", at(2, 12), 3},
		{"exact last", at(4, 0), 4},
		{"after last", at(9, 0), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(series, tt.t)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Nearest(nil, at(0, 0))
	assert.False(t, ok)
	got, ok := Nearest(series[:1], at(7, 0))
	assert.True(t, ok)
	assert.Equal(t, 0, got)
}

func TestLegendLines(t *testing.T) {
	p := model.PricePoint{
		Date:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:   100.456,
		High:   102,
		Low:    99.991,
		Close:  101.2,
		Volume: 12345,
	}
	assert.Equal(t, []string{
		"date: 1/2/2024",
		"open: 100.46",
		"high: 102.00",
		"low: 99.99",
		"close: 101.20",
		"volume: 12345",
	}, LegendLines(p, time.UTC))

	p.Close = math.NaN()
	assert.Equal(t, "close: NaN", LegendLines(p, nil)[4])
}

func TestController_FocusOnExactPoint(t *testing.T) {
	series := dailySeries(30)
	sc, s, c := setup(t, series)

	for i, p := range series {
		f, ok := c.OnPointerMove(s.Time.Map(p.Date), 10)
		require.True(t, ok)
		assert.Equal(t, i, f.Index)
		assert.Equal(t, p, f.Point)
	}
	assert.Equal(t, Hovering, c.State())
	assert.False(t, sc.Bounds().Select(render.ClassFocus).Hidden())
}

func TestController_FocusWithinDomain(t *testing.T) {
	series := dailySeries(45)
	_, s, c := setup(t, series)
	lo, hi := series[0].Date, series[len(series)-1].Date

	for x := 0.0; x <= s.Dims.BoundedWidth; x += 3 {
		f, ok := c.OnPointerMove(x, 0)
		require.True(t, ok)
		assert.False(t, f.Point.Date.Before(lo))
		assert.False(t, f.Point.Date.After(hi))
	}
}

func TestController_DrawsCrosshairAndLegend(t *testing.T) {
	series := dailySeries(10)
	sc, s, c := setup(t, series)

	f, ok := c.OnPointerMove(s.Time.Map(series[4].Date), 50)
	require.True(t, ok)

	focus := sc.Bounds().Select(render.ClassFocus)
	assert.Equal(t, "translate("+scene.Num(f.X)+","+scene.Num(f.Y)+")", focus.Transform)
	vertical := focus.Select(render.ClassXHover)
	assert.InDelta(t, s.Dims.BoundedHeight-f.Y, vertical.Y2, 1e-9)
	horizontal := focus.Select(render.ClassYHover)
	assert.InDelta(t, s.Dims.BoundedWidth-f.X, horizontal.X2, 1e-9)

	lines := sc.Bounds().Select(render.ClassLegend).SelectAll(ClassLegendLine)
	require.Len(t, lines, 6)
	for k, l := range lines {
		assert.Equal(t, f.Legend[k], l.Text)
		assert.Equal(t, float64(k*LegendSpacing), l.Y)
	}

	// Moving again reuses the legend lines.
	c.OnPointerMove(s.Time.Map(series[5].Date), 50)
	assert.Len(t, sc.Bounds().Select(render.ClassLegend).SelectAll(ClassLegendLine), 6)
}

func TestController_StateMachine(t *testing.T) {
	series := dailySeries(10)
	sc, _, c := setup(t, series)
	focus := func() *scene.Node { return sc.Bounds().Select(render.ClassFocus) }

	assert.Equal(t, Idle, c.State())
	assert.True(t, focus().Hidden())

	c.OnPointerEnter()
	assert.Equal(t, Hovering, c.State())
	assert.False(t, focus().Hidden())

	c.OnPointerLeave()
	assert.Equal(t, Idle, c.State())
	assert.True(t, focus().Hidden())

	c.Close()
	c.OnPointerEnter()
	assert.Equal(t, Idle, c.State())
	_, ok := c.OnPointerMove(10, 10)
	assert.False(t, ok)
}

func TestController_RebindFollowsNewScales(t *testing.T) {
	series := dailySeries(10)
	sc, s, c := setup(t, series)
	c.OnPointerMove(s.Time.Map(series[3].Date), 0)

	wider := layout.Combine(layout.Size{Width: 1200, Height: 400}, layout.DefaultMargins)
	s2, err := scale.ComputeScales(series, wider, time.UTC)
	require.NoError(t, err)
	render.Render(sc, series, s2)
	c.Bind(series, s2)

	f, ok := c.Focus()
	require.True(t, ok)
	assert.InDelta(t, s2.Time.Map(f.Point.Date), f.X, 1e-9)
	assert.False(t, sc.Bounds().Select(render.ClassFocus).Hidden())
}

func TestController_UnboundIgnoresMoves(t *testing.T) {
	sc := scene.New()
	c := NewController(sc, nil)
	_, ok := c.OnPointerMove(5, 5)
	assert.False(t, ok)
	assert.Equal(t, Hovering, c.State())
}

func TestController_MalformedPointsDoNotBreakMoves(t *testing.T) {
	series := dailySeries(10)
	series[4].Close = math.NaN()
	series[6].Volume = math.Inf(1)
	series[7].Volume = math.Inf(-1)
	_, s, c := setup(t, series)

	assert.NotPanics(t, func() {
		f, ok := c.OnPointerMove(s.Time.Map(series[4].Date), 10)
		require.True(t, ok)
		assert.Equal(t, 4, f.Index)
		assert.Equal(t, "close: NaN", f.Legend[4])

		f, ok = c.OnPointerMove(s.Time.Map(series[6].Date), 10)
		require.True(t, ok)
		assert.Equal(t, "volume: Infinity", f.Legend[5])
	})

	f, ok := c.OnPointerMove(s.Time.Map(series[2].Date), 10)
	require.True(t, ok)
	assert.Equal(t, 2, f.Index)
	assert.False(t, math.IsNaN(f.X) || math.IsInf(f.X, 0))
	assert.False(t, math.IsNaN(f.Y) || math.IsInf(f.Y, 0))
}

func TestController_RecoversFromBrokenScene(t *testing.T) {
	series := dailySeries(3)
	dims := layout.Combine(layout.Size{Width: 800, Height: 400}, layout.DefaultMargins)
	s, err := scale.ComputeScales(series, dims, time.UTC)
	require.NoError(t, err)

	// A scene without a root cannot be drawn into.
	c := NewController(&scene.Scene{}, time.UTC)
	c.series, c.scales, c.bound = series, s, true

	for i := 0; i < 2; i++ {
		assert.NotPanics(t, func() {
			_, ok := c.OnPointerMove(10, 10)
			assert.False(t, ok)
		})
	}
}

func TestController_PointerFarOutsidePlot(t *testing.T) {
	series := dailySeries(30)
	_, _, c := setup(t, series)

	f, ok := c.OnPointerMove(1e15, 0)
	require.True(t, ok)
	assert.Equal(t, len(series)-1, f.Index)

	f, ok = c.OnPointerMove(-1e15, 0)
	require.True(t, ok)
	assert.Equal(t, 0, f.Index)
}
