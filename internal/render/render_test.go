package render

import (
	"math"
	"strings"
	"testing"
	"time"

	"PriceChart/internal/layout"
	"PriceChart/internal/model"
	"PriceChart/internal/scale"
	"PriceChart/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries() model.Series {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return model.Series{
		{Date: start, Open: 9, High: 11, Low: 8, Close: 10, Volume: 1000},
		{Date: start.AddDate(0, 0, 1), Open: 10, High: 10, Low: 7, Close: 8, Volume: 3000},
		{Date: start.AddDate(0, 0, 2), Open: 8, High: 13, Low: 8, Close: 12, Volume: 2000},
	}
}

func mustScales(t *testing.T, series model.Series, w, h float64) scale.Scales {
	t.Helper()
	dims := layout.Combine(layout.Size{Width: w, Height: h}, layout.DefaultMargins)
	s, err := scale.ComputeScales(series, dims, time.UTC)
	require.NoError(t, err)
	return s
}

func TestBarColor(t *testing.T) {
	series := testSeries()
	var got []string
	for i := range series {
		got = append(got, BarColor(series, i))
	}
	assert.Equal(t, []string{UpColor, DownColor, UpColor}, got)

	flat := model.Series{{Close: 5}, {Close: 5}}
	assert.Equal(t, UpColor, BarColor(flat, 1))
}

func TestRender_Structure(t *testing.T) {
	series := testSeries()
	s := mustScales(t, series, 800, 400)
	sc := scene.New()
	Render(sc, series, s)

	bounds := sc.Bounds()
	assert.Equal(t, "translate(75,40)", bounds.Transform)
	require.NotNil(t, bounds.Select(ClassLine))
	assert.Equal(t, "none", bounds.Select(ClassLine).Attr("fill"))

	bars := bounds.SelectAll(ClassVolume)
	require.Len(t, bars, 3)
	for i, b := range bars {
		assert.Equal(t, float64(BarWidth), b.Width)
		assert.InDelta(t, s.Time.Map(series[i].Date), b.X, 1e-9)
		assert.InDelta(t, 320-b.Y, b.Height, 1e-9)
		assert.GreaterOrEqual(t, b.Y, 288.0)
	}
	assert.Equal(t, DownColor, bars[1].Attr("fill"))

	focus := bounds.Select(ClassFocus)
	require.NotNil(t, focus)
	assert.True(t, focus.Hidden())
	overlay := bounds.Select(ClassOverlay)
	require.NotNil(t, overlay)
	assert.Equal(t, 695.0, overlay.Width)
	assert.Equal(t, 320.0, overlay.Height)
	assert.NotNil(t, bounds.Select(ClassLegend))

	last := bounds.Children[len(bounds.Children)-1]
	assert.Equal(t, ClassLegend, last.Class)

	assert.NotEmpty(t, bounds.Select(scene.ClassXAxis).SelectAll(ClassTick))
	assert.NotEmpty(t, bounds.Select(scene.ClassYAxis).SelectAll(ClassTick))
}

func TestRender_Idempotent(t *testing.T) {
	series := testSeries()
	s := mustScales(t, series, 800, 400)
	sc := scene.New()

	Render(sc, series, s)
	first := sc.SVG()
	count := sc.Root.Count()

	Render(sc, series, s)
	assert.Equal(t, count, sc.Root.Count())
	assert.Equal(t, first, sc.SVG())
	assert.Equal(t, 3, sc.Count(ClassVolume))
	assert.Equal(t, 1, sc.Count(ClassLine))
}

func TestRender_ShrinkAndGrow(t *testing.T) {
	series := testSeries()
	sc := scene.New()
	Render(sc, series, mustScales(t, series, 800, 400))

	short := series[:1]
	Render(sc, short, mustScales(t, short, 800, 400))
	assert.Equal(t, 1, sc.Count(ClassVolume))

	Render(sc, series, mustScales(t, series, 800, 400))
	assert.Equal(t, 3, sc.Count(ClassVolume))
	last := sc.Bounds().Children[len(sc.Bounds().Children)-1]
	assert.Equal(t, ClassLegend, last.Class)
}

func TestRender_NothingWhenEmptyOrNotReady(t *testing.T) {
	series := testSeries()
	sc := scene.New()
	Render(sc, series, mustScales(t, series, 800, 400))

	Render(sc, nil, scale.Scales{})
	assert.Equal(t, 0, sc.Count(ClassVolume))
	assert.Equal(t, 0, sc.Count(ClassLine))
	assert.Empty(t, sc.Bounds().Select(scene.ClassXAxis).Children)

	Render(sc, series, mustScales(t, series, 0, 0))
	assert.Equal(t, 0, sc.Count(ClassVolume))
	assert.Equal(t, 0, sc.Count(ClassFocus))
}

func TestLinePath_BreaksOnNaN(t *testing.T) {
	series := testSeries()
	s := mustScales(t, series, 800, 400)
	series[1].Close = math.NaN()

	d := LinePath(series, s)
	assert.Equal(t, 2, strings.Count(d, "M"))
	assert.NotContains(t, d, "NaN")
	assert.NotContains(t, d, "L")

	sc := scene.New()
	assert.NotPanics(t, func() { Render(sc, series, s) })
}

func flatSeries(n int) model.Series {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make(model.Series, n)
	for i := range out {
		out[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Open: 50, High: 50, Low: 50, Close: 50, Volume: 500}
	}
	return out
}

func TestLinePath_FlatSeriesStillBreaksOnNaN(t *testing.T) {
	series := flatSeries(5)
	series[2].Close = math.NaN()
	s := mustScales(t, series, 800, 400)
	require.True(t, s.Price.Degenerate())

	d := LinePath(series, s)
	assert.Equal(t, 2, strings.Count(d, "M"))
	assert.Equal(t, 2, strings.Count(d, "L"))
	assert.NotContains(t, d, "NaN")
}

func TestRender_FlatVolumeSkipsMissingBar(t *testing.T) {
	series := flatSeries(4)
	series[1].Volume = math.NaN()
	series[3].Volume = math.Inf(1)
	s := mustScales(t, series, 800, 400)
	require.True(t, s.Volume.Degenerate())

	sc := scene.New()
	Render(sc, series, s)
	bars := sc.Bounds().Find(ClassVolume)
	require.Len(t, bars, 4)
	for _, i := range []int{1, 3} {
		assert.Equal(t, s.Dims.BoundedHeight, bars[i].Y, "bar %d", i)
		assert.Zero(t, bars[i].Height, "bar %d", i)
	}
	assert.Greater(t, bars[0].Height, 0.0)
	assert.NotContains(t, sc.SVG(), "NaN")
}
