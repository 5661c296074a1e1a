package scale

import (
	"errors"
	"math"
	"time"

	"PriceChart/internal/layout"
	"PriceChart/internal/model"
)

// ErrEmptySeries is returned when scales are requested for a series with no points.
var ErrEmptySeries = errors.New("empty series")

// DefaultTicks is the approximate tick count used for niceness and axes.
const DefaultTicks = 10

// VolumeBand is the fraction of the bounded height used by volume bars.
const VolumeBand = 0.1

// Scales bundles the mappings one redraw needs.
type Scales struct {
	Time   Time
	Price  Linear
	Volume Linear
	Dims   layout.Dimensions
}

// ComputeScales builds the time, price and volume scales for a series
// laid out inside dims. Calendar rounding happens in loc (UTC when nil).
func ComputeScales(series model.Series, dims layout.Dimensions, loc *time.Location) (Scales, error) {
	if len(series) == 0 {
		return Scales{}, ErrEmptySeries
	}
	if loc == nil {
		loc = time.UTC
	}
	w, h := dims.BoundedWidth, dims.BoundedHeight

	t0, t1 := timeExtent(series)
	c0, c1 := extent(series, func(p model.PricePoint) float64 { return p.Close })
	v0, v1 := extent(series, func(p model.PricePoint) float64 { return p.Volume })

	return Scales{
		Time:   NewTime(t0, t1, 0, w, loc).Nice(DefaultTicks),
		Price:  NewLinear(c0, c1, h, 0).Nice(DefaultTicks),
		Volume: NewLinear(v0, v1, h, h-h*VolumeBand),
		Dims:   dims,
	}, nil
}

func timeExtent(series model.Series) (time.Time, time.Time) {
	lo, hi := series[0].Date, series[0].Date
	for _, p := range series[1:] {
		if p.Date.Before(lo) {
			lo = p.Date
		}
		if p.Date.After(hi) {
			hi = p.Date
		}
	}
	return lo, hi
}

// extent returns min and max of the finite values; [0, 0] when there are none.
func extent(series model.Series, value func(model.PricePoint) float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range series {
		v := value(p)
		if !finite(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
