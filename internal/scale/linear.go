package scale

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear maps a continuous numeric domain onto a pixel range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale from domain [d0, d1] to range [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the domain endpoints.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the range endpoints.
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Degenerate reports whether the domain collapses to a single value.
func (s Linear) Degenerate() bool { return s.d0 == s.d1 }

// Map converts a domain value to a pixel position.
// A degenerate domain maps every finite value to the middle of the range;
// non-finite values pass through unchanged.
func (s Linear) Map(v float64) float64 {
	if !finite(v) {
		return v
	}
	if s.Degenerate() {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Invert converts a pixel position back to a domain value.
func (s Linear) Invert(px float64) float64 {
	if s.r0 == s.r1 || s.Degenerate() {
		return s.d0
	}
	t := (px - s.r0) / (s.r1 - s.r0)
	return s.d0 + t*(s.d1-s.d0)
}

// Nice extends the domain to round values so that roughly count ticks fit.
func (s Linear) Nice(count int) Linear {
	start, stop := s.d0, s.d1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	if start == stop || !finite(start) || !finite(stop) {
		return s
	}
	var prestep float64
loop:
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, float64(count))
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			break loop
		}
		prestep = step
	}
	if reverse {
		start, stop = stop, start
	}
	return Linear{d0: start, d1: stop, r0: s.r0, r1: s.r1}
}

// Ticks returns round values inside the domain, about count of them.
func (s Linear) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, float64(count))
}

// TickFormat returns a formatter with thousands grouping and just enough
// decimals for the tick step.
func (s Linear) TickFormat(count int) func(float64) string {
	step := math.Abs(tickStep(s.d0, s.d1, float64(count)))
	precision := 0
	if step > 0 && finite(step) {
		precision = int(math.Max(0, -math.Floor(math.Log10(step)+1e-9)))
	}
	layout := "#,###." + strings.Repeat("#", precision)
	return func(v float64) string {
		return humanize.FormatFloat(layout, v)
	}
}

// tickSpec returns integer bounds i1..i2 and the increment. A negative
// increment means the step is 1/-inc, which keeps decimal steps exact.
func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func tickIncrement(start, stop, count float64) float64 {
	_, _, inc := tickSpec(start, stop, count)
	return inc
}

func tickStep(start, stop, count float64) float64 {
	reverse := stop < start
	var inc float64
	if reverse {
		inc = tickIncrement(stop, start, count)
	} else {
		inc = tickIncrement(start, stop, count)
	}
	if inc < 0 {
		inc = 1 / -inc
	}
	if reverse {
		return -inc
	}
	return inc
}

func ticks(start, stop, count float64) []float64 {
	if !(count > 0) || !finite(start) || !finite(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	var i1, i2, inc float64
	if reverse {
		i1, i2, inc = tickSpec(stop, start, count)
	} else {
		i1, i2, inc = tickSpec(start, stop, count)
	}
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		k := i
		if reverse {
			k = n - 1 - i
		}
		if inc < 0 {
			out[i] = (i1 + float64(k)) / -inc
		} else {
			out[i] = (i1 + float64(k)) * inc
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
