package scale

import (
	"math"
	"time"
)

// maxOffset bounds Invert so far-off pixels saturate instead of overflowing time.Duration.
const maxOffset = float64(1 << 62)

// Time maps a time domain onto a pixel range and back.
type Time struct {
	d0, d1 time.Time
	r0, r1 float64
	loc    *time.Location
}

// NewTime creates a time scale. Calendar rounding happens in loc (UTC when nil).
func NewTime(d0, d1 time.Time, r0, r1 float64, loc *time.Location) Time {
	if loc == nil {
		loc = time.UTC
	}
	return Time{d0: d0, d1: d1, r0: r0, r1: r1, loc: loc}
}

// Domain returns the domain endpoints.
func (s Time) Domain() (time.Time, time.Time) { return s.d0, s.d1 }

// Range returns the range endpoints.
func (s Time) Range() (float64, float64) { return s.r0, s.r1 }

// Location returns the location used for calendar rounding and labels.
func (s Time) Location() *time.Location { return s.loc }

// Degenerate reports whether the domain is a single instant.
func (s Time) Degenerate() bool { return s.d0.Equal(s.d1) }

// Map converts a time to a pixel position.
func (s Time) Map(t time.Time) float64 {
	if s.Degenerate() {
		return (s.r0 + s.r1) / 2
	}
	frac := float64(t.Sub(s.d0)) / float64(s.d1.Sub(s.d0))
	return s.r0 + frac*(s.r1-s.r0)
}

// Invert converts a pixel position back to a time.
func (s Time) Invert(px float64) time.Time {
	if s.r0 == s.r1 || s.Degenerate() {
		return s.d0
	}
	if math.IsNaN(px) {
		return s.d0
	}
	frac := (px - s.r0) / (s.r1 - s.r0)
	off := math.Max(-maxOffset, math.Min(maxOffset, frac*float64(s.d1.Sub(s.d0))))
	return s.d0.Add(time.Duration(off))
}

// Nice widens the domain to the calendar boundaries of the interval that
// yields about count ticks.
func (s Time) Nice(count int) Time {
	if s.Degenerate() {
		return s
	}
	start, stop := s.d0, s.d1
	reverse := stop.Before(start)
	if reverse {
		start, stop = stop, start
	}
	iv := tickInterval(start, stop, count, s.loc)
	start, stop = iv.floor(start), iv.ceil(stop)
	if reverse {
		start, stop = stop, start
	}
	return Time{d0: start, d1: stop, r0: s.r0, r1: s.r1, loc: s.loc}
}

// Ticks returns calendar-aligned times inside the domain.
func (s Time) Ticks(count int) []time.Time {
	if s.Degenerate() {
		return []time.Time{s.d0}
	}
	start, stop := s.d0, s.d1
	reverse := stop.Before(start)
	if reverse {
		start, stop = stop, start
	}
	iv := tickInterval(start, stop, count, s.loc)
	out := iv.between(start, stop.Add(time.Millisecond))
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// TickFormat labels a tick with the coarsest calendar unit it falls on:
// year, month, week, day, hour, minute, second, millisecond.
func (s Time) TickFormat() func(time.Time) string {
	loc := s.loc
	second := secondInterval(loc)
	minute := minuteInterval(loc)
	hour := hourInterval(loc)
	day := dayInterval(loc)
	week := weekInterval(loc)
	month := monthInterval(loc)
	year := yearInterval(loc, 1)
	return func(t time.Time) string {
		t = t.In(loc)
		var layout string
		switch {
		case second.floor(t).Before(t):
			layout = ".000"
		case minute.floor(t).Before(t):
			layout = ":05"
		case hour.floor(t).Before(t):
			layout = "03:04"
		case day.floor(t).Before(t):
			layout = "03 PM"
		case month.floor(t).Before(t):
			if week.floor(t).Before(t) {
				layout = "Mon 02"
			} else {
				layout = "Jan 02"
			}
		case year.floor(t).Before(t):
			layout = "January"
		default:
			layout = "2006"
		}
		return t.Format(layout)
	}
}
