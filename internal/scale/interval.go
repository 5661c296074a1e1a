package scale

import (
	"math"
	"time"
)

const (
	durationSecond = time.Second
	durationMinute = time.Minute
	durationHour   = time.Hour
	durationDay    = 24 * time.Hour
	durationWeek   = 7 * durationDay
	durationMonth  = 30 * durationDay
	durationYear   = 365 * durationDay
)

// interval is a calendar unit that can floor a time and step from it.
type interval struct {
	floor  func(time.Time) time.Time
	offset func(time.Time, int) time.Time
}

func (iv interval) ceil(t time.Time) time.Time {
	f := iv.floor(t.Add(-time.Millisecond))
	return iv.floor(iv.offset(f, 1))
}

// between returns every interval boundary in [start, stop).
func (iv interval) between(start, stop time.Time) []time.Time {
	var out []time.Time
	t := iv.ceil(start)
	for t.Before(stop) {
		out = append(out, t)
		next := iv.floor(iv.offset(t, 1))
		if !next.After(t) {
			break
		}
		t = next
	}
	return out
}

// filter keeps only boundaries accepted by test.
func (iv interval) filter(test func(time.Time) bool) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = iv.floor(t)
			for !test(t) {
				t = iv.floor(t.Add(-time.Millisecond))
			}
			return t
		},
		offset: func(t time.Time, n int) time.Time {
			for ; n > 0; n-- {
				t = iv.offset(t, 1)
				for !test(t) {
					t = iv.offset(t, 1)
				}
			}
			for ; n < 0; n++ {
				t = iv.offset(t, -1)
				for !test(t) {
					t = iv.offset(t, -1)
				}
			}
			return t
		},
	}
}

// every returns an interval that steps k units, aligned on a calendar field.
func (iv interval) every(k int, field func(time.Time) int) interval {
	if k <= 1 || field == nil {
		return iv
	}
	return iv.filter(func(t time.Time) bool { return field(t)%k == 0 })
}

func secondInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
		},
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Second) },
	}
}

func minuteInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Minute) },
	}
}

func hourInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Hour) },
	}
}

func dayInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time { return t.In(loc).AddDate(0, 0, n) },
	}
}

// weekInterval starts weeks on Sunday.
func weekInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time { return t.In(loc).AddDate(0, 0, 7*n) },
	}
}

func monthInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month()+time.Month(n), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		},
	}
}

// yearInterval steps k years, aligned to years divisible by k.
func yearInterval(loc *time.Location, k int) interval {
	if k < 1 {
		k = 1
	}
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			y := int(math.Floor(float64(t.Year())/float64(k))) * k
			return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time {
			t = t.In(loc)
			return time.Date(t.Year()+n*k, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		},
	}
}

func millisecondInterval(k int) interval {
	if k < 1 {
		k = 1
	}
	return interval{
		floor: func(t time.Time) time.Time {
			ms := t.UnixMilli()
			return time.UnixMilli(int64(math.Floor(float64(ms)/float64(k))) * int64(k)).In(t.Location())
		},
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n*k) * time.Millisecond) },
	}
}

type tickRule struct {
	unit     string
	step     int
	duration time.Duration
}

var tickRules = []tickRule{
	{"second", 1, durationSecond},
	{"second", 5, 5 * durationSecond},
	{"second", 15, 15 * durationSecond},
	{"second", 30, 30 * durationSecond},
	{"minute", 1, durationMinute},
	{"minute", 5, 5 * durationMinute},
	{"minute", 15, 15 * durationMinute},
	{"minute", 30, 30 * durationMinute},
	{"hour", 1, durationHour},
	{"hour", 3, 3 * durationHour},
	{"hour", 6, 6 * durationHour},
	{"hour", 12, 12 * durationHour},
	{"day", 1, durationDay},
	{"day", 2, 2 * durationDay},
	{"week", 1, durationWeek},
	{"month", 1, durationMonth},
	{"month", 3, 3 * durationMonth},
	{"year", 1, durationYear},
}

func (r tickRule) interval(loc *time.Location) interval {
	switch r.unit {
	case "second":
		return secondInterval(loc).every(r.step, func(t time.Time) int { return t.Second() })
	case "minute":
		return minuteInterval(loc).every(r.step, func(t time.Time) int { return t.In(loc).Minute() })
	case "hour":
		return hourInterval(loc).every(r.step, func(t time.Time) int { return t.In(loc).Hour() })
	case "day":
		return dayInterval(loc).every(r.step, func(t time.Time) int { return t.In(loc).Day() - 1 })
	case "week":
		return weekInterval(loc)
	case "month":
		return monthInterval(loc).every(r.step, func(t time.Time) int { return int(t.In(loc).Month()) - 1 })
	default:
		return yearInterval(loc, r.step)
	}
}

// tickInterval picks the calendar interval giving about count ticks between start and stop.
func tickInterval(start, stop time.Time, count int, loc *time.Location) interval {
	span := math.Abs(float64(stop.Sub(start)))
	target := span / float64(count)

	i := 0
	for i < len(tickRules) && float64(tickRules[i].duration) <= target {
		i++
	}
	switch {
	case i == len(tickRules):
		y0 := float64(start.UnixMilli()) / float64(durationYear.Milliseconds())
		y1 := float64(stop.UnixMilli()) / float64(durationYear.Milliseconds())
		k := int(math.Floor(tickStep(y0, y1, float64(count))))
		return yearInterval(loc, k)
	case i == 0:
		k := int(math.Max(math.Floor(tickStep(float64(start.UnixMilli()), float64(stop.UnixMilli()), float64(count))), 1))
		return millisecondInterval(k)
	}
	prev, next := tickRules[i-1], tickRules[i]
	if target/float64(prev.duration) < float64(next.duration)/target {
		return prev.interval(loc)
	}
	return next.interval(loc)
}
