package interact

import (
	"sort"
	"time"

	"PriceChart/internal/model"
)

// Nearest returns the index of the point whose date is closest to t.
// The series must be sorted ascending by date. Ties go to the later point.
func Nearest(series model.Series, t time.Time) (int, bool) {
	n := len(series)
	if n == 0 {
		return 0, false
	}
	if n == 1 {
		return 0, true
	}
	i := sort.Search(n, func(k int) bool { return !series[k].Date.Before(t) })
	if i < 1 {
		i = 1
	}
	if i > n-1 {
		i = n - 1
	}
	d0, d1 := series[i-1], series[i]
	if t.Sub(d0.Date) >= d1.Date.Sub(t) {
		return i, true
	}
	return i - 1, true
}
