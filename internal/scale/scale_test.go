package scale

import (
	"math"
	"testing"
	"time"

	"PriceChart/internal/layout"
	"PriceChart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLinear_Nice(t *testing.T) {
	tests := []struct {
		d0, d1     float64
		want0, want1 float64
	}{
		{0.201, 0.996, 0.2, 1},
		{8, 12, 8, 12},
		{23.4, 987.1, 0, 1000},
		{25310, 26980, 25200, 27000},
		{-3.7, 4.2, -4, 5},
	}
	for _, tt := range tests {
		s := NewLinear(tt.d0, tt.d1, 320, 0).Nice(DefaultTicks)
		d0, d1 := s.Domain()
		assert.InDelta(t, tt.want0, d0, 1e-9, "domain %v..%v", tt.d0, tt.d1)
		assert.InDelta(t, tt.want1, d1, 1e-9, "domain %v..%v", tt.d0, tt.d1)
		r0, r1 := s.Range()
		assert.Equal(t, 320.0, r0)
		assert.Equal(t, 0.0, r1)
	}
}

func TestLinear_Ticks(t *testing.T) {
	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, NewLinear(0, 100, 0, 1).Ticks(10))

	got := NewLinear(0.2, 1, 0, 1).Ticks(10)
	require.Len(t, got, 9)
	assert.InDelta(t, 0.2, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[8], 1e-12)

	assert.Equal(t, []float64{5}, NewLinear(5, 5, 0, 1).Ticks(10))
	assert.Empty(t, NewLinear(math.NaN(), 5, 0, 1).Ticks(10))
}

func TestLinear_TickFormat(t *testing.T) {
	f := NewLinear(0, 1_000_000, 0, 1).TickFormat(10)
	assert.Equal(t, "1,000,000", f(1_000_000))
	assert.Equal(t, "200,000", f(200_000))

	f = NewLinear(0.2, 1, 0, 1).TickFormat(10)
	assert.Equal(t, "0.5", f(0.5))
}

func TestLinear_Degenerate(t *testing.T) {
	s := NewLinear(7, 7, 320, 0).Nice(DefaultTicks)
	assert.True(t, s.Degenerate())
	assert.Equal(t, 160.0, s.Map(7))
	assert.Equal(t, 160.0, s.Map(100))
	assert.Equal(t, 7.0, s.Invert(42))

	assert.True(t, math.IsNaN(s.Map(math.NaN())))
	assert.True(t, math.IsInf(s.Map(math.Inf(1)), 1))
	assert.True(t, math.IsInf(s.Map(math.Inf(-1)), -1))
}

func TestTime_InvertFarOutside(t *testing.T) {
	d0, d1 := day(2024, 1, 2), day(2024, 3, 29)
	s := NewTime(d0, d1, 0, 695, time.UTC)

	far := s.Invert(1e15)
	assert.True(t, far.After(d1), "got %v", far)
	near := s.Invert(-1e15)
	assert.True(t, near.Before(d0), "got %v", near)
	assert.Equal(t, d0, s.Invert(math.NaN()))
}

func TestTime_RoundTrip(t *testing.T) {
	s := NewTime(day(2020, 1, 3), day(2024, 6, 17), 0, 695, nil).Nice(DefaultTicks)
	for x := 0.0; x <= 695; x += 2.5 {
		got := s.Map(s.Invert(x))
		assert.InDelta(t, x, got, 1, "x=%v", x)
	}
}

func TestTime_NiceWeeks(t *testing.T) {
	s := NewTime(day(2024, 1, 2), day(2024, 3, 29), 0, 695, time.UTC).Nice(DefaultTicks)
	d0, d1 := s.Domain()
	assert.Equal(t, day(2023, 12, 31), d0)
	assert.Equal(t, day(2024, 3, 31), d1)
	assert.Equal(t, time.Sunday, d0.Weekday())
}

func TestTime_NiceMonthsAndYears(t *testing.T) {
	s := NewTime(day(2023, 2, 14), day(2024, 1, 20), 0, 100, time.UTC).Nice(DefaultTicks)
	d0, d1 := s.Domain()
	assert.Equal(t, day(2023, 2, 1), d0)
	assert.Equal(t, day(2024, 2, 1), d1)

	s = NewTime(day(1990, 5, 5), day(2021, 8, 1), 0, 100, time.UTC).Nice(DefaultTicks)
	d0, d1 = s.Domain()
	assert.Equal(t, 1, int(d0.Month()))
	assert.Equal(t, 1, d0.Day())
	assert.False(t, d0.After(day(1990, 5, 5)))
	assert.False(t, d1.Before(day(2021, 8, 1)))
}

func TestTime_Ticks(t *testing.T) {
	s := NewTime(day(2014, 1, 1), day(2024, 1, 1), 0, 100, time.UTC)
	ticks := s.Ticks(DefaultTicks)
	require.Len(t, ticks, 11)
	for i, tk := range ticks {
		assert.Equal(t, day(2014+i, 1, 1), tk)
	}

	s = NewTime(day(2024, 1, 2), day(2024, 3, 29), 0, 695, time.UTC)
	for _, tk := range s.Ticks(DefaultTicks) {
		assert.Equal(t, time.Sunday, tk.Weekday())
	}
}

func TestTime_TickFormat(t *testing.T) {
	f := NewTime(day(2024, 1, 1), day(2024, 12, 31), 0, 100, time.UTC).TickFormat()
	tests := []struct {
		at   time.Time
		want string
	}{
		{day(2024, 1, 1), "2024"},
		{day(2024, 3, 1), "March"},
		{day(2024, 3, 3), "Mar 03"},
		{day(2024, 3, 4), "Mon 04"},
		{time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC), "03 PM"},
		{time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC), "03:30"},
		{time.Date(2024, 3, 4, 15, 30, 10, 0, time.UTC), ":10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f(tt.at))
	}
}

func TestComputeScales(t *testing.T) {
	series := model.Series{
		{Date: day(2024, 1, 2), Close: 10, Volume: 100},
		{Date: day(2024, 1, 3), Close: 8, Volume: 300},
		{Date: day(2024, 1, 4), Close: 12, Volume: 200},
	}
	dims := layout.Combine(layout.Size{Width: 800, Height: 400}, layout.DefaultMargins)
	s, err := ComputeScales(series, dims, nil)
	require.NoError(t, err)

	r0, r1 := s.Time.Range()
	assert.Equal(t, 0.0, r0)
	assert.Equal(t, 695.0, r1)
	d0, d1 := s.Time.Domain()
	assert.False(t, d0.After(series[0].Date))
	assert.False(t, d1.Before(series[2].Date))

	assert.Equal(t, 320.0, s.Price.Map(8))
	assert.Equal(t, 0.0, s.Price.Map(12))

	assert.Equal(t, 320.0, s.Volume.Map(100))
	assert.Equal(t, 288.0, s.Volume.Map(300))
}

func TestComputeScales_Edges(t *testing.T) {
	dims := layout.Combine(layout.Size{Width: 800, Height: 400}, layout.DefaultMargins)

	_, err := ComputeScales(nil, dims, nil)
	assert.ErrorIs(t, err, ErrEmptySeries)

	one := model.Series{{Date: day(2024, 1, 2), Close: 10, Volume: 5}}
	s, err := ComputeScales(one, dims, nil)
	require.NoError(t, err)
	x := s.Time.Map(one[0].Date)
	y := s.Price.Map(one[0].Close)
	assert.False(t, math.IsNaN(x))
	assert.Equal(t, 347.5, x)
	assert.Equal(t, 160.0, y)
	assert.Equal(t, one[0].Date, s.Time.Invert(100))
}
