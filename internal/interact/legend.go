package interact

import (
	"math"
	"strconv"
	"time"

	"PriceChart/internal/model"

	"github.com/shopspring/decimal"
)

// LegendSpacing is the vertical distance between legend lines.
const LegendSpacing = 20

// LegendLines formats a point as "<field>: <value>" lines in field order.
// Dates use month/day/year in loc; prices are fixed to two decimals; volume is printed as-is.
func LegendLines(p model.PricePoint, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	return []string{
		"date: " + p.Date.In(loc).Format("1/2/2006"),
		"open: " + fixed2(p.Open),
		"high: " + fixed2(p.High),
		"low: " + fixed2(p.Low),
		"close: " + fixed2(p.Close),
		"volume: " + plain(p.Volume),
	}
}

func fixed2(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func plain(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "Infinity", true
	case math.IsInf(v, -1):
		return "-Infinity", true
	}
	return "", false
}
