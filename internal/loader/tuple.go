package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"PriceChart/internal/model"
)

// Tuple positions of the raw feed: [date, open, close, low, high, volume].
const (
	colDate = iota
	colOpen
	colClose
	colLow
	colHigh
	colVolume
	tupleLen
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "2006/01/02"}

// DecodeTuples parses a JSON array of positional tuples.
// Dates are epoch milliseconds or date strings; null prices decode as NaN.
func DecodeTuples(data []byte) (model.Series, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows [][]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode tuples: %w", err)
	}
	series := make(model.Series, 0, len(rows))
	for i, row := range rows {
		p, err := decodeTuple(row)
		if err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i, err)
		}
		series = append(series, p)
	}
	return series, nil
}

func decodeTuple(row []interface{}) (model.PricePoint, error) {
	if len(row) < tupleLen {
		return model.PricePoint{}, fmt.Errorf("want %d fields, got %d", tupleLen, len(row))
	}
	date, err := parseDate(row[colDate])
	if err != nil {
		return model.PricePoint{}, err
	}
	var vals [tupleLen]float64
	for col := colOpen; col < tupleLen; col++ {
		v, err := toFloat(row[col])
		if err != nil {
			return model.PricePoint{}, fmt.Errorf("field %d: %w", col, err)
		}
		vals[col] = v
	}
	return model.PricePoint{
		Date:   date,
		Open:   vals[colOpen],
		High:   vals[colHigh],
		Low:    vals[colLow],
		Close:  vals[colClose],
		Volume: vals[colVolume],
	}, nil
}

func parseDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case json.Number:
		ms, err := d.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", d, err)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", d)
	default:
		return time.Time{}, fmt.Errorf("date has type %T", v)
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case nil:
		return math.NaN(), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
