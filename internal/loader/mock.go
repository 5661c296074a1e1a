package loader

import (
	"context"
	"math"
	"time"

	"PriceChart/internal/model"
)

// MockSource generates a deterministic daily series for development and tests.
type MockSource struct {
	Price float64
	Count int
	Start time.Time // defaults to Count days before today, UTC
	Data  model.Series
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Load(_ context.Context) (model.Series, error) {
	if m.Data != nil {
		out := make(model.Series, len(m.Data))
		copy(out, m.Data)
		return finish(m.Name(), out)
	}
	start := m.Start
	if start.IsZero() {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		start = today.AddDate(0, 0, -m.Count)
	}
	return finish(m.Name(), generateMockBars(m.Price, m.Count, start))
}

func generateMockBars(basePrice float64, count int, start time.Time) model.Series {
	bars := make(model.Series, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/7))
		bars[i] = model.PricePoint{
			Date:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + float64((i*7919)%500000),
		}
	}
	return bars
}
