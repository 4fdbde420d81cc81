package ratesource

import (
	"time"

	"RateSentinel/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Price     float64
	Series    []model.DailyClose
	QuoteErr  error
	SeriesErr error

	QuoteCalls  int
	SeriesCalls int
	LastStart   time.Time
	LastEnd     time.Time
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) CurrentQuote(_ string) (float64, error) {
	m.QuoteCalls++
	if m.QuoteErr != nil {
		return 0, m.QuoteErr
	}
	return m.Price, nil
}

func (m *MockSource) DailySeries(_ string, start, end time.Time) ([]model.DailyClose, error) {
	m.SeriesCalls++
	m.LastStart, m.LastEnd = start, end
	if m.SeriesErr != nil {
		return nil, m.SeriesErr
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return GenerateMockSeries(m.Price, start, end), nil
}

// GenerateMockSeries produces one close per day in [start, end) drifting
// around basePrice.
func GenerateMockSeries(basePrice float64, start, end time.Time) []model.DailyClose {
	var series []model.DailyClose
	i := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		series = append(series, model.DailyClose{
			Date:  d,
			Close: basePrice * (1 + float64(i%10-5)*0.001),
		})
		i++
	}
	return series
}
