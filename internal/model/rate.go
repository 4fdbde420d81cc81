package model

import "time"

// DailyClose is one trading day's closing price for the tracked pair.
type DailyClose struct {
	Date  time.Time
	Close float64
}

// Closes extracts the closing prices from a daily series.
func Closes(series []DailyClose) []float64 {
	closes := make([]float64, len(series))
	for i, d := range series {
		closes[i] = d.Close
	}
	return closes
}
