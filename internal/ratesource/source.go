package ratesource

import (
	"errors"
	"time"

	"RateSentinel/internal/model"
)

// ErrDataUnavailable reports that neither a live quote nor historical
// closes could be obtained from the source.
var ErrDataUnavailable = errors.New("rate data unavailable")

// Source defines the interface for fetching exchange-rate data.
type Source interface {
	// CurrentQuote returns the latest price for the pair, preferring a
	// live market price and falling back to the most recent daily close.
	CurrentQuote(pair string) (float64, error)
	// DailySeries returns daily closes in [start, end), ascending by date.
	// The result may be empty when the window holds no trading days.
	DailySeries(pair string, start, end time.Time) ([]model.DailyClose, error)
	Name() string
}
