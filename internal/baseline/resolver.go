package baseline

import (
	"errors"
	"fmt"
	"time"

	"RateSentinel/internal/model"
	"RateSentinel/internal/ratesource"
)

// Resolver computes the comparison threshold for the configured mode.
// It is immutable after construction; Resolve may be called every cycle.
type Resolver struct {
	Source ratesource.Source
	Pair   string
	Mode   model.BaselineMode
	Days   int     // window for ModeCustomDaysAverage
	Value  float64 // threshold for ModeCustomValue

	now func() time.Time // test hook
}

// NewResolver creates a resolver. Mode is assumed validated at config time.
func NewResolver(src ratesource.Source, pair string, mode model.BaselineMode, days int, value float64) *Resolver {
	return &Resolver{
		Source: src,
		Pair:   pair,
		Mode:   mode,
		Days:   days,
		Value:  value,
		now:    time.Now,
	}
}

// Resolve produces the baseline value. For averaging modes it fetches the
// trailing daily series and returns its unweighted arithmetic mean; an empty
// series or a fetch failure surfaces as ratesource.ErrDataUnavailable.
func (r *Resolver) Resolve() (float64, error) {
	if r.Mode == model.ModeCustomValue {
		return r.Value, nil
	}

	days := r.Mode.WindowDays(r.Days)
	end := r.now()
	start := end.AddDate(0, 0, -days)

	series, err := r.Source.DailySeries(r.Pair, start, end)
	if err != nil {
		if !errors.Is(err, ratesource.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %w", ratesource.ErrDataUnavailable, err)
		}
		return 0, fmt.Errorf("fetch %d-day series: %w", days, err)
	}
	mean, err := Mean(model.Closes(series))
	if err != nil {
		return 0, fmt.Errorf("%w: empty %d-day series", ratesource.ErrDataUnavailable, days)
	}
	return mean, nil
}

// Mean computes the unweighted arithmetic average of the given prices.
// No gap-filling or interpolation: missing trading days simply contribute
// nothing to the sum or the count.
func Mean(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, fmt.Errorf("no prices to average")
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices)), nil
}
