package model

import (
	"errors"
	"fmt"
)

// BaselineMode selects how the comparison threshold is derived.
type BaselineMode string

const (
	ModeYearAverage       BaselineMode = "YEAR_AVERAGE"
	ModeMonthAverage      BaselineMode = "MONTH_AVERAGE"
	ModeCustomDaysAverage BaselineMode = "CUSTOM_DAYS_AVERAGE"
	ModeCustomValue       BaselineMode = "CUSTOM_VALUE"
)

// ErrUnknownBaselineMode reports a mode string outside the closed enumeration.
var ErrUnknownBaselineMode = errors.New("unknown baseline mode")

// ParseBaselineMode validates a configured mode string. Validation happens
// once at startup so a bad mode never surfaces during the monitor loop.
func ParseBaselineMode(s string) (BaselineMode, error) {
	switch m := BaselineMode(s); m {
	case ModeYearAverage, ModeMonthAverage, ModeCustomDaysAverage, ModeCustomValue:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBaselineMode, s)
}

// WindowDays returns the trailing averaging window for the mode, using
// customDays for ModeCustomDaysAverage. ModeCustomValue has no window.
func (m BaselineMode) WindowDays(customDays int) int {
	switch m {
	case ModeYearAverage:
		return 365
	case ModeMonthAverage:
		return 30
	case ModeCustomDaysAverage:
		return customDays
	}
	return 0
}
