package notifier

import (
	"strings"
	"testing"

	"RateSentinel/internal/model"
)

func TestDisplayPair(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JPYCNY=X", "JPY/CNY"},
		{"EURUSD=X", "EUR/USD"},
		{"jpycny=x", "JPY/CNY"},
		{"^GSPC", "^GSPC"},
	}
	for _, tt := range tests {
		if got := DisplayPair(tt.in); got != tt.want {
			t.Errorf("DisplayPair(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAlert_CustomValue(t *testing.T) {
	subject, body := FormatAlert("JPYCNY=X", 144.50, 145.00, model.ModeCustomValue)

	if !strings.Contains(subject, "below configured threshold") {
		t.Errorf("unexpected subject: %q", subject)
	}
	if !strings.Contains(body, "144.5000") {
		t.Errorf("body missing current rate at 4 decimals: %q", body)
	}
	if !strings.Contains(body, "145.0000") {
		t.Errorf("body missing baseline at 4 decimals: %q", body)
	}
}

func TestFormatAlert_AverageModes(t *testing.T) {
	for _, mode := range []model.BaselineMode{
		model.ModeYearAverage, model.ModeMonthAverage, model.ModeCustomDaysAverage,
	} {
		subject, body := FormatAlert("JPYCNY=X", 0.0512, 0.0523, mode)
		if !strings.Contains(subject, "below trailing average") {
			t.Errorf("%s: unexpected subject: %q", mode, subject)
		}
		if !strings.Contains(body, "0.0512") || !strings.Contains(body, "0.0523") {
			t.Errorf("%s: values not at 4 decimals: %q", mode, body)
		}
	}
}

func TestFormatDigest(t *testing.T) {
	tests := []struct {
		current, baseline float64
		relation          string
	}{
		{144.50, 145.00, "below"},
		{145.00, 145.00, "equal to"},
		{145.50, 145.00, "above"},
	}
	for _, tt := range tests {
		subject, body := FormatDigest("JPYCNY=X", tt.current, tt.baseline)
		if !strings.Contains(subject, "JPY/CNY") {
			t.Errorf("unexpected subject: %q", subject)
		}
		if !strings.Contains(body, tt.relation) {
			t.Errorf("body missing relation %q: %q", tt.relation, body)
		}
		if !strings.Contains(body, "145.0000") {
			t.Errorf("baseline not at 4 decimals: %q", body)
		}
	}
}
