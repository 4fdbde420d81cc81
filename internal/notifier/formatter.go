package notifier

import (
	"fmt"
	"strings"
	"time"

	"RateSentinel/internal/model"
)

// DisplayPair renders a Yahoo-style FX symbol for humans: "JPYCNY=X" -> "JPY/CNY".
func DisplayPair(pair string) string {
	p := strings.ToUpper(strings.TrimSuffix(pair, "=X"))
	if len(p) == 6 {
		return p[:3] + "/" + p[3:]
	}
	return pair
}

// FormatAlert composes the below-baseline alert. Both values are rendered
// to 4 decimal places.
func FormatAlert(pair string, current, baseline float64, mode model.BaselineMode) (subject, body string) {
	dp := DisplayPair(pair)
	if mode == model.ModeCustomValue {
		subject = fmt.Sprintf("%s rate below configured threshold", dp)
		body = fmt.Sprintf("Current %s rate (%.4f) is below the configured threshold (%.4f).",
			dp, current, baseline)
		return subject, body
	}
	subject = fmt.Sprintf("%s rate below trailing average", dp)
	body = fmt.Sprintf("Current %s rate (%.4f) is below the trailing average (%.4f).",
		dp, current, baseline)
	return subject, body
}

// FormatDigest composes the daily status summary sent regardless of the
// comparison outcome.
func FormatDigest(pair string, current, baseline float64) (subject, body string) {
	dp := DisplayPair(pair)
	relation := "above"
	switch {
	case current < baseline:
		relation = "below"
	case current == baseline:
		relation = "equal to"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s daily digest | %s\n\n", dp, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Current rate: %.4f\n", current))
	b.WriteString(fmt.Sprintf("Baseline:     %.4f\n", baseline))
	b.WriteString(fmt.Sprintf("The current rate is %s the baseline.\n", relation))

	return fmt.Sprintf("%s daily rate digest", dp), b.String()
}
