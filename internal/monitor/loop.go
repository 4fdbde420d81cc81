package monitor

import (
	"context"
	"log"
	"time"

	"RateSentinel/internal/model"
	"RateSentinel/internal/notifier"
	"RateSentinel/internal/ratesource"
	"RateSentinel/internal/recorder"
)

// Notifier is the alert channel consumed by the loop.
type Notifier interface {
	Notify(subject, body string) error
}

// Resolver produces the comparison threshold for the configured mode.
type Resolver interface {
	Resolve() (float64, error)
}

// Loop alternates between checking and sleeping forever. A failure in any
// collaborator degrades the cycle to "log and sleep"; nothing short of
// context cancellation stops the loop.
type Loop struct {
	Source     ratesource.Source
	Resolver   Resolver
	Notifier   Notifier
	Recorder   recorder.Recorder
	Pair       string
	Mode       model.BaselineMode
	Interval   time.Duration
	RunOnStart bool
}

// NewLoop creates a monitor loop.
func NewLoop(src ratesource.Source, res Resolver, n Notifier, rec recorder.Recorder,
	pair string, mode model.BaselineMode, interval time.Duration, runOnStart bool) *Loop {
	return &Loop{
		Source:     src,
		Resolver:   res,
		Notifier:   n,
		Recorder:   rec,
		Pair:       pair,
		Mode:       mode,
		Interval:   interval,
		RunOnStart: runOnStart,
	}
}

// Run executes check cycles at the configured interval until ctx is
// cancelled. One cycle completes fully, including any notification and its
// retries, before the sleep begins. When RunOnStart is false the first
// check waits one full interval.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("[INFO] monitor loop started: pair=%s mode=%s interval=%s", l.Pair, l.Mode, l.Interval)
	if l.RunOnStart {
		l.runCycle()
	}
	for {
		log.Printf("[INFO] sleeping %s until next check", l.Interval)
		select {
		case <-ctx.Done():
			log.Println("[INFO] monitor loop stopped")
			return
		case <-time.After(l.Interval):
		}
		l.runCycle()
	}
}

func (l *Loop) runCycle() {
	log.Println("[INFO] fetching current rate")
	current, err := l.Source.CurrentQuote(l.Pair)
	if err != nil {
		log.Printf("[ERROR] fetch current quote: %v", err)
		l.record(&recorder.CheckEvent{Time: time.Now(), Pair: l.Pair, Mode: string(l.Mode), Note: err.Error()})
		return
	}
	log.Printf("[INFO] current %s rate: %.4f", notifier.DisplayPair(l.Pair), current)

	base, err := l.Resolver.Resolve()
	if err != nil {
		log.Printf("[ERROR] resolve baseline: %v", err)
		l.record(&recorder.CheckEvent{Time: time.Now(), Pair: l.Pair, Rate: current, Mode: string(l.Mode), Note: err.Error()})
		return
	}

	evt := &recorder.CheckEvent{
		Time:     time.Now(),
		Pair:     l.Pair,
		Rate:     current,
		Baseline: base,
		Mode:     string(l.Mode),
	}

	// Strict comparison: equality is "not below".
	if current < base {
		evt.Alerted = true
		subject, body := notifier.FormatAlert(l.Pair, current, base, l.Mode)
		if err := l.Notifier.Notify(subject, body); err != nil {
			// Delivery failure is swallowed here; the loop must sleep and
			// carry on regardless.
			log.Printf("[ERROR] send alert: %v", err)
			evt.Note = err.Error()
		} else {
			log.Printf("[INFO] alert sent: %s", body)
		}
	} else {
		log.Printf("[INFO] current rate (%.4f) is at or above the baseline (%.4f)", current, base)
	}

	l.record(evt)
}

func (l *Loop) record(evt *recorder.CheckEvent) {
	if l.Recorder == nil {
		return
	}
	if err := l.Recorder.RecordCheck(evt); err != nil {
		log.Printf("[ERROR] record check: %v", err)
	}
}
