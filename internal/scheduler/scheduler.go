package scheduler

import (
	"fmt"
	"log"

	"RateSentinel/internal/notifier"
	"RateSentinel/internal/ratesource"

	"github.com/robfig/cron/v3"
)

// Resolver produces the comparison threshold.
type Resolver interface {
	Resolve() (float64, error)
}

// Notifier is the digest delivery channel.
type Notifier interface {
	Notify(subject, body string) error
}

// Scheduler runs the optional cron-driven digest, a status summary emailed
// regardless of how the rate compares to the baseline.
type Scheduler struct {
	Cron     *cron.Cron
	Source   ratesource.Source
	Resolver Resolver
	Notifier Notifier
	Pair     string
}

// NewScheduler creates a new Scheduler. Cron specs use seconds-precision
// fields, e.g. "0 0 9 * * *" for every day at 09:00.
func NewScheduler(src ratesource.Source, res Resolver, n Notifier, pair string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Source:   src,
		Resolver: res,
		Notifier: n,
		Pair:     pair,
	}
}

// RegisterDigest registers the digest task. A bad cron spec is a
// configuration error and should be fatal at startup.
func (s *Scheduler) RegisterDigest(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] digest scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] digest scheduler stopped")
}

func (s *Scheduler) digestTask() {
	log.Println("[INFO] running daily digest")
	current, err := s.Source.CurrentQuote(s.Pair)
	if err != nil {
		log.Printf("[ERROR] digest: fetch current quote: %v", err)
		return
	}
	base, err := s.Resolver.Resolve()
	if err != nil {
		log.Printf("[ERROR] digest: resolve baseline: %v", err)
		return
	}
	subject, body := notifier.FormatDigest(s.Pair, current, base)
	if err := s.Notifier.Notify(subject, body); err != nil {
		log.Printf("[ERROR] digest: send: %v", err)
	}
}
