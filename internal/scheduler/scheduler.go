// Package scheduler provides cron-based background job scheduling.
//
// The service uses it for housekeeping jobs such as the asset retention
// purge.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs jobs on cron expressions.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates and starts a cron scheduler using the standard
// 5-field parser with descriptor support (@daily etc.) and panic recovery
// around jobs.
func NewScheduler() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

// AddJob schedules a task using the provided cron expression. It returns an
// error if the expression is invalid.
func (s *Scheduler) AddJob(expr string, task func()) error {
	if _, err := s.cron.AddFunc(expr, task); err != nil {
		return err
	}
	slog.Debug("Scheduler.AddJob: job scheduled", "expr", expr)
	return nil
}

// Stop stops the cron scheduler; running jobs finish first.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
