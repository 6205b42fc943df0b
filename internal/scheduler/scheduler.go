// Package scheduler runs the periodic jobs of the engine.
package scheduler

import (
	"fmt"
	"time"

	"github.com/moneyage/backend/internal/config"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/moneyage"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler triggers the snapshot builds and recalculation retries on
// their configured cron schedules. All schedules use six fields, with
// seconds first.
type Scheduler struct {
	cron *cron.Cron
}

// New sets up the job schedules. Nothing runs until Start is called.
func New(cfg config.Config) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())

	jobs := []struct {
		schedule string
		name     string
		run      func()
	}{
		{cfg.Snapshots.DailyCron, "snapshots-daily", func() {
			moneyage.BuildDueSnapshots(models.DB, models.GranularityDaily)
		}},
		{cfg.Snapshots.WeeklyCron, "snapshots-weekly", func() {
			moneyage.BuildDueSnapshots(models.DB, models.GranularityWeekly)
		}},
		{cfg.Snapshots.MonthlyCron, "snapshots-monthly", func() {
			moneyage.BuildDueSnapshots(models.DB, models.GranularityMonthly)
		}},
		{cfg.Recalculation.RetryCron, "recalculation-retry", func() {
			moneyage.RetryDirty(models.DB, time.Duration(cfg.Recalculation.RetryBackoffSeconds)*time.Second)
		}},
	}

	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.schedule, func() {
			log.Debug().Str("job", job.name).Msg("running scheduled job")
			job.run()
		})
		if err != nil {
			return nil, fmt.Errorf("scheduling %s (%q): %w", job.name, job.schedule, err)
		}
	}

	return &Scheduler{cron: c}, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
