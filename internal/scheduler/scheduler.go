// Package scheduler runs background jobs on cron schedules: the morning
// brief and a sweep of expired persistence records, adapted from
// trader-go/internal/scheduler's generic Job/Scheduler pair.
package scheduler

import (
	"github.com/aristath/chartwatch/internal/utils"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named unit of scheduled work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages cron-triggered background jobs.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a Scheduler. Schedules use the standard 5-field cron
// syntax (minute resolution), not the seconds-resolution variant.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop waits for any in-flight job to finish, then stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

// AddJob registers a job against a cron schedule, e.g. "0 7 * * MON-FRI".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		timer := utils.NewTimer(job.Name(), s.log)
		if err := job.Run(); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
			timer.StopWithContext(map[string]interface{}{"outcome": "failed"})
			return
		}
		timer.StopWithContext(map[string]interface{}{"outcome": "success"})
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("schedule", schedule).Str("job", job.Name()).Msg("job registered")
	return nil
}

// RunNow executes a job immediately, bypassing its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("running job immediately")
	timer := utils.NewTimer(job.Name(), s.log)
	defer timer.Stop()
	return job.Run()
}
