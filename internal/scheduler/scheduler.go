package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job is a periodic task. The context is cancelled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler wraps cron. Every job is wrapped with SkipIfStillRunning, so a tick that arrives
// while the previous run of the same job is still busy is dropped rather than queued.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	cronLogger := cron.PrintfLogger(log.StandardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule registers job under a standard cron spec or a descriptor such as "@every 1h".
func (s *Scheduler) Schedule(name, spec string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		started := time.Now()
		if err := job(s.ctx); err != nil {
			log.Errorf("Scheduled job %s failed: %v", name, err)
			return
		}
		log.Debugf("Scheduled job %s finished in %s", name, time.Since(started))
	})
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	log.Infof("Scheduled job %s (%s)", name, spec)
	return id, nil
}

// Next returns the next activation time of the entry, zero if it is unknown or not started.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
