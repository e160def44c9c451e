package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// scheduledJob pairs a Job with the mutex that guards against overlapping
// runs of the same job.
type scheduledJob struct {
	job     Job
	running sync.Mutex
}

// Scheduler drives the registered jobs on their cron expressions. A tick
// that fires while the previous run of the same job is still in flight is
// skipped, not queued.
type Scheduler struct {
	mu     sync.Mutex
	logger *slog.Logger
	byName map[string]*scheduledJob
	order  []*scheduledJob
	runner *cron.Cron
	cancel context.CancelFunc
}

// NewScheduler creates an empty scheduler. Register jobs, then Start.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger: logger,
		byName: make(map[string]*scheduledJob),
	}
}

// RegisterJob adds a job. Job names must be unique; registration after
// Start has no effect on the running schedule.
func (s *Scheduler) RegisterJob(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := j.Name()
	if _, taken := s.byName[name]; taken {
		return fmt.Errorf("maintenance: duplicate job name %q", name)
	}

	sj := &scheduledJob{job: j}
	s.byName[name] = sj
	s.order = append(s.order, sj)
	return nil
}

// Start validates every schedule expression and begins ticking. Standard
// five-field cron expressions only.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	fiveField := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s.runner = cron.New(cron.WithParser(fiveField))

	for _, sj := range s.order {
		if _, err := s.runner.AddFunc(sj.job.Schedule(), func() { s.tick(ctx, sj) }); err != nil {
			cancel()
			return fmt.Errorf("maintenance: invalid schedule for job %q: %w", sj.job.Name(), err)
		}
	}

	s.runner.Start()
	s.logger.Info("maintenance: scheduler started", "jobs", len(s.order))
	return nil
}

// tick runs one firing of a job, unless its previous run is still going.
func (s *Scheduler) tick(ctx context.Context, sj *scheduledJob) {
	if !sj.running.TryLock() {
		s.logger.Warn("maintenance: previous run still in flight, skipping", "job", sj.job.Name())
		return
	}
	defer sj.running.Unlock()

	if err := sj.job.Run(ctx); err != nil {
		s.logger.Error("maintenance: job failed", "job", sj.job.Name(), "error", err)
		return
	}
	s.logger.Debug("maintenance: job completed", "job", sj.job.Name())
}

// Stop cancels the job context and waits for in-flight runs to finish.
// Safe to call without a prior Start.
func (s *Scheduler) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.runner != nil {
		<-s.runner.Stop().Done()
		s.logger.Info("maintenance: scheduler stopped")
	}
	return nil
}
