package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JobFunc is the unit of background work driven by the scheduler.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	gate     func(time.Time) bool
	run      JobFunc
}

// Scheduler drives interval jobs on their own goroutines. A job may
// carry a gate deciding per tick whether the run happens, which keeps
// calendar-bound sweeps out of the job bodies.
type Scheduler struct {
	logger *slog.Logger
	jobs   []job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	// now is swappable in tests.
	now func() time.Time
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

// AddJob registers a job that runs on every tick.
func (s *Scheduler) AddJob(name string, interval time.Duration, run JobFunc) {
	s.AddGatedJob(name, interval, nil, run)
}

// AddGatedJob registers a job whose tick only runs when gate accepts
// the current time. A nil gate always runs.
func (s *Scheduler) AddGatedJob(name string, interval time.Duration, gate func(time.Time) bool, run JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job{name: name, interval: interval, gate: gate, run: run})
	s.logger.Info("Cron job registered", "name", name, "interval", interval)
}

// Start launches one goroutine per registered job. Each job also runs
// once immediately so a restart never delays overdue work by a full
// interval.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(j)
	}

	s.logger.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels the job context and waits for in-flight runs.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.execute(s.ctx, j)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(s.ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j job) {
	if j.gate != nil && !j.gate(s.now()) {
		s.logger.Debug("Cron job gated off", "name", j.name)
		return
	}

	start := s.now()
	if err := j.run(ctx); err != nil {
		s.logger.Error("Cron job failed", "name", j.name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("Cron job completed", "name", j.name, "duration", time.Since(start))
}

// RunOnce executes every registered job a single time, honoring gates.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.execute(ctx, j)
	}
}
