// Package scheduler runs named tasks at fixed wall-clock intervals.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one unit of scheduled work. The context is canceled on Stop.
type Task func(ctx context.Context)

type job struct {
	name     string
	interval time.Duration
	task     Task
}

// Status describes the scheduler lifecycle for the status endpoint.
type Status struct {
	IsRunning     bool     `json:"isRunning"`
	ActiveJobs    []string `json:"activeJobs"`
	UptimeSeconds float64  `json:"uptime"`
}

// Scheduler owns a set of interval jobs with a start/stop lifecycle.
// Jobs must be added before Start.
type Scheduler struct {
	logger *slog.Logger

	mu        sync.Mutex
	jobs      []job
	running   bool
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates an empty scheduler.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Add registers a named job. Panics are not recovered; tasks are expected to
// handle their own failures and return.
func (s *Scheduler) Add(name string, interval time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, interval: interval, task: task})
}

// Start launches one ticker goroutine per job. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Warn("scheduler already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	s.startedAt = time.Now()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.run(ctx, j)
	}

	s.logger.Info("scheduler started", "jobs", len(s.jobs))
}

func (s *Scheduler) run(ctx context.Context, j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Debug("running scheduled job", "job", j.name)
			j.task(ctx)
		}
	}
}

// Stop cancels all jobs and waits for in-flight runs to finish. Calling Stop
// on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.logger.Warn("scheduler not running")
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// Status reports the running flag, registered job names and uptime.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{ActiveJobs: []string{}}
	if s.running {
		st.IsRunning = true
		st.UptimeSeconds = time.Since(s.startedAt).Seconds()
		for _, j := range s.jobs {
			st.ActiveJobs = append(st.ActiveJobs, j.name)
		}
	}
	return st
}
