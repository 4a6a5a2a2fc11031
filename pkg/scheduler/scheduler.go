package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"taskboard/pkg/logger"
)

// JobScheduler runs the background maintenance jobs (expired-notification
// purge, due-date reminders) on cron schedules.
type JobScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	RemoveJob(id string) error
	IsRunning() bool
}

type jobInfo struct {
	id       string
	cronExpr string
	job      *gocron.Job
}

type gocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*jobInfo
	mu        sync.RWMutex
	running   bool
}

func NewJobScheduler() JobScheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	// A slow run must not stack on top of the next tick.
	scheduler.SingletonModeAll()

	return &gocronScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]*jobInfo),
	}
}

func (s *gocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("job scheduler started")
}

func (s *gocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.scheduler.Stop()
	s.running = false
	logger.Info("job scheduler stopped")
}

func (s *gocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *gocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		start := time.Now()
		logger.Info("running scheduled job", "job", id)
		task()
		logger.Debug("scheduled job finished", "job", id, "duration", time.Since(start).String())
	})
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.jobs[id] = &jobInfo{id: id, cronExpr: cronExpr, job: job}
	logger.Info("scheduled job registered", "job", id, "cron", cronExpr)
	return nil
}

func (s *gocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	if info.job != nil {
		s.scheduler.RemoveByReference(info.job)
	}

	delete(s.jobs, id)
	return nil
}
