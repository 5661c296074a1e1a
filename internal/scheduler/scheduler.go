package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"PriceChart/internal/loader"
	"PriceChart/internal/model"

	"github.com/robfig/cron/v3"
)

// Publisher receives each successfully loaded series.
type Publisher interface {
	Publish(series model.Series)
}

// Scheduler reloads the series on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Source    loader.Source
	Publisher Publisher
	Timeout   time.Duration
	Ctx       context.Context

	mu       sync.Mutex
	lastErr  error
	lastLoad time.Time
}

// NewScheduler creates a scheduler that accepts specs with an optional seconds field.
func NewScheduler(ctx context.Context, src loader.Source, pub Publisher) *Scheduler {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		Cron:      cron.New(cron.WithParser(parser)),
		Source:    src,
		Publisher: pub,
		Timeout:   time.Minute,
		Ctx:       ctx,
	}
}

// RegisterReload schedules a reload. An empty spec registers nothing.
func (s *Scheduler) RegisterReload(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, s.reload); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	log.Printf("[INFO] series reload scheduled: %s", spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running reload.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow loads the series immediately and publishes it on success.
func (s *Scheduler) RunNow() error {
	return s.load()
}

// Status returns the time of the last successful load and the last error.
func (s *Scheduler) Status() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLoad, s.lastErr
}

func (s *Scheduler) reload() {
	log.Printf("[INFO] reloading series from %s", s.Source.Name())
	if err := s.load(); err != nil {
		log.Printf("[ERROR] reload: %v, keeping previous series", err)
	}
}

func (s *Scheduler) load() error {
	ctx, cancel := context.WithTimeout(s.Ctx, s.Timeout)
	defer cancel()

	series, err := s.Source.Load(ctx)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.lastLoad = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("load %s: %w", s.Source.Name(), err)
	}
	s.Publisher.Publish(series)
	log.Printf("[INFO] published %d points", len(series))
	return nil
}
