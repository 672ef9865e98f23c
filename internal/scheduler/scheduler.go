package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

// Refresher reloads the dashboard snapshots.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Extractor writes the bronze files.
type Extractor interface {
	Extract(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context) error

func (f ExtractorFunc) Extract(ctx context.Context) error { return f(ctx) }

// Config holds the cron expressions; an empty expression disables its job.
type Config struct {
	RefreshSchedule string
	ExtractSchedule string
	Location        *time.Location
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	cfg       Config
	refresher Refresher
	extractor Extractor
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. Standard 5-field cron
// expressions are evaluated in cfg.Location.
func NewScheduler(cfg Config, refresher Refresher, extractor Extractor, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	c := cron.New(cron.WithLocation(cfg.Location))

	return &Scheduler{
		cron:      c,
		cfg:       cfg,
		refresher: refresher,
		extractor: extractor,
		logger:    logger.Named("scheduler"),
	}
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.cfg.RefreshSchedule != "" && s.refresher != nil {
		if _, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.refreshSnapshots); err != nil {
			return fmt.Errorf("schedule snapshot refresh: %w", err)
		}
		s.logger.Info("snapshot refresh scheduled", zap.String("cron", s.cfg.RefreshSchedule))
	}
	if s.cfg.ExtractSchedule != "" && s.extractor != nil {
		if _, err := s.cron.AddFunc(s.cfg.ExtractSchedule, s.extractBronze); err != nil {
			return fmt.Errorf("schedule bronze extraction: %w", err)
		}
		s.logger.Info("bronze extraction scheduled", zap.String("cron", s.cfg.ExtractSchedule))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) refreshSnapshots() {
	s.run("snapshot refresh", s.refresher.Refresh)
}

func (s *Scheduler) extractBronze() {
	s.run("bronze extraction", s.extractor.Extract)
}

func (s *Scheduler) run(name string, job func(context.Context) error) {
	s.logger.Info("job started", zap.String("job", name))
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := job(ctx); err != nil {
		s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("job finished", zap.String("job", name))
}
