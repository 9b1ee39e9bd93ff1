// Package scheduler runs the periodic auto-refresh check. The check itself
// is double-gated inside the refresh service, so the tick interval only
// bounds how quickly staleness is noticed.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/miasdk/job-finder-frontend/internal/refresh"
	"github.com/miasdk/job-finder-frontend/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("job-finder-frontend/scheduler")

type AutoRefreshScheduler struct {
	refresher *refresh.Service
	logger    *zap.Logger
	interval  time.Duration

	mutex    sync.Mutex
	isActive bool
}

func NewAutoRefreshScheduler(refresher *refresh.Service, logger *zap.Logger, interval time.Duration) *AutoRefreshScheduler {
	return &AutoRefreshScheduler{
		refresher: refresher,
		logger:    logger,
		interval:  interval,
	}
}

func (s *AutoRefreshScheduler) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "AutoRefreshScheduler.Start")
	defer span.End()

	s.mutex.Lock()
	if s.isActive {
		s.mutex.Unlock()
		return nil
	}
	s.isActive = true
	s.mutex.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *AutoRefreshScheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.isActive = false
}

func (s *AutoRefreshScheduler) check(ctx context.Context) {
	triggered, skip, outcome := s.refresher.MaybeAutoRefresh(ctx)
	if !triggered {
		s.logger.Debug("auto-refresh not triggered", zap.String("skip", string(skip)))
		return
	}
	if outcome.Succeeded {
		s.logger.Info("scheduled refresh succeeded",
			zap.Int("added_jobs", outcome.AddedJobs))
		return
	}
	s.logger.Warn("scheduled refresh failed",
		zap.String("reason", string(outcome.Reason)),
		zap.String("message", outcome.UserMessage()))
}
