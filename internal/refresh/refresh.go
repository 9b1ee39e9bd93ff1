// Package refresh drives the manual and scheduled data-refresh actions
// against the backend's long-running scrape endpoint.
package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/miasdk/job-finder-frontend/internal/api"
	"github.com/miasdk/job-finder-frontend/internal/config"
	"github.com/miasdk/job-finder-frontend/internal/events"
	"github.com/miasdk/job-finder-frontend/internal/models"
	"github.com/miasdk/job-finder-frontend/internal/store"
	"github.com/miasdk/job-finder-frontend/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("job-finder-frontend/refresh")

// lastAttemptKey records when a refresh was last started, successfully or
// not. It is written before the request goes out so a hung scrape cannot be
// re-triggered concurrently.
const lastAttemptKey = "refresh:last_attempt"

type FailureReason string

const (
	ReasonTimeout FailureReason = "timeout"
	ReasonNetwork FailureReason = "network"
	ReasonServer  FailureReason = "server"
)

// Outcome is the settled result of one refresh action.
type Outcome struct {
	Succeeded bool
	AddedJobs int
	Message   string

	Reason     FailureReason
	StatusCode int
	Body       string
}

// UserMessage renders the advice shown for each distinct failure mode. A
// timeout is not a network error: the scrape may still be running.
func (o Outcome) UserMessage() string {
	if o.Succeeded {
		return o.Message
	}
	switch o.Reason {
	case ReasonTimeout:
		return "The refresh timed out. It may still be running on the backend; check back later."
	case ReasonNetwork:
		return "Could not reach the backend. Check your connection and that the backend service is running."
	case ReasonServer:
		if o.Body != "" {
			return "The backend reported an error: " + o.Body
		}
		return "The backend reported an error."
	}
	return "Refresh failed."
}

// Refresher is the slice of the backend client the service needs.
type Refresher interface {
	DailyRefresh(ctx context.Context) (*models.RefreshResponse, error)
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// Listing is notified after a successful refresh so the first page is
// re-fetched with current filters.
type Listing interface {
	ResetToFirstPage(ctx context.Context) error
}

// ListingFunc adapts a plain function to the Listing interface.
type ListingFunc func(ctx context.Context) error

func (f ListingFunc) ResetToFirstPage(ctx context.Context) error {
	return f(ctx)
}

type Service struct {
	client    Refresher
	store     store.Store
	publisher events.Publisher
	listing   Listing
	logger    *zap.Logger

	timeout     time.Duration
	autoTimeout time.Duration
	staleness   time.Duration
	cooldown    time.Duration

	// now is the clock the cooldown gate reads; tests override it.
	now func() time.Time
}

func NewService(client Refresher, st store.Store, publisher events.Publisher, listing Listing, logger *zap.Logger, cfg *config.Config) *Service {
	return &Service{
		client:      client,
		store:       st,
		publisher:   publisher,
		listing:     listing,
		logger:      logger,
		timeout:     cfg.RefreshTimeout,
		autoTimeout: cfg.AutoRefreshTimeout,
		staleness:   cfg.StalenessThreshold,
		cooldown:    cfg.RefreshCooldown,
		now:         time.Now,
	}
}

// Trigger runs the user-initiated refresh with the interactive timeout.
// No retry is attempted: this is a visible action against an expensive
// backend job.
func (s *Service) Trigger(ctx context.Context) Outcome {
	ctx, span := tracer.Start(ctx, "Refresh.Trigger")
	defer span.End()
	return s.run(ctx, s.timeout)
}

func (s *Service) run(ctx context.Context, timeout time.Duration) Outcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("triggering backend refresh", zap.Duration("timeout", timeout))

	resp, err := s.client.DailyRefresh(ctx)
	outcome := classify(resp, err)

	if outcome.Succeeded {
		s.logger.Info("refresh completed",
			zap.Int("added_jobs", outcome.AddedJobs),
			zap.String("message", outcome.Message))
		s.afterSuccess(outcome)
	} else {
		s.logger.Warn("refresh failed",
			zap.String("reason", string(outcome.Reason)),
			zap.Int("status", outcome.StatusCode))
	}

	return outcome
}

// afterSuccess re-fetches page 1 and publishes the completion event. Both
// run on a fresh context: the interactive request that triggered the
// refresh may already be gone.
func (s *Service) afterSuccess(outcome Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.listing != nil {
		if err := s.listing.ResetToFirstPage(ctx); err != nil {
			s.logger.Warn("post-refresh list fetch failed", zap.Error(err))
		}
	}

	if s.publisher != nil {
		event := events.RefreshCompletedEvent{
			AddedJobs:  outcome.AddedJobs,
			Message:    outcome.Message,
			FinishedAt: s.now(),
		}
		if err := s.publisher.PublishRefreshCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish refresh event", zap.Error(err))
		}
	}
}

func classify(resp *models.RefreshResponse, err error) Outcome {
	if err == nil {
		return Outcome{
			Succeeded: true,
			AddedJobs: resp.AddedNewJobs,
			Message:   resp.Message,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Reason: ReasonTimeout}
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return Outcome{
			Reason:     ReasonServer,
			StatusCode: statusErr.StatusCode,
			Body:       statusErr.Body,
		}
	}

	return Outcome{Reason: ReasonNetwork}
}
