package refresh

import (
	"context"
	"time"

	"github.com/miasdk/job-finder-frontend/internal/store"
	"github.com/miasdk/job-finder-frontend/internal/telemetry"

	"go.uber.org/zap"
)

// SkipReason explains why MaybeAutoRefresh decided not to fire.
type SkipReason string

const (
	SkipFresh          SkipReason = "data_fresh"
	SkipCooldown       SkipReason = "cooldown_active"
	SkipStatsUnknown   SkipReason = "stats_unavailable"
	SkipMarkerUnusable SkipReason = "marker_unreadable"
)

// MaybeAutoRefresh is the self-throttled variant: it fires only when the
// backend's last scrape is older than the staleness threshold AND the last
// recorded attempt is older than the cooldown window. The attempt marker is
// written before the request goes out, so a slow or hung refresh cannot be
// re-triggered while it is still running.
//
// The returned Outcome is only meaningful when triggered is true.
func (s *Service) MaybeAutoRefresh(ctx context.Context) (triggered bool, skip SkipReason, outcome Outcome) {
	ctx, span := tracer.Start(ctx, "Refresh.MaybeAutoRefresh")
	defer span.End()

	stats, err := s.client.GetDashboardStats(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("auto-refresh check could not read dashboard stats", zap.Error(err))
		return false, SkipStatsUnknown, Outcome{}
	}

	now := s.now()

	// A backend that has never scraped counts as maximally stale.
	if stats.LastScrapeDate != nil {
		age := now.Sub(*stats.LastScrapeDate)
		span.SetAttributes(telemetry.Int("refresh.scrape_age_hours", int(age.Hours())))
		if age < s.staleness {
			s.logger.Debug("auto-refresh skipped, data is fresh",
				zap.Duration("age", age),
				zap.Duration("threshold", s.staleness))
			return false, SkipFresh, Outcome{}
		}
	}

	marker, err := s.store.Get(ctx, lastAttemptKey)
	switch {
	case err == nil:
		lastAttempt, perr := time.Parse(time.RFC3339, marker)
		if perr != nil {
			// An unreadable marker must not wedge the gate shut
			// forever; overwrite it below and fire.
			s.logger.Warn("discarding unreadable attempt marker", zap.String("marker", marker))
		} else if now.Sub(lastAttempt) < s.cooldown {
			s.logger.Debug("auto-refresh skipped, cooldown active",
				zap.Time("last_attempt", lastAttempt),
				zap.Duration("cooldown", s.cooldown))
			return false, SkipCooldown, Outcome{}
		}
	case err == store.ErrNotFound:
		// First attempt ever; fall through.
	default:
		span.RecordError(err)
		s.logger.Warn("auto-refresh check could not read attempt marker", zap.Error(err))
		return false, SkipMarkerUnusable, Outcome{}
	}

	// Record the attempt optimistically, before the network call resolves.
	if err := s.store.Set(ctx, lastAttemptKey, now.Format(time.RFC3339), 0); err != nil {
		s.logger.Warn("failed to record attempt marker", zap.Error(err))
	}

	s.logger.Info("auto-refresh gate open, triggering refresh")
	return true, "", s.run(ctx, s.autoTimeout)
}
