package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/miasdk/job-finder-frontend/internal/models"
	"github.com/miasdk/job-finder-frontend/internal/store"
)

func statsWithScrapeAge(now time.Time, age time.Duration) func(context.Context) (*models.DashboardStats, error) {
	scraped := now.Add(-age)
	return func(context.Context) (*models.DashboardStats, error) {
		return &models.DashboardStats{LastScrapeDate: &scraped}, nil
	}
}

func TestMaybeAutoRefresh_StaleDataNoMarkerTriggers(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	var markerAtCallTime string
	var markerErr error
	backend := &fakeBackend{
		statsFn: statsWithScrapeAge(now, 50*time.Hour),
	}
	svc, st, _ := newTestService(backend)
	svc.now = func() time.Time { return now }

	backend.refreshFn = func(ctx context.Context) (*models.RefreshResponse, error) {
		// The attempt marker must already be recorded when the network
		// call goes out, so a hung request cannot be re-triggered.
		markerAtCallTime, markerErr = st.Get(ctx, lastAttemptKey)
		return &models.RefreshResponse{Success: true, Message: "ok"}, nil
	}

	triggered, skip, outcome := svc.MaybeAutoRefresh(context.Background())

	if !triggered {
		t.Fatalf("expected trigger, skipped with %q", skip)
	}
	if !outcome.Succeeded {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if markerErr != nil {
		t.Fatalf("attempt marker missing at call time: %v", markerErr)
	}
	if markerAtCallTime != now.Format(time.RFC3339) {
		t.Errorf("marker at call time = %q, want %q", markerAtCallTime, now.Format(time.RFC3339))
	}
}

func TestMaybeAutoRefresh_CooldownSuppressesEvenWhenStale(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	called := false
	backend := &fakeBackend{
		statsFn: statsWithScrapeAge(now, 50*time.Hour),
		refreshFn: func(context.Context) (*models.RefreshResponse, error) {
			called = true
			return &models.RefreshResponse{Success: true}, nil
		},
	}
	svc, st, _ := newTestService(backend)
	svc.now = func() time.Time { return now }

	// Attempted 10 hours ago, inside the 24h cooldown window.
	lastAttempt := now.Add(-10 * time.Hour)
	if err := st.Set(context.Background(), lastAttemptKey, lastAttempt.Format(time.RFC3339), 0); err != nil {
		t.Fatal(err)
	}

	triggered, skip, _ := svc.MaybeAutoRefresh(context.Background())

	if triggered {
		t.Fatal("cooldown gate should have suppressed the refresh")
	}
	if skip != SkipCooldown {
		t.Errorf("skip = %q, want %q", skip, SkipCooldown)
	}
	if called {
		t.Error("backend refresh endpoint was hit despite the cooldown")
	}
}

func TestMaybeAutoRefresh_FreshDataSkips(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	backend := &fakeBackend{
		statsFn: statsWithScrapeAge(now, 10*time.Hour),
		refreshFn: func(context.Context) (*models.RefreshResponse, error) {
			t.Error("refresh fired for fresh data")
			return nil, nil
		},
	}
	svc, _, _ := newTestService(backend)
	svc.now = func() time.Time { return now }

	triggered, skip, _ := svc.MaybeAutoRefresh(context.Background())

	if triggered {
		t.Fatal("fresh data should not trigger a refresh")
	}
	if skip != SkipFresh {
		t.Errorf("skip = %q, want %q", skip, SkipFresh)
	}
}

func TestMaybeAutoRefresh_ExpiredCooldownTriggersAgain(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	backend := &fakeBackend{
		statsFn: statsWithScrapeAge(now, 50*time.Hour),
		refreshFn: func(context.Context) (*models.RefreshResponse, error) {
			return &models.RefreshResponse{Success: true}, nil
		},
	}
	svc, st, _ := newTestService(backend)
	svc.now = func() time.Time { return now }

	lastAttempt := now.Add(-30 * time.Hour)
	if err := st.Set(context.Background(), lastAttemptKey, lastAttempt.Format(time.RFC3339), 0); err != nil {
		t.Fatal(err)
	}

	triggered, _, _ := svc.MaybeAutoRefresh(context.Background())

	if !triggered {
		t.Fatal("expired cooldown should allow the refresh")
	}

	marker, err := st.Get(context.Background(), lastAttemptKey)
	if err != nil {
		t.Fatal(err)
	}
	if marker != now.Format(time.RFC3339) {
		t.Errorf("marker = %q, want updated to %q", marker, now.Format(time.RFC3339))
	}
}

func TestMaybeAutoRefresh_NeverScrapedCountsAsStale(t *testing.T) {
	backend := &fakeBackend{
		statsFn: func(context.Context) (*models.DashboardStats, error) {
			return &models.DashboardStats{LastScrapeDate: nil}, nil
		},
		refreshFn: func(context.Context) (*models.RefreshResponse, error) {
			return &models.RefreshResponse{Success: true}, nil
		},
	}
	svc, _, _ := newTestService(backend)

	triggered, skip, _ := svc.MaybeAutoRefresh(context.Background())

	if !triggered {
		t.Errorf("a backend with no scrape history should trigger, skipped with %q", skip)
	}
}

func TestMaybeAutoRefresh_MarkerWrittenEvenWhenRefreshFails(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	backend := &fakeBackend{
		statsFn: statsWithScrapeAge(now, 50*time.Hour),
		refreshFn: func(ctx context.Context) (*models.RefreshResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	svc, st, _ := newTestService(backend)
	svc.now = func() time.Time { return now }

	triggered, _, outcome := svc.MaybeAutoRefresh(context.Background())

	if !triggered {
		t.Fatal("expected trigger")
	}
	if outcome.Succeeded {
		t.Fatal("expected timeout failure")
	}

	if _, err := st.Get(context.Background(), lastAttemptKey); err == store.ErrNotFound {
		t.Error("attempt marker must survive a failed refresh")
	}
}
