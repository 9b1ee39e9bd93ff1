package listing_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/miasdk/job-finder-frontend/internal/listing"
	"github.com/miasdk/job-finder-frontend/internal/models"
	"github.com/miasdk/job-finder-frontend/internal/query"

	"go.uber.org/zap"
)

type fetcherFunc func(ctx context.Context, state query.FilterState) (*models.JobListResponse, error)

func (f fetcherFunc) ListJobs(ctx context.Context, state query.FilterState) (*models.JobListResponse, error) {
	return f(ctx, state)
}

func jobsNamed(titles ...string) []models.Job {
	jobs := make([]models.Job, 0, len(titles))
	for i, title := range titles {
		jobs = append(jobs, models.Job{ID: i + 1, Title: title})
	}
	return jobs
}

func page(count int, jobs []models.Job, next, previous *string) *models.JobListResponse {
	return &models.JobListResponse{Count: count, Next: next, Previous: previous, Results: jobs}
}

func strPtr(s string) *string { return &s }

// ── page reset ─────────────────────────────────────────────────────────────

func TestApply_FilterChangeResetsPage(t *testing.T) {
	var lastFetched query.FilterState
	f := fetcherFunc(func(_ context.Context, state query.FilterState) (*models.JobListResponse, error) {
		lastFetched = state
		return page(100, jobsNamed("a"), nil, nil), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	start := query.NewFilterState()
	start.Page = 3
	if _, err := ctrl.Hydrate(context.Background(), start); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	changed := start
	changed.Search = "golang"
	snap, err := ctrl.Apply(context.Background(), changed)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if snap.State.Page != 1 {
		t.Errorf("page after search change = %d, want 1", snap.State.Page)
	}
	if lastFetched.Page != 1 {
		t.Errorf("fetched page = %d, want 1", lastFetched.Page)
	}
	if snap.State.Search != "golang" {
		t.Errorf("search = %q, want %q", snap.State.Search, "golang")
	}
}

func TestApply_PageOnlyChangeKeepsFilters(t *testing.T) {
	f := fetcherFunc(func(_ context.Context, state query.FilterState) (*models.JobListResponse, error) {
		return page(100, jobsNamed("a"), nil, nil), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	start := query.NewFilterState()
	start.Search = "python"
	start.LocationType = query.LocationRemote
	if _, err := ctrl.Hydrate(context.Background(), start); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	next := start
	next.Page = 2
	snap, err := ctrl.Apply(context.Background(), next)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if snap.State.Page != 2 {
		t.Errorf("page = %d, want 2", snap.State.Page)
	}
	if snap.State.Search != "python" || snap.State.LocationType != query.LocationRemote {
		t.Errorf("filters changed by page navigation: %+v", snap.State)
	}
}

// ── URL hydration ──────────────────────────────────────────────────────────

func TestHydrate_KeepsPageFromSharedURL(t *testing.T) {
	var fetched query.FilterState
	f := fetcherFunc(func(_ context.Context, state query.FilterState) (*models.JobListResponse, error) {
		fetched = state
		return page(100, jobsNamed("a"), strPtr("next"), strPtr("prev")), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	// A bookmarked URL carries filters and page together; the page must
	// survive the initial load instead of being reset by the filter diff.
	state := query.NewFilterState()
	state.Search = "golang"
	state.Page = 3

	snap, err := ctrl.Hydrate(context.Background(), state)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if fetched.Page != 3 {
		t.Errorf("fetched page = %d, want 3 from the URL", fetched.Page)
	}
	if snap.State.Page != 3 {
		t.Errorf("snapshot page = %d, want 3", snap.State.Page)
	}
	if fetched.Search != "golang" {
		t.Errorf("fetched search = %q, want %q", fetched.Search, "golang")
	}
}

func TestHydrate_OutOfRangePageIsFetchedAsIs(t *testing.T) {
	var fetched query.FilterState
	f := fetcherFunc(func(_ context.Context, state query.FilterState) (*models.JobListResponse, error) {
		fetched = state
		// The server answers an out-of-range page with an empty slice.
		return page(45, []models.Job{}, nil, strPtr("prev")), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	state := query.NewFilterState()
	state.Search = "golang"
	state.Page = 99

	snap, err := ctrl.Hydrate(context.Background(), state)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if fetched.Page != 99 {
		t.Errorf("fetched page = %d, want 99 passed through", fetched.Page)
	}
	if snap.Phase != listing.PhaseSuccess {
		t.Errorf("phase = %s, want success for an empty out-of-range page", snap.Phase)
	}
	if len(snap.Jobs) != 0 {
		t.Errorf("jobs = %d, want the server's empty page", len(snap.Jobs))
	}
}

// ── navigation bounds ──────────────────────────────────────────────────────

func TestApply_OutOfRangePageIsRejectedNoOp(t *testing.T) {
	calls := 0
	f := fetcherFunc(func(_ context.Context, state query.FilterState) (*models.JobListResponse, error) {
		calls++
		return page(45, jobsNamed("a", "b"), strPtr("next"), nil), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	if _, err := ctrl.Hydrate(context.Background(), query.NewFilterState()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	before := ctrl.Snapshot()

	for _, target := range []int{0, 4, 100} {
		bad := before.State
		bad.Page = target
		snap, err := ctrl.Apply(context.Background(), bad)
		if err != listing.ErrPageOutOfRange {
			t.Errorf("Apply(page=%d) err = %v, want ErrPageOutOfRange", target, err)
		}
		if snap.State.Page != before.State.Page {
			t.Errorf("Apply(page=%d) changed displayed page to %d", target, snap.State.Page)
		}
	}

	if calls != 1 {
		t.Errorf("rejected navigations caused %d extra fetches", calls-1)
	}
}

// ── last-request-wins ──────────────────────────────────────────────────────

func TestApply_StaleResponseNeverWins(t *testing.T) {
	slowStarted := make(chan struct{})
	f := fetcherFunc(func(ctx context.Context, state query.FilterState) (*models.JobListResponse, error) {
		if state.Search == "slow" {
			close(slowStarted)
			// Superseding request must cancel this one.
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return page(1, jobsNamed("winner"), nil, nil), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	slow := query.NewFilterState()
	slow.Search = "slow"

	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		_, slowErr = ctrl.Apply(context.Background(), slow)
	}()

	<-slowStarted

	fast := query.NewFilterState()
	fast.Search = "fast"
	fastSnap, err := ctrl.Apply(context.Background(), fast)
	if err != nil {
		t.Fatalf("fast apply: %v", err)
	}
	wg.Wait()

	if slowErr != nil {
		t.Errorf("superseded request surfaced an error: %v", slowErr)
	}
	if len(fastSnap.Jobs) != 1 || fastSnap.Jobs[0].Title != "winner" {
		t.Fatalf("fast snapshot jobs = %+v, want the winner", fastSnap.Jobs)
	}

	final := ctrl.Snapshot()
	if final.Phase != listing.PhaseSuccess {
		t.Errorf("final phase = %s, want success", final.Phase)
	}
	if len(final.Jobs) != 1 || final.Jobs[0].Title != "winner" {
		t.Errorf("stale response overwrote the newer result: %+v", final.Jobs)
	}
	if final.State.Search != "fast" {
		t.Errorf("final search = %q, want %q", final.State.Search, "fast")
	}
}

// ── failure handling ───────────────────────────────────────────────────────

func TestApply_FailurePreservesLastResults(t *testing.T) {
	failing := false
	f := fetcherFunc(func(_ context.Context, state query.FilterState) (*models.JobListResponse, error) {
		if failing {
			return nil, context.DeadlineExceeded
		}
		return page(2, jobsNamed("a", "b"), nil, nil), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	if _, err := ctrl.Hydrate(context.Background(), query.NewFilterState()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	failing = true
	snap, err := ctrl.Refetch(context.Background())
	if err == nil {
		t.Fatal("expected an error from a failing fetch")
	}

	if snap.Phase != listing.PhaseError {
		t.Errorf("phase = %s, want error", snap.Phase)
	}
	if len(snap.Jobs) != 2 {
		t.Errorf("jobs after failure = %d, want the 2 previously displayed", len(snap.Jobs))
	}
	if !strings.Contains(snap.ErrMessage, "backend") {
		t.Errorf("error message %q must point at the backend service", snap.ErrMessage)
	}
}

func TestApply_FirstEverFailureShowsEmpty(t *testing.T) {
	f := fetcherFunc(func(_ context.Context, _ query.FilterState) (*models.JobListResponse, error) {
		return nil, context.DeadlineExceeded
	})
	ctrl := listing.NewController(f, zap.NewNop())

	snap, err := ctrl.Hydrate(context.Background(), query.NewFilterState())
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(snap.Jobs) != 0 {
		t.Errorf("jobs = %d, want 0 on first-ever failure", len(snap.Jobs))
	}
	if snap.Phase != listing.PhaseError {
		t.Errorf("phase = %s, want error", snap.Phase)
	}
}

func TestApply_EmptyResultIsSuccessNotError(t *testing.T) {
	f := fetcherFunc(func(_ context.Context, _ query.FilterState) (*models.JobListResponse, error) {
		return page(0, []models.Job{}, nil, nil), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	snap, err := ctrl.Hydrate(context.Background(), query.NewFilterState())
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if snap.Phase != listing.PhaseSuccess {
		t.Errorf("phase = %s, want success for an empty result set", snap.Phase)
	}
	if snap.TotalPages != 0 {
		t.Errorf("total pages = %d, want 0", snap.TotalPages)
	}
	if snap.ErrMessage != "" {
		t.Errorf("unexpected error message %q", snap.ErrMessage)
	}
}

// ── pagination metadata ────────────────────────────────────────────────────

func TestApply_ServerEnvelopeDrivesPager(t *testing.T) {
	f := fetcherFunc(func(_ context.Context, _ query.FilterState) (*models.JobListResponse, error) {
		twenty := make([]models.Job, 20)
		return page(45, twenty, strPtr("http://backend/api/jobs/?page=2"), nil), nil
	})
	ctrl := listing.NewController(f, zap.NewNop())

	snap, err := ctrl.Hydrate(context.Background(), query.NewFilterState())
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if !snap.HasNext {
		t.Error("HasNext = false, want true for page 1 of 3")
	}
	if snap.HasPrevious {
		t.Error("HasPrevious = true, want false on page 1")
	}
	if snap.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3 for count=45 page_size=20", snap.TotalPages)
	}
}
