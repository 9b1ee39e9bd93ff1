// Package listing orchestrates job-list fetches: it owns the current
// FilterState, re-fetches whenever that state changes, and guarantees that
// a stale response never overwrites the result of a newer request.
package listing

import (
	"context"
	"sync"

	"github.com/miasdk/job-finder-frontend/internal/errors"
	"github.com/miasdk/job-finder-frontend/internal/models"
	"github.com/miasdk/job-finder-frontend/internal/pagination"
	"github.com/miasdk/job-finder-frontend/internal/query"
	"github.com/miasdk/job-finder-frontend/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("job-finder-frontend/listing")

// BackendUnreachableMessage is shown whenever a list fetch fails. The
// dashboard is only as alive as the backend behind it, so the message says
// exactly that instead of a generic apology.
const BackendUnreachableMessage = "Failed to load jobs. Check that the backend service is reachable."

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Fetcher is the slice of the backend client the controller needs.
type Fetcher interface {
	ListJobs(ctx context.Context, state query.FilterState) (*models.JobListResponse, error)
}

// Snapshot is an immutable view of the controller state at one point in
// time.
type Snapshot struct {
	State       query.FilterState
	Phase       Phase
	Jobs        []models.Job
	TotalCount  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
	ErrMessage  string
}

type Controller struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu          sync.Mutex
	state       query.FilterState
	phase       Phase
	jobs        []models.Job
	totalCount  int
	hasNext     *bool
	hasPrevious *bool
	loaded      bool
	errMessage  string

	// seq orders requests; only the result carrying the latest sequence
	// number may update shared state (last-request-wins).
	seq    uint64
	cancel context.CancelFunc
}

func NewController(fetcher Fetcher, logger *zap.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		logger:  logger,
		state:   query.NewFilterState(),
		phase:   PhaseIdle,
	}
}

// ErrPageOutOfRange is returned when a page navigation targets a page
// outside the known result range. The state is left untouched: the
// navigation is a rejected no-op, not a silent clamp.
var ErrPageOutOfRange = errors.InvalidInput("page out of range", nil)

// Apply moves the controller to the given FilterState and fetches the
// matching page. Changing any filter, the search text or the sort resets
// the page to 1; a page-only change against already-loaded results is
// bounds-checked and rejected with ErrPageOutOfRange when out of range.
//
// Apply is safe for concurrent use. When a newer Apply supersedes this one
// mid-flight, the in-flight request is cancelled and the shared snapshot is
// left to the newer request; the superseded call returns the then-current
// snapshot.
func (c *Controller) Apply(ctx context.Context, incoming query.FilterState) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Controller.Apply")
	defer span.End()

	c.mu.Lock()
	prev := c.state

	if !incoming.EqualFilters(prev) {
		// Changing what you are looking for must never keep you on
		// page 7 of the new result set.
		incoming.Page = 1
	} else if c.loaded && incoming.Page != prev.Page {
		pager := c.pagerLocked()
		if !pager.CanNavigateTo(incoming.Page) {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			c.logger.Warn("rejected page navigation",
				zap.Int("target_page", incoming.Page),
				zap.Int("total_pages", pager.TotalPages()))
			return snap, ErrPageOutOfRange
		}
	}

	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = incoming
	c.phase = PhaseLoading
	c.mu.Unlock()

	span.SetAttributes(
		telemetry.Int("listing.page", incoming.Page),
		telemetry.String("listing.sort", string(incoming.Sort)),
	)

	resp, err := c.fetcher.ListJobs(fetchCtx, incoming)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// A newer request took over while this one was in flight; its
		// result owns the shared state now.
		c.logger.Debug("discarding stale list response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq))
		return c.snapshotLocked(), nil
	}
	cancel()
	c.cancel = nil

	if err != nil {
		span.RecordError(err)
		c.phase = PhaseError
		c.errMessage = BackendUnreachableMessage
		c.logger.Error("list fetch failed", zap.Error(err))
		return c.snapshotLocked(), errors.Unavailable(BackendUnreachableMessage, err)
	}

	c.jobs = resp.Results
	c.totalCount = resp.Count
	hasNext := resp.Next != nil
	hasPrevious := resp.Previous != nil
	c.hasNext = &hasNext
	c.hasPrevious = &hasPrevious
	c.loaded = true
	c.phase = PhaseSuccess
	c.errMessage = ""

	return c.snapshotLocked(), nil
}

// Hydrate loads the initial view from a decoded URL state. Unlike a user
// mutation, a shared URL carries its filters and page together, so the state
// is seeded first and the page is fetched exactly as decoded; an
// out-of-range page simply yields an empty page from the server.
func (c *Controller) Hydrate(ctx context.Context, state query.FilterState) (Snapshot, error) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return c.Apply(ctx, state)
}

// Refetch re-runs the fetch for the current state, used as the retry
// affordance after a failure.
func (c *Controller) Refetch(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	return c.Apply(ctx, state)
}

// ResetToFirstPage re-fetches page 1 with the current filters. A completed
// refresh calls this: new data may have changed what "page 1, sorted by
// score" means.
func (c *Controller) ResetToFirstPage(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	state.Page = 1
	return c.Apply(ctx, state)
}

// Snapshot returns the current controller state without side effects.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) pagerLocked() pagination.Pager {
	return pagination.Pager{
		Page:              c.state.Page,
		PageSize:          c.state.PageSize,
		TotalCount:        c.totalCount,
		ServerHasNext:     c.hasNext,
		ServerHasPrevious: c.hasPrevious,
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	pager := c.pagerLocked()
	return Snapshot{
		State:       c.state,
		Phase:       c.phase,
		Jobs:        c.jobs,
		TotalCount:  c.totalCount,
		TotalPages:  pager.TotalPages(),
		HasNext:     pager.CanGoNext(),
		HasPrevious: pager.CanGoPrevious(),
		ErrMessage:  c.errMessage,
	}
}
