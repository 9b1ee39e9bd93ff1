package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/miasdk/job-finder-frontend/internal/config"
	"github.com/miasdk/job-finder-frontend/internal/errors"
	"github.com/miasdk/job-finder-frontend/internal/models"
	"github.com/miasdk/job-finder-frontend/internal/query"
	"github.com/miasdk/job-finder-frontend/internal/store"
	"github.com/miasdk/job-finder-frontend/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("job-finder-frontend/api")

const dashboardStatsKey = "dashboard:stats"

// StatusError is returned when the backend answers with a non-2xx status.
// It carries the status code and raw body so callers can classify the
// failure and surface the backend's own message.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// BackendClient talks to the external job-scraping backend. Every method
// maps one REST endpoint; the backend remains the source of truth for all
// job data.
type BackendClient interface {
	ListJobs(ctx context.Context, state query.FilterState) (*models.JobListResponse, error)
	GetJob(ctx context.Context, id int) (*models.Job, error)
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	GetPreferences(ctx context.Context) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error)
	DailyRefresh(ctx context.Context) (*models.RefreshResponse, error)
}

type backendClient struct {
	client  *http.Client
	logger  *zap.Logger
	baseURL string
	store   store.Store
	config  *config.Config
}

func NewBackendClient(logger *zap.Logger, cfg *config.Config, st store.Store) BackendClient {
	return &backendClient{
		client: &http.Client{
			Timeout: cfg.BackendTimeout,
		},
		logger:  logger,
		baseURL: cfg.BackendBaseURL,
		store:   st,
		config:  cfg,
	}
}

func (c *backendClient) ListJobs(ctx context.Context, state query.FilterState) (*models.JobListResponse, error) {
	ctx, span := tracer.Start(ctx, "ListJobs")
	defer span.End()

	params := query.Encode(state)
	params.Set("page", strconv.Itoa(state.Page))
	params.Set("page_size", strconv.Itoa(state.PageSize))
	params.Set("sort", string(state.Sort))

	url := fmt.Sprintf("%s/api/jobs/?%s", c.baseURL, params.Encode())
	span.SetAttributes(
		telemetry.String("http.url", url),
		telemetry.Int("jobs.page", state.Page),
		telemetry.Int("jobs.page_size", state.PageSize),
	)
	c.logger.Debug("fetching job listing",
		zap.String("url", url),
		zap.Int("page", state.Page))

	var listing models.JobListResponse
	if err := c.getJSON(ctx, url, &listing); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		telemetry.Int("jobs.count", listing.Count),
		telemetry.Int("jobs.results", len(listing.Results)),
	)
	c.logger.Debug("fetched job listing",
		zap.Int("count", listing.Count),
		zap.Int("results", len(listing.Results)))
	return &listing, nil
}

func (c *backendClient) GetJob(ctx context.Context, id int) (*models.Job, error) {
	ctx, span := tracer.Start(ctx, "GetJob")
	defer span.End()
	span.SetAttributes(telemetry.Int("job.id", id))

	url := fmt.Sprintf("%s/api/jobs/%d/", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Internal("creating request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("failed to execute request", zap.Int("id", id), zap.Error(err))
		return nil, errors.Unavailable("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warn("job not found", zap.Int("id", id))
		return nil, errors.NotFound("job not found", nil)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status code",
			zap.Int("id", id),
			zap.Int("status_code", resp.StatusCode))
		return nil, errors.Internal(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	var job models.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		c.logger.Error("failed to decode response", zap.Int("id", id), zap.Error(err))
		return nil, errors.Internal("decoding response", err)
	}

	return &job, nil
}

func (c *backendClient) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, span := tracer.Start(ctx, "GetDashboardStats")
	defer span.End()

	cached, err := c.store.Get(ctx, dashboardStatsKey)
	if err == nil {
		var stats models.DashboardStats
		if uerr := json.Unmarshal([]byte(cached), &stats); uerr == nil {
			span.SetAttributes(telemetry.String("cache.result", "hit"))
			c.logger.Debug("cache hit for dashboard stats")
			return &stats, nil
		}
		c.logger.Warn("discarding unreadable cached dashboard stats")
	} else if err != store.ErrNotFound {
		span.SetAttributes(telemetry.String("cache.result", "error"))
		span.RecordError(err)
		c.logger.Warn("store error for dashboard stats", zap.Error(err))
	} else {
		span.SetAttributes(telemetry.String("cache.result", "miss"))
	}

	url := fmt.Sprintf("%s/api/dashboard/", c.baseURL)
	var stats models.DashboardStats
	if err := c.getJSON(ctx, url, &stats); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if data, merr := json.Marshal(&stats); merr == nil {
		if serr := c.store.Set(ctx, dashboardStatsKey, string(data), c.config.StatsCacheTTL); serr != nil {
			c.logger.Warn("failed to cache dashboard stats", zap.Error(serr))
		}
	}

	return &stats, nil
}

func (c *backendClient) GetPreferences(ctx context.Context) (*models.UserPreferences, error) {
	ctx, span := tracer.Start(ctx, "GetPreferences")
	defer span.End()

	url := fmt.Sprintf("%s/api/preferences/", c.baseURL)
	var prefs models.UserPreferences
	if err := c.getJSON(ctx, url, &prefs); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &prefs, nil
}

func (c *backendClient) UpdatePreferences(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error) {
	ctx, span := tracer.Start(ctx, "UpdatePreferences")
	defer span.End()

	body, err := json.Marshal(prefs)
	if err != nil {
		return nil, errors.Internal("marshaling preferences", err)
	}

	url := fmt.Sprintf("%s/api/preferences/update/", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Internal("creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("failed to execute request", zap.Error(err))
		return nil, errors.Unavailable("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status code", zap.Int("status_code", resp.StatusCode))
		return nil, errors.Internal(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	var update models.PreferencesUpdateResponse
	if err := json.NewDecoder(resp.Body).Decode(&update); err != nil {
		c.logger.Error("failed to decode response", zap.Error(err))
		return nil, errors.Internal("decoding response", err)
	}

	return &update.Preferences, nil
}

// DailyRefresh triggers the backend's long-running scrape. The caller owns
// the deadline; this method only relays the outcome. A non-2xx answer comes
// back as *StatusError so the refresh service can classify it.
func (c *backendClient) DailyRefresh(ctx context.Context) (*models.RefreshResponse, error) {
	ctx, span := tracer.Start(ctx, "DailyRefresh")
	defer span.End()

	url := fmt.Sprintf("%s/api/daily-refresh/", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, errors.Internal("creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// The shared client carries a short timeout sized for list fetches;
	// the refresh can run for minutes, so it rides on ctx alone.
	refreshClient := &http.Client{}

	resp, err := refreshClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		span.SetAttributes(telemetry.Int("http.status_code", resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result models.RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Error("failed to decode refresh response", zap.Error(err))
		return nil, errors.Internal("decoding response", err)
	}

	return &result, nil
}

func (c *backendClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Internal("creating request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("failed to execute request", zap.String("url", url), zap.Error(err))
		return errors.Unavailable("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status code",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode))
		return errors.Internal(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("failed to decode response", zap.String("url", url), zap.Error(err))
		return errors.Internal("decoding response", err)
	}

	return nil
}
