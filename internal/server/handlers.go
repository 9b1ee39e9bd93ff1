package server

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/miasdk/job-finder-frontend/internal/errors"
	"github.com/miasdk/job-finder-frontend/internal/listing"
	"github.com/miasdk/job-finder-frontend/internal/models"
	"github.com/miasdk/job-finder-frontend/internal/query"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// submitParam marks a request as an explicit search submission. Those get
// push history semantics so the back button undoes them; plain filter edits
// replace the current entry instead of consuming the back stack.
const submitParam = "submit"

type jobsResponse struct {
	Count       int          `json:"count"`
	TotalPages  int          `json:"total_pages"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	HasNext     bool         `json:"has_next"`
	HasPrevious bool         `json:"has_previous"`
	Phase       string       `json:"phase"`
	Results     []models.Job `json:"results"`
	Error       string       `json:"error,omitempty"`

	CanonicalQuery string `json:"canonical_query"`
	History        string `json:"history"`
}

func historyMode(c *gin.Context) query.HistoryMode {
	if c.Query(submitParam) != "" {
		return query.HistoryPush
	}
	return query.HistoryReplace
}

func toJobsResponse(snap listing.Snapshot, history query.HistoryMode) jobsResponse {
	resp := jobsResponse{
		Count:          snap.TotalCount,
		TotalPages:     snap.TotalPages,
		Page:           snap.State.Page,
		PageSize:       snap.State.PageSize,
		HasNext:        snap.HasNext,
		HasPrevious:    snap.HasPrevious,
		Phase:          string(snap.Phase),
		Results:        snap.Jobs,
		Error:          snap.ErrMessage,
		CanonicalQuery: query.Encode(snap.State).Encode(),
		History:        "replace",
	}
	if resp.Results == nil {
		resp.Results = []models.Job{}
	}
	if history == query.HistoryPush {
		resp.History = "push"
	}
	return resp
}

func (s *Server) listJobs(c *gin.Context) {
	state := query.Decode(c.Request.URL.Query())

	snap, err := s.controller.Apply(c.Request.Context(), state)
	if err != nil {
		if errors.Is(err, listing.ErrPageOutOfRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page out of range"})
			return
		}
		// The snapshot still carries the last good results plus the
		// user-facing error message; serve it with a gateway status.
		c.JSON(http.StatusBadGateway, toJobsResponse(snap, historyMode(c)))
		return
	}

	c.JSON(http.StatusOK, toJobsResponse(snap, historyMode(c)))
}

func (s *Server) getJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := s.client.GetJob(c.Request.Context(), id)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		s.logger.Error("failed to fetch job", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch job from the backend"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (s *Server) dashboard(c *gin.Context) {
	stats, err := s.client.GetDashboardStats(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to fetch dashboard stats", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch dashboard stats from the backend"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) getPreferences(c *gin.Context) {
	prefs, err := s.client.GetPreferences(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to fetch preferences", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch preferences from the backend"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) updatePreferences(c *gin.Context) {
	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences payload"})
		return
	}

	updated, err := s.client.UpdatePreferences(c.Request.Context(), &prefs)
	if err != nil {
		s.logger.Error("failed to update preferences", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update preferences on the backend"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "preferences": updated})
}

func (s *Server) triggerRefresh(c *gin.Context) {
	outcome := s.refresher.Trigger(c.Request.Context())

	status := http.StatusOK
	if !outcome.Succeeded {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"success":        outcome.Succeeded,
		"added_new_jobs": outcome.AddedJobs,
		"message":        outcome.UserMessage(),
		"reason":         string(outcome.Reason),
	})
}
