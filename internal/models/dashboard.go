package models

import (
	"time"
)

type DashboardStats struct {
	TotalJobs       int        `json:"total_jobs"`
	RecommendedJobs int        `json:"recommended_jobs"`
	MeetsMinimum    int        `json:"meets_minimum"`
	LastScrapeDate  *time.Time `json:"last_scrape_date"`
	LastEmailDate   *time.Time `json:"last_email_date"`
	TopJobs         []Job      `json:"top_jobs"`
	RecentJobs      []Job      `json:"recent_jobs"`
}

// RefreshResponse is the payload of the backend's daily-refresh endpoint.
type RefreshResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AddedNewJobs int    `json:"added_new_jobs"`
}
