package models

import (
	"time"
)

type Company struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Website     string `json:"website,omitempty"`
	CompanyType string `json:"company_type"`
}

type JobScore struct {
	ID                       int       `json:"id"`
	Job                      int       `json:"job"`
	SkillsScore              float64   `json:"skills_score"`
	ExperienceScore          float64   `json:"experience_score"`
	LocationScore            float64   `json:"location_score"`
	SalaryScore              float64   `json:"salary_score"`
	CompanyScore             float64   `json:"company_score"`
	TotalScore               float64   `json:"total_score"`
	MatchingSkills           []string  `json:"matching_skills"`
	MissingSkills            []string  `json:"missing_skills"`
	MeetsMinimumRequirements bool      `json:"meets_minimum_requirements"`
	RecommendedForApp        bool      `json:"recommended_for_application"`
	ScoredAt                 time.Time `json:"scored_at"`
}

type Job struct {
	ID                   int       `json:"id"`
	Title                string    `json:"title"`
	Company              Company   `json:"company"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	LocationType         string    `json:"location_type"`
	Source               string    `json:"source"`
	SourceURL            string    `json:"source_url"`
	RequiredSkills       []string  `json:"required_skills"`
	SalaryMin            *int      `json:"salary_min,omitempty"`
	SalaryMax            *int      `json:"salary_max,omitempty"`
	ExperienceLevel      string    `json:"experience_level"`
	PostedDate           time.Time `json:"posted_date"`
	ScrapedAt            time.Time `json:"scraped_at"`
	IsEntryLevelFriendly bool      `json:"is_entry_level_friendly"`
	EmploymentType       string    `json:"employment_type"`
	IsActive             bool      `json:"is_active"`
	Score                *JobScore `json:"score,omitempty"`
}

// JobListResponse is the paginated envelope the backend returns for job
// listings. Next and Previous are link URLs; nil means no such page.
type JobListResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Job   `json:"results"`
}
