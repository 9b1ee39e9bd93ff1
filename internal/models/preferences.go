package models

type UserPreferences struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Skills             []string `json:"skills"`
	ExperienceLevels   []string `json:"experience_levels"`
	PreferredLocations []string `json:"preferred_locations"`
	LocationTypes      []string `json:"location_types"`
	JobTitles          []string `json:"job_titles"`
	PreferredCompanies []string `json:"preferred_companies"`
	MinSalary          int      `json:"min_salary"`
}

// PreferencesUpdateResponse wraps the record the backend echoes back after
// a successful preferences write.
type PreferencesUpdateResponse struct {
	Success     bool            `json:"success"`
	Preferences UserPreferences `json:"preferences"`
}
