// Package query defines the canonical filter state for job listings and its
// bidirectional mapping to URL query parameters.
package query

type LocationType string

const (
	LocationRemote LocationType = "remote"
	LocationHybrid LocationType = "hybrid"
	LocationOnsite LocationType = "onsite"
)

func ParseLocationType(s string) (LocationType, bool) {
	switch LocationType(s) {
	case LocationRemote, LocationHybrid, LocationOnsite:
		return LocationType(s), true
	}
	return "", false
}

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

func ParseExperienceLevel(s string) (ExperienceLevel, bool) {
	switch ExperienceLevel(s) {
	case ExperienceEntry, ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceLead:
		return ExperienceLevel(s), true
	}
	return "", false
}

type Sort string

const (
	SortScore      Sort = "score"
	SortRecent     Sort = "recent"
	SortSalaryDesc Sort = "salary_desc"
	SortTitleAsc   Sort = "title_asc"
)

func ParseSort(s string) (Sort, bool) {
	switch Sort(s) {
	case SortScore, SortRecent, SortSalaryDesc, SortTitleAsc:
		return Sort(s), true
	}
	return "", false
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// FilterState is the user's current search, filter, sort and pagination
// selection. Zero string fields and zero MinSalary mean "not set".
type FilterState struct {
	Search          string
	LocationType    LocationType
	ExperienceLevel ExperienceLevel
	MinSalary       int
	Source          string
	Sort            Sort
	Page            int
	PageSize        int
}

// NewFilterState returns a FilterState with all fields at their defaults.
func NewFilterState() FilterState {
	return FilterState{
		Sort:     SortScore,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// EqualFilters reports whether two states select the same result set,
// ignoring pagination. A change in any of these fields invalidates the
// current page position.
func (f FilterState) EqualFilters(other FilterState) bool {
	return f.Search == other.Search &&
		f.LocationType == other.LocationType &&
		f.ExperienceLevel == other.ExperienceLevel &&
		f.MinSalary == other.MinSalary &&
		f.Source == other.Source &&
		f.Sort == other.Sort
}
