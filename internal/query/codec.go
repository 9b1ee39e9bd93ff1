package query

import (
	"net/url"
	"strconv"
)

const (
	paramSearch          = "search"
	paramLocationType    = "location_type"
	paramExperienceLevel = "experience_level"
	paramMinSalary       = "min_salary"
	paramSource          = "source"
	paramSort            = "sort"
	paramPage            = "page"
	paramPageSize        = "page_size"
)

// HistoryMode tells the address-bar writer whether a state change should
// replace the current history entry or push a new one. Filter edits replace
// so the back button is not consumed by keystrokes; explicit search
// submissions push so the back button undoes them.
type HistoryMode int

const (
	HistoryReplace HistoryMode = iota
	HistoryPush
)

// Decode parses recognized query parameters into a FilterState. Malformed
// or out-of-domain values are dropped silently and the field keeps its
// default; a stale shared URL degrades to defaults instead of failing.
func Decode(values url.Values) FilterState {
	state := NewFilterState()

	if v := values.Get(paramSearch); v != "" {
		state.Search = v
	}
	if v := values.Get(paramLocationType); v != "" {
		if lt, ok := ParseLocationType(v); ok {
			state.LocationType = lt
		}
	}
	if v := values.Get(paramExperienceLevel); v != "" {
		if el, ok := ParseExperienceLevel(v); ok {
			state.ExperienceLevel = el
		}
	}
	if v := values.Get(paramMinSalary); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			state.MinSalary = n
		}
	}
	if v := values.Get(paramSource); v != "" {
		state.Source = v
	}
	if v := values.Get(paramSort); v != "" {
		if s, ok := ParseSort(v); ok {
			state.Sort = s
		}
	}
	if v := values.Get(paramPage); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			state.Page = n
		}
	}
	if v := values.Get(paramPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			state.PageSize = n
		}
	}

	return state
}

// Encode serializes a FilterState into query parameters, emitting only
// non-default, non-empty fields so encoded URLs stay minimal and shareable.
// Decode(Encode(s)) == s holds for any s whose fields are in-domain.
func Encode(state FilterState) url.Values {
	values := url.Values{}

	if state.Search != "" {
		values.Set(paramSearch, state.Search)
	}
	if state.LocationType != "" {
		values.Set(paramLocationType, string(state.LocationType))
	}
	if state.ExperienceLevel != "" {
		values.Set(paramExperienceLevel, string(state.ExperienceLevel))
	}
	if state.MinSalary > 0 {
		values.Set(paramMinSalary, strconv.Itoa(state.MinSalary))
	}
	if state.Source != "" {
		values.Set(paramSource, state.Source)
	}
	if state.Sort != "" && state.Sort != SortScore {
		values.Set(paramSort, string(state.Sort))
	}
	if state.Page > DefaultPage {
		values.Set(paramPage, strconv.Itoa(state.Page))
	}
	if state.PageSize > 0 && state.PageSize != DefaultPageSize {
		values.Set(paramPageSize, strconv.Itoa(state.PageSize))
	}

	return values
}
