package enrich

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NoData is the sentinel bucket for zones without a recommendation or a known pattern.
const NoData = "No Data"

// ZoneBoundary is one administrative zone from the boundary dataset.
type ZoneBoundary struct {
	Name           string          `json:"name"`
	NormalizedName string          `json:"normalized_name"`
	Geometry       json.RawMessage `json:"geometry"`
}

// Recommendation is one row of the recommendation table.
type Recommendation struct {
	Area                   string `json:"area"`
	NormalizedArea         string `json:"normalized_area"`
	JoinKey                string `json:"join_key"`
	Aliased                bool   `json:"aliased"`
	UnitType               string `json:"unit_type"`
	Rooms                  string `json:"rooms"`
	Quarter                string `json:"quarter"`
	PatternID              string `json:"pattern_id"`
	InsightInvestor        string `json:"insight_investor"`
	RecommendationInvestor string `json:"recommendation_investor"`
	InsightEndUser         string `json:"insight_enduser"`
	RecommendationEndUser  string `json:"recommendation_enduser"`
}

// Filter is the equality selection applied to the recommendation table.
type Filter struct {
	UnitType string `json:"unit_type"`
	Rooms    string `json:"rooms"`
	Quarter  string `json:"quarter"`
}

// Matches reports whether a recommendation row satisfies all three predicates.
func (f Filter) Matches(r Recommendation) bool {
	return r.UnitType == f.UnitType && r.Rooms == f.Rooms && r.Quarter == f.Quarter
}

// Canonical returns the filter with the rooms value canonicalized.
func (f Filter) Canonical() Filter {
	return Filter{
		UnitType: strings.TrimSpace(f.UnitType),
		Rooms:    CanonicalRooms(f.Rooms),
		Quarter:  strings.TrimSpace(f.Quarter),
	}
}

// String renders the filter for logs and cache keys.
func (f Filter) String() string {
	return f.UnitType + "|" + f.Rooms + "|" + f.Quarter
}

// ViewMode selects which audience's insight and recommendation text is shown.
type ViewMode string

const (
	Investor ViewMode = "Investor"
	EndUser  ViewMode = "EndUser"
)

// ViewModes lists the supported modes in display order.
var ViewModes = []ViewMode{Investor, EndUser}

// ParseViewMode accepts the mode names used by the map UI ("Investor", "End User", "enduser").
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.Join(strings.Fields(s), "")) {
	case "", "investor":
		return Investor, nil
	case "enduser", "end_user", "end-user":
		return EndUser, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// EnrichedZone is a boundary zone joined with at most one recommendation row.
type EnrichedZone struct {
	Geometry       json.RawMessage `json:"-"`
	DisplayName    string          `json:"display_name"`
	NormalizedName string          `json:"normalized_name"`
	PatternID      string          `json:"pattern_id"`
	Insight        string          `json:"insight"`
	Recommendation string          `json:"recommendation"`
	Bucket         string          `json:"bucket"`
	Color          string          `json:"color"`
	Matched        bool            `json:"matched"`
}

// Result is the output of one enrichment pass.
type Result struct {
	Filter    Filter         `json:"filter"`
	Mode      ViewMode       `json:"mode"`
	Zones     []EnrichedZone `json:"zones"`
	Matched   int            `json:"matched"`
	Unmatched int            `json:"unmatched"`
}

// Empty reports whether no zone carries recommendation data for the filter.
func (r Result) Empty() bool {
	return r.Matched == 0
}
