package match

import (
	"math"
	"sort"
	"sync"
)

// SearchState tracks the contributor-side nearby search. The redirect to
// the create-new form fires at most once per session: the check-and-set
// in ShouldRedirectToCreate is atomic, so concurrent empty searches
// cannot both claim the redirect.
type SearchState struct {
	mu         sync.Mutex
	loading    bool
	executed   bool
	results    []Candidate
	redirected bool
}

// SetResults records a completed search.
func (s *SearchState) SetResults(results []Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.executed = true
	s.results = results
}

// BeginSearch marks a search as in flight, suppressing the redirect
// until its results land.
func (s *SearchState) BeginSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
}

// AbortSearch clears the in-flight flag after a failed search without
// counting it as executed.
func (s *SearchState) AbortSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// ShouldRedirectToCreate reports whether the flow should move the
// contributor to the create-new form. True exactly once, and only after
// a search confirmed zero nearby results.
func (s *SearchState) ShouldRedirectToCreate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading || !s.executed || s.redirected {
		return false
	}
	if len(s.results) > 0 {
		return false
	}
	s.redirected = true
	return true
}

const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance in metres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// RankByDistance fills in missing candidate distances from the given
// origin and orders the slice closest first. Used when the upstream
// search returns positions but no distances.
func RankByDistance(lat, lon float64, candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		if ranked[i].Distance == 0 {
			ranked[i].Distance = Haversine(lat, lon, ranked[i].Latitude, ranked[i].Longitude)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}
