package moderation

import (
	"sort"
	"strings"
	"sync"
)

// PageSize is the fixed review queue page size.
const PageSize = 6

type Tab string

const (
	TabSubmissions  Tab = "submissions"
	TabArtworkEdits Tab = "artwork-edits"
	TabArtistEdits  Tab = "artist-edits"
	TabFeedback     Tab = "feedback"
)

type SortMode string

const (
	SortNewest   SortMode = "newest"
	SortPriority SortMode = "priority"
)

// ViewState tracks the reviewer's tab, search term, sort mode and the
// independent per-tab page counters. Changing tab or search resets the
// affected counters to 1.
type ViewState struct {
	mu     sync.Mutex
	tab    Tab
	search string
	sort   SortMode
	pages  map[Tab]int
}

func NewViewState() ViewState {
	return ViewState{
		tab:   TabSubmissions,
		sort:  SortNewest,
		pages: map[Tab]int{},
	}
}

func (v *ViewState) Tab() Tab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tab
}

func (v *ViewState) SetTab(t Tab) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.tab != t {
		v.pages[t] = 1
	}
	v.tab = t
}

func (v *ViewState) Search() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

// SetSearch resets every page counter: the search scopes all tabs.
func (v *ViewState) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.search != term {
		v.pages = map[Tab]int{}
	}
	v.search = term
}

func (v *ViewState) Sort() SortMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sort == "" {
		return SortNewest
	}
	return v.sort
}

func (v *ViewState) SetSort(m SortMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = m
}

func (v *ViewState) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p, ok := v.pages[v.tab]; ok && p > 0 {
		return p
	}
	return 1
}

func (v *ViewState) SetPage(p int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p < 1 {
		p = 1
	}
	v.pages[v.tab] = p
}

// FilterSubmissions is the pure read path over the submission list.
// Without a search term only pending items are shown. A non-empty
// id/uuid search widens the scope to every status, so a deep link still
// finds an item whose status already changed, with pending items sorted
// ahead of resolved ones. The secondary order is high-priority-first
// under SortPriority, otherwise newest-first. Both orders are stable.
func FilterSubmissions(items []Submission, search string, mode SortMode) []Submission {
	search = strings.TrimSpace(strings.ToLower(search))

	out := make([]Submission, 0, len(items))
	for _, s := range items {
		if search == "" {
			if s.Status == StatusPending {
				out = append(out, s)
			}
			continue
		}
		if strings.Contains(strings.ToLower(s.ID), search) ||
			strings.Contains(strings.ToLower(s.ArtworkID), search) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if search != "" {
			aPending := a.Status == StatusPending
			bPending := b.Status == StatusPending
			if aPending != bPending {
				return aPending
			}
		}
		if mode == SortPriority {
			aHigh := a.Priority == PriorityHigh
			bHigh := b.Priority == PriorityHigh
			if aHigh != bHigh {
				return aHigh
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return out
}

// Paginate slices one fixed-size page out of the filtered set.
// Pages are 1-based; an out-of-range page yields an empty slice.
func Paginate[T any](items []T, page int) (pageItems []T, totalPages int) {
	totalPages = (len(items) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}
