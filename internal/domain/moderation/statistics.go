package moderation

// Statistics is the reviewer dashboard counter block. It is a UI
// convenience cache, not a source of truth: a full reload replaces it
// wholesale, and between reloads it is adjusted optimistically on each
// successful transition. Counters never go below zero.
type Statistics struct {
	Pending       int `json:"pending"`
	ApprovedToday int `json:"approvedToday"`
	RejectedToday int `json:"rejectedToday"`
	Total         int `json:"total"`
}

func (s *Statistics) noteApproved() {
	s.ApprovedToday++
	s.Pending = clampZero(s.Pending - 1)
}

func (s *Statistics) noteRejected() {
	s.RejectedToday++
	s.Pending = clampZero(s.Pending - 1)
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
