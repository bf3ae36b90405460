package moderation

import (
	"time"

	"art-catalog-app/internal/domain/diff"
	"art-catalog-app/internal/domain/match"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

const (
	TypePublicArt    = "public_art"
	TypeLogbookEntry = "logbook_entry"
)

// Submission is a contributor-proposed artwork sighting or logbook visit
// awaiting moderation.
type Submission struct {
	ID        string   `json:"id"`
	ArtworkID string   `json:"artwork_id,omitempty"`
	Title     string   `json:"title,omitempty"`
	Note      string   `json:"note,omitempty"`
	Photos    []string `json:"photos"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Type      string           `json:"type"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UserToken string           `json:"user_token"`
	Priority  Priority         `json:"priority"`

	NearbyArtworks []match.Candidate `json:"nearby_artworks"`
}

// ArtworkEditReviewData is one logical edit group against an artwork:
// one or more field changes submitted together and resolved atomically.
// Diffs is non-empty and each field name appears once per group; the
// first edit id is the group's representative key.
type ArtworkEditReviewData struct {
	ArtworkID   string           `json:"artwork_id"`
	EditIDs     []string         `json:"edit_ids"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Diffs       []diff.FieldDiff `json:"diffs"`
}

// Key is the representative edit id the whole group is resolved by.
func (e ArtworkEditReviewData) Key() string {
	if len(e.EditIDs) == 0 {
		return ""
	}
	return e.EditIDs[0]
}

// ArtistEditReviewData mirrors ArtworkEditReviewData for artist records.
// ID is guaranteed at decode time even when the backend only supplies it
// inside edit_ids[0].
type ArtistEditReviewData struct {
	ID          string           `json:"id"`
	ArtistID    string           `json:"artist_id"`
	EditIDs     []string         `json:"edit_ids"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Diffs       []diff.FieldDiff `json:"diffs"`
}

type FeedbackStatus string

const (
	FeedbackOpen     FeedbackStatus = "open"
	FeedbackResolved FeedbackStatus = "resolved"
	FeedbackArchived FeedbackStatus = "archived"
)

type FeedbackAction string

const (
	FeedbackActionResolve FeedbackAction = "resolve"
	FeedbackActionArchive FeedbackAction = "archive"
)

// FeedbackRecord is free-text feedback on an artwork or artist record.
// Open records move to resolved or archived, both terminal.
type FeedbackRecord struct {
	ID          string         `json:"id"`
	SubjectType string         `json:"subject_type"` // artwork | artist
	SubjectID   string         `json:"subject_id"`
	IssueType   string         `json:"issue_type"` // missing | incorrect_info | other | comment
	Note        string         `json:"note"`
	Status      FeedbackStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}
