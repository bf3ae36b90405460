package review

import (
	"time"

	"art-catalog-app/internal/domain/diff"
	"art-catalog-app/internal/domain/moderation"
)

// ---------- requests

type ApproveSubmissionRequest struct {
	// "create_new" or "link_existing"; ignored when the matcher decides
	// automatically (logbook visits to a known artwork).
	Action string `json:"action"`
}

type RejectSubmissionRequest struct {
	// nil means the reviewer cancelled the reason prompt: no transition
	// happens. An empty string is a confirmed rejection without comment.
	Reason *string `json:"reason"`
}

type FlagSubmissionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type FeedbackReviewRequest struct {
	Action      string `json:"action" binding:"required"` // resolve | archive
	ReviewNotes string `json:"review_notes"`
}

// ---------- responses

type EditGroupDTO struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subject_id"`
	EditIDs     []string  `json:"edit_ids"`
	SubmittedAt time.Time `json:"submitted_at"`
	Diffs       []diffDTO `json:"diffs"`
	Summary     string    `json:"summary"`
}

type diffDTO struct {
	FieldName     string `json:"field_name"`
	FieldLabel    string `json:"field_label"`
	FieldValueOld string `json:"field_value_old"`
	FieldValueNew string `json:"field_value_new"`
}

func toDiffDTOs(diffs []diff.FieldDiff) []diffDTO {
	out := make([]diffDTO, 0, len(diffs))
	for _, d := range diffs {
		out = append(out, diffDTO{
			FieldName:     d.FieldName,
			FieldLabel:    diff.Label(d.FieldName),
			FieldValueOld: d.FieldValueOld,
			FieldValueNew: d.FieldValueNew,
		})
	}
	return out
}

func toArtworkEditDTO(e moderation.ArtworkEditReviewData) EditGroupDTO {
	return EditGroupDTO{
		ID:          e.Key(),
		SubjectID:   e.ArtworkID,
		EditIDs:     e.EditIDs,
		SubmittedAt: e.SubmittedAt,
		Diffs:       toDiffDTOs(e.Diffs),
		Summary:     diff.Summary(e.Diffs),
	}
}

func toArtistEditDTO(e moderation.ArtistEditReviewData) EditGroupDTO {
	return EditGroupDTO{
		ID:          e.ID,
		SubjectID:   e.ArtistID,
		EditIDs:     e.EditIDs,
		SubmittedAt: e.SubmittedAt,
		Diffs:       toDiffDTOs(e.Diffs),
		Summary:     diff.Summary(e.Diffs),
	}
}

type QueueResponse struct {
	Tab        string                `json:"tab"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Statistics moderation.Statistics `json:"statistics"`
	// Id of the item with a transition in flight, if any; the UI
	// disables that item's action buttons.
	ProcessingID string `json:"processing_id,omitempty"`

	Submissions []moderation.Submission     `json:"submissions,omitempty"`
	Edits       []EditGroupDTO              `json:"edits,omitempty"`
	Feedback    []moderation.FeedbackRecord `json:"feedback,omitempty"`
}
