package upstream

import (
	"time"

	"art-catalog-app/internal/domain/moderation"
)

// Envelope types for each consumed endpoint. Fields the workflow never
// reads are omitted on purpose; anything that *is* read gets shaped and
// normalized here, once.

type pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	HasMore    bool `json:"has_more"`
	TotalPages int  `json:"total_pages"`
}

type submissionsEnvelope struct {
	Submissions []moderation.Submission `json:"submissions"`
	Pagination  pagination              `json:"pagination"`
}

type artworkEditsEnvelope struct {
	Edits []moderation.ArtworkEditReviewData `json:"edits"`
}

type artistEditsEnvelope struct {
	Edits []moderation.ArtistEditReviewData `json:"edits"`
}

// normalizeArtistEdits guarantees a top-level id on every artist edit
// group; some backend versions only carry it inside edit_ids.
func normalizeArtistEdits(edits []moderation.ArtistEditReviewData) []moderation.ArtistEditReviewData {
	for i := range edits {
		if edits[i].ID == "" && len(edits[i].EditIDs) > 0 {
			edits[i].ID = edits[i].EditIDs[0]
		}
	}
	return edits
}

type feedbackEnvelope struct {
	Feedback []moderation.FeedbackRecord `json:"feedback"`
	Total    int                         `json:"total"`
	Page     int                         `json:"page"`
	PerPage  int                         `json:"per_page"`
	HasMore  bool                        `json:"has_more"`
}

type statisticsEnvelope struct {
	StatusCounts struct {
		Pending  int `json:"pending"`
		Approved int `json:"approved"`
		Rejected int `json:"rejected"`
	} `json:"status_counts"`
	RecentActivity []struct {
		Date   string `json:"date"`
		Status string `json:"status"`
		Count  int    `json:"count"`
	} `json:"recent_activity"`
}

// toStatistics folds the raw counter payload into the dashboard block,
// deriving the today counters from the activity rows matching now's
// date.
func (e statisticsEnvelope) toStatistics(now time.Time) moderation.Statistics {
	today := now.Format("2006-01-02")
	stats := moderation.Statistics{
		Pending: e.StatusCounts.Pending,
		Total:   e.StatusCounts.Pending + e.StatusCounts.Approved + e.StatusCounts.Rejected,
	}
	for _, row := range e.RecentActivity {
		if row.Date != today {
			continue
		}
		switch row.Status {
		case "approved":
			stats.ApprovedToday += row.Count
		case "rejected":
			stats.RejectedToday += row.Count
		}
	}
	return stats
}

type nearbyEnvelope struct {
	Artworks []struct {
		ID        string  `json:"id"`
		Distance  float64 `json:"distance"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"artworks"`
}

type artworkEnvelope struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CreatedBy   string            `json:"created_by"`
	Tags        map[string]string `json:"tags"`
}
