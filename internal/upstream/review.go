package upstream

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"art-catalog-app/internal/domain/diff"
	"art-catalog-app/internal/domain/match"
	"art-catalog-app/internal/domain/moderation"
)

// Reviewer-side endpoints. Client satisfies moderation.Backend.

func (c *Client) ListSubmissions(ctx context.Context, status string, page, perPage int) ([]moderation.Submission, error) {
	q := url.Values{}
	q.Set("status", status)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var env submissionsEnvelope
	if err := c.get(ctx, "/review/submissions", q, &env); err != nil {
		return nil, err
	}
	return env.Submissions, nil
}

type approveBody struct {
	Action    match.Action `json:"action"`
	ArtworkID string       `json:"artwork_id,omitempty"`
}

func (c *Client) ApproveSubmission(ctx context.Context, id string, action match.Action, artworkID string) error {
	return c.post(ctx, "/review/submissions/"+id+"/approve", approveBody{Action: action, ArtworkID: artworkID}, nil)
}

func (c *Client) RejectSubmission(ctx context.Context, id, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	return c.post(ctx, "/review/submissions/"+id+"/reject", body, nil)
}

func (c *Client) FlagSubmission(ctx context.Context, id, reason string) error {
	return c.post(ctx, "/review/submissions/"+id+"/flag", map[string]string{"reason": reason}, nil)
}

func (c *Client) ListArtworkEdits(ctx context.Context, page, perPage int) ([]moderation.ArtworkEditReviewData, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var env artworkEditsEnvelope
	if err := c.get(ctx, "/review/artwork-edits", q, &env); err != nil {
		return nil, err
	}
	return env.Edits, nil
}

func (c *Client) ResolveArtworkEdit(ctx context.Context, editID string, approve bool) error {
	return c.post(ctx, "/review/artwork-edits/"+editID+"/"+resolvePath(approve), nil, nil)
}

func (c *Client) ListArtistEdits(ctx context.Context, page, perPage int) ([]moderation.ArtistEditReviewData, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var env artistEditsEnvelope
	if err := c.get(ctx, "/review/artist-edits", q, &env); err != nil {
		return nil, err
	}
	return normalizeArtistEdits(env.Edits), nil
}

func (c *Client) ResolveArtistEdit(ctx context.Context, editID string, approve bool) error {
	return c.post(ctx, "/review/artist-edits/"+editID+"/"+resolvePath(approve), nil, nil)
}

func resolvePath(approve bool) string {
	if approve {
		return "approve"
	}
	return "reject"
}

func (c *Client) ListFeedback(ctx context.Context, status string, page, perPage int) ([]moderation.FeedbackRecord, error) {
	q := url.Values{}
	q.Set("status", status)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var env feedbackEnvelope
	if err := c.get(ctx, "/moderation/feedback", q, &env); err != nil {
		return nil, err
	}
	return env.Feedback, nil
}

type feedbackReviewBody struct {
	Action      moderation.FeedbackAction `json:"action"`
	ReviewNotes string                    `json:"review_notes,omitempty"`
}

func (c *Client) ReviewFeedback(ctx context.Context, id string, action moderation.FeedbackAction, notes string) error {
	return c.post(ctx, "/moderation/feedback/"+id+"/review", feedbackReviewBody{Action: action, ReviewNotes: notes}, nil)
}

func (c *Client) Statistics(ctx context.Context) (moderation.Statistics, error) {
	var env statisticsEnvelope
	if err := c.get(ctx, "/review/statistics", nil, &env); err != nil {
		return moderation.Statistics{}, err
	}
	return env.toStatistics(time.Now()), nil
}

// Contributor-side endpoints.

// NearbyArtworks ranks existing records around a point, closest first.
func (c *Client) NearbyArtworks(ctx context.Context, lat, lon float64) ([]match.Candidate, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var env nearbyEnvelope
	if err := c.get(ctx, "/artworks/nearby", q, &env); err != nil {
		return nil, err
	}
	candidates := make([]match.Candidate, 0, len(env.Artworks))
	for _, a := range env.Artworks {
		candidates = append(candidates, match.Candidate{
			ID:        a.ID,
			Distance:  a.Distance,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
		})
	}
	return match.RankByDistance(lat, lon, candidates), nil
}

// GetArtwork fetches the current editable field values of a record, the
// "old" side of a contributor's field diff.
func (c *Client) GetArtwork(ctx context.Context, id string) (diff.FieldSet, error) {
	var env artworkEnvelope
	if err := c.get(ctx, "/artworks/"+id, nil, &env); err != nil {
		return diff.FieldSet{}, err
	}
	return diff.FieldSet{
		Title:       env.Title,
		Description: env.Description,
		CreatedBy:   env.CreatedBy,
		Tags:        env.Tags,
	}, nil
}

// CreateSubmissionRequest is the write half of the capture flow.
type CreateSubmissionRequest struct {
	ArtworkID      string   `json:"artwork_id,omitempty"`
	Title          string   `json:"title,omitempty"`
	Note           string   `json:"note,omitempty"`
	Photos         []string `json:"photos"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Type           string   `json:"type"`
	LocationMethod string   `json:"location_method"`
}

func (c *Client) CreateSubmission(ctx context.Context, req CreateSubmissionRequest) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/submissions", req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// SubmitArtworkEdits sends one edit group for moderation.
func (c *Client) SubmitArtworkEdits(ctx context.Context, artworkID string, diffs []diff.FieldDiff) error {
	body := map[string]any{"diffs": diffs}
	return c.post(ctx, "/artworks/"+artworkID+"/edits", body, nil)
}
