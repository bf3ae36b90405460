package review

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"art-catalog-app/internal/app/http/middleware"
	"art-catalog-app/internal/domain/moderation"
	"art-catalog-app/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the reviewer queue. The queue container is injected,
// never reached for as a package global.
type Handler struct {
	queue *moderation.Queue
	log   zerolog.Logger
}

func NewHandler(queue *moderation.Queue, log zerolog.Logger) *Handler {
	return &Handler{queue: queue, log: log}
}

// ------------------------------
// GET /review/queue
// ------------------------------
func (h *Handler) GetQueue(c *gin.Context) {
	view := h.queue.View()

	if tab := c.Query("tab"); tab != "" {
		view.SetTab(moderation.Tab(tab))
	}
	if search, ok := c.GetQuery("search"); ok {
		view.SetSearch(search)
	}
	if mode := c.Query("sort"); mode != "" {
		view.SetSort(moderation.SortMode(mode))
	}
	if pageStr := c.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			view.SetPage(page)
		}
	}

	subs, artworkEdits, artistEdits, feedback := h.queue.Snapshot()

	resp := QueueResponse{
		Tab:          string(view.Tab()),
		Statistics:   h.queue.Statistics(),
		ProcessingID: h.queue.ProcessingID(),
	}

	switch view.Tab() {
	case moderation.TabArtworkEdits:
		sort.SliceStable(artworkEdits, func(i, j int) bool {
			return artworkEdits[i].SubmittedAt.After(artworkEdits[j].SubmittedAt)
		})
		page, total := moderation.Paginate(artworkEdits, view.Page())
		resp.Edits = make([]EditGroupDTO, 0, len(page))
		for _, e := range page {
			resp.Edits = append(resp.Edits, toArtworkEditDTO(e))
		}
		resp.TotalPages = total
	case moderation.TabArtistEdits:
		sort.SliceStable(artistEdits, func(i, j int) bool {
			return artistEdits[i].SubmittedAt.After(artistEdits[j].SubmittedAt)
		})
		page, total := moderation.Paginate(artistEdits, view.Page())
		resp.Edits = make([]EditGroupDTO, 0, len(page))
		for _, e := range page {
			resp.Edits = append(resp.Edits, toArtistEditDTO(e))
		}
		resp.TotalPages = total
	case moderation.TabFeedback:
		page, total := moderation.Paginate(feedback, view.Page())
		resp.Feedback = page
		resp.TotalPages = total
	default:
		filtered := moderation.FilterSubmissions(subs, view.Search(), view.Sort())
		page, total := moderation.Paginate(filtered, view.Page())
		resp.Submissions = page
		resp.TotalPages = total
	}

	resp.Page = view.Page()
	c.JSON(http.StatusOK, resp)
}

// ------------------------------
// POST /review/reload
// ------------------------------
func (h *Handler) Reload(c *gin.Context) {
	report := h.queue.Reload(c.Request.Context())

	if errors.Is(report.Submissions, upstream.ErrAuthRequired) {
		// no credential: nothing loaded, no retry target besides
		// re-authenticating
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	errs := gin.H{}
	for class, err := range map[string]error{
		"submissions":   report.Submissions,
		"artwork_edits": report.ArtworkEdits,
		"artist_edits":  report.ArtistEdits,
		"feedback":      report.Feedback,
		"statistics":    report.Statistics,
	} {
		if err != nil {
			errs[class] = err.Error()
		}
	}

	resp := gin.H{"statistics": h.queue.Statistics()}
	if len(errs) > 0 {
		resp["errors"] = errs
	}
	c.JSON(http.StatusOK, resp)
}

// ------------------------------
// POST /review/submissions/:id/approve
// ------------------------------
func (h *Handler) ApproveSubmission(c *gin.Context) {
	reviewer, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	var req ApproveSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chooseLink := req.Action == "link_existing"
	if err := h.queue.ApproveSubmission(c.Request.Context(), reviewer, c.Param("id"), chooseLink); err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved", "statistics": h.queue.Statistics()})
}

// ------------------------------
// POST /review/submissions/:id/reject
// ------------------------------
func (h *Handler) RejectSubmission(c *gin.Context) {
	reviewer, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	var req RejectSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.queue.RejectSubmission(c.Request.Context(), reviewer, c.Param("id"), req.Reason)
	if errors.Is(err, moderation.ErrCancelled) {
		c.JSON(http.StatusOK, gin.H{"cancelled": true})
		return
	}
	if err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected", "statistics": h.queue.Statistics()})
}

// ------------------------------
// POST /review/submissions/:id/flag
// ------------------------------
func (h *Handler) FlagSubmission(c *gin.Context) {
	reviewer, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	var req FlagSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required to flag"})
		return
	}

	if err := h.queue.FlagSubmission(c.Request.Context(), reviewer, c.Param("id"), req.Reason); err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "flagged", "priority": moderation.PriorityHigh})
}

// ------------------------------
// POST /review/artwork-edits/:id/approve|reject
// ------------------------------
func (h *Handler) ResolveArtworkEdit(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewer, ok := middleware.MustUserToken(c)
		if !ok {
			return
		}
		if err := h.queue.ResolveArtworkEdit(c.Request.Context(), reviewer, c.Param("id"), approve); err != nil {
			h.transitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusWord(approve), "statistics": h.queue.Statistics()})
	}
}

// ------------------------------
// POST /review/artist-edits/:id/approve|reject
// ------------------------------
func (h *Handler) ResolveArtistEdit(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewer, ok := middleware.MustUserToken(c)
		if !ok {
			return
		}
		if err := h.queue.ResolveArtistEdit(c.Request.Context(), reviewer, c.Param("id"), approve); err != nil {
			h.transitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusWord(approve), "statistics": h.queue.Statistics()})
	}
}

// ------------------------------
// POST /review/feedback/:id/review
// ------------------------------
func (h *Handler) ReviewFeedback(c *gin.Context) {
	reviewer, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	var req FeedbackReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := moderation.FeedbackAction(req.Action)
	if err := h.queue.ReviewFeedback(c.Request.Context(), reviewer, c.Param("id"), action, req.ReviewNotes); err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(action) + "d"})
}

// ------------------------------
// GET /review/statistics
// ------------------------------
func (h *Handler) GetStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.queue.Statistics())
}

func statusWord(approve bool) string {
	if approve {
		return "approved"
	}
	return "rejected"
}

// transitionError maps controller and upstream failures onto HTTP
// statuses. The failed item always stays in its list, and the guard is
// already cleared, so the client may retry by hand; nothing retries
// automatically.
func (h *Handler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, moderation.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Another review action is still in progress"})
	case errors.Is(err, moderation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in queue"})
	case errors.Is(err, moderation.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required to flag"})
	case errors.Is(err, upstream.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
