package capture

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"art-catalog-app/internal/app/http/middleware"
	"art-catalog-app/internal/domain/diff"
	"art-catalog-app/internal/domain/geo"
	"art-catalog-app/internal/domain/match"
	"art-catalog-app/internal/domain/moderation"
	"art-catalog-app/internal/domain/session"
	"art-catalog-app/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogClient is the contributor-facing slice of the upstream API.
type CatalogClient interface {
	NearbyArtworks(ctx context.Context, lat, lon float64) ([]match.Candidate, error)
	GetArtwork(ctx context.Context, id string) (diff.FieldSet, error)
	CreateSubmission(ctx context.Context, req upstream.CreateSubmissionRequest) (string, error)
	SubmitArtworkEdits(ctx context.Context, artworkID string, diffs []diff.FieldDiff) error
}

// Handler drives the contributor capture flow: photos and location into
// the session bridge, nearby matching, and the final submission.
type Handler struct {
	bridge    *session.Bridge
	resolvers *geo.ResolverSet
	catalog   CatalogClient
	log       zerolog.Logger

	mu       sync.Mutex
	searches map[string]*match.SearchState
}

func NewHandler(bridge *session.Bridge, resolvers *geo.ResolverSet, catalog CatalogClient, log zerolog.Logger) *Handler {
	return &Handler{
		bridge:    bridge,
		resolvers: resolvers,
		catalog:   catalog,
		log:       log,
		searches:  make(map[string]*match.SearchState),
	}
}

func (h *Handler) searchState(token string) *match.SearchState {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.searches[token]
	if !ok {
		s = &match.SearchState{}
		h.searches[token] = s
	}
	return s
}

func (h *Handler) dropSearchState(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.searches, token)
}

func (h *Handler) locationStatus(resolver *geo.Resolver) LocationStatus {
	status := LocationStatus{
		EXIFWarning:      resolver.EXIFMissingWarning(),
		NeedsManualEntry: resolver.NeedsManualEntry(),
	}
	if coords, src, ok := resolver.Resolved(); ok {
		status.Resolved = true
		status.Coordinates = &coords
		status.Method = geo.MethodLabel(src)
	}
	return status
}

// ------------------------------
// GET /capture/session
// ------------------------------
func (h *Handler) GetSession(c *gin.Context) {
	token, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	sess, tier, found := h.bridge.Load(c.Request.Context(), token)
	if !found {
		c.JSON(http.StatusOK, SessionResponse{Present: false, Redirect: "capture"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Present:  true,
		Tier:     string(tier),
		Photos:   sess.Photos,
		Location: h.locationStatus(h.resolvers.For(token)),
		Sources:  sess.DetectedSources,
		Payloads: sess.HasPayloads(),
	})
}

// ------------------------------
// DELETE /capture/session
// ------------------------------
func (h *Handler) ClearSession(c *gin.Context) {
	token, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}
	h.bridge.Clear(c.Request.Context(), token)
	h.resolvers.Drop(token)
	h.dropSearchState(token)
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// ------------------------------
// POST /capture/session/photos
// ------------------------------
func (h *Handler) AddPhoto(c *gin.Context) {
	token, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	var req AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo := session.Photo{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Preview: req.Preview,
		EXIFLat: req.EXIFLat,
		EXIFLon: req.EXIFLon,
		Data:    req.Data,
	}

	resolver := h.resolvers.For(token)
	var count int
	h.bridge.Update(c.Request.Context(), token, func(sess *session.FastUploadSession) {
		sess.Photos = append(sess.Photos, photo)

		// the first photo decides the EXIF source outcome
		if len(sess.Photos) == 1 {
			if req.EXIFLat != nil && req.EXIFLon != nil {
				resolver.Report(geo.SourceEXIF, geo.Reading{
					Detected:    true,
					Coordinates: &geo.Coordinates{Latitude: *req.EXIFLat, Longitude: *req.EXIFLon},
				})
			} else {
				resolver.Report(geo.SourceEXIF, geo.Reading{Detected: false})
			}
		}

		h.syncLocation(sess, resolver)
		count = len(sess.Photos)
	})

	c.JSON(http.StatusCreated, gin.H{
		"photo_id": photo.ID,
		"photos":   count,
		"location": h.locationStatus(resolver),
	})
}

// ------------------------------
// POST /capture/session/location
// ------------------------------
func (h *Handler) ReportLocation(c *gin.Context) {
	token, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	var req LocationReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := geo.Source(req.Source)
	resolver := h.resolvers.For(token)

	var coords *geo.Coordinates
	if req.Latitude != nil && req.Longitude != nil {
		coords = &geo.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	if source == geo.SourceManual {
		if coords == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Manual entry requires coordinates"})
			return
		}
		resolver.SetManual(*coords)
	} else {
		resolver.Report(source, geo.Reading{
			Detected:    req.Detected,
			Error:       req.Error,
			Coordinates: coords,
		})
	}

	h.bridge.Update(c.Request.Context(), token, func(sess *session.FastUploadSession) {
		h.syncLocation(sess, resolver)
	})

	c.JSON(http.StatusOK, h.locationStatus(resolver))
}

// syncLocation mirrors the resolver outcome onto the stored session.
func (h *Handler) syncLocation(sess *session.FastUploadSession, resolver *geo.Resolver) {
	sess.DetectedSources = resolver.States()
	if coords, _, ok := resolver.Resolved(); ok {
		sess.Location = &coords
	}
}

// ------------------------------
// GET /capture/nearby?lat=&lon=
// ------------------------------
func (h *Handler) Nearby(c *gin.Context) {
	token, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	state := h.searchState(token)
	state.BeginSearch()

	candidates, err := h.catalog.NearbyArtworks(c.Request.Context(), lat, lon)
	if err != nil {
		state.AbortSearch()
		h.upstreamError(c, err)
		return
	}
	state.SetResults(candidates)

	c.JSON(http.StatusOK, gin.H{
		"artworks": candidates,
		// one-shot: true at most once per capture session, after a
		// confirmed empty search
		"redirect_to_create": state.ShouldRedirectToCreate(),
	})
}

// ------------------------------
// POST /capture/submit
// ------------------------------
func (h *Handler) Submit(c *gin.Context) {
	token, ok := middleware.MustUserToken(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, _, found := h.bridge.Load(c.Request.Context(), token)
	if !found || !sess.HasPhotos() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No capture session", "redirect": "capture"})
		return
	}
	if err := h.bridge.RequirePayloads(sess); err != nil {
		// typical after a reload wiped the in-memory tier; silently
		// submitting zero photos would create an invalid record
		c.JSON(http.StatusConflict, gin.H{"error": "Photo data not available (likely page reload); re-upload required"})
		return
	}

	resolver := h.resolvers.For(token)
	coords, src, resolved := resolver.Resolved()
	if !resolved {
		if sess.Location != nil {
			coords = *sess.Location
			src = geo.SourceManual
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No location resolved; enter one manually"})
			return
		}
	}

	subType := moderation.TypePublicArt
	if req.ArtworkID != "" {
		subType = moderation.TypeLogbookEntry
	}

	photos := make([]string, 0, len(sess.Photos))
	for _, p := range sess.Photos {
		photos = append(photos, p.Name)
	}

	id, err := h.catalog.CreateSubmission(c.Request.Context(), upstream.CreateSubmissionRequest{
		ArtworkID:      req.ArtworkID,
		Title:          req.Title,
		Note:           req.Note,
		Photos:         photos,
		Latitude:       coords.Latitude,
		Longitude:      coords.Longitude,
		Type:           subType,
		LocationMethod: geo.MethodLabel(src),
	})
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	h.bridge.Clear(c.Request.Context(), token)
	h.resolvers.Drop(token)
	h.dropSearchState(token)

	c.JSON(http.StatusCreated, gin.H{"id": id, "status": moderation.StatusPending})
}

// ------------------------------
// POST /capture/artworks/:id/edits
// ------------------------------
func (h *Handler) SubmitEdits(c *gin.Context) {
	if _, ok := middleware.MustUserToken(c); !ok {
		return
	}

	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artworkID := c.Param("id")
	current, err := h.catalog.GetArtwork(c.Request.Context(), artworkID)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	proposed := diff.FieldSet{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		Tags:        req.Tags,
	}

	diffs := diff.Compute(current, proposed)
	if err := diff.Require(diffs); err != nil {
		// refused locally, nothing reaches the backend
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to save"})
		return
	}

	if err := h.catalog.SubmitArtworkEdits(c.Request.Context(), artworkID, diffs); err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"changes": len(diffs),
		"summary": diff.Summary(diffs),
	})
}

func (h *Handler) upstreamError(c *gin.Context, err error) {
	if errors.Is(err, upstream.ErrAuthRequired) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	h.log.Error().Err(err).Msg("upstream call failed")
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
