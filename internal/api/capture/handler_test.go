package capture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"art-catalog-app/internal/domain/diff"
	"art-catalog-app/internal/domain/geo"
	"art-catalog-app/internal/domain/match"
	"art-catalog-app/internal/domain/session"
	"art-catalog-app/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	nearby  []match.Candidate
	artwork diff.FieldSet

	createReqs []upstream.CreateSubmissionRequest
	editCalls  [][]diff.FieldDiff
}

func (f *fakeCatalog) NearbyArtworks(ctx context.Context, lat, lon float64) ([]match.Candidate, error) {
	return f.nearby, nil
}

func (f *fakeCatalog) GetArtwork(ctx context.Context, id string) (diff.FieldSet, error) {
	return f.artwork, nil
}

func (f *fakeCatalog) CreateSubmission(ctx context.Context, req upstream.CreateSubmissionRequest) (string, error) {
	f.createReqs = append(f.createReqs, req)
	return "sub-1", nil
}

func (f *fakeCatalog) SubmitArtworkEdits(ctx context.Context, artworkID string, diffs []diff.FieldDiff) error {
	f.editCalls = append(f.editCalls, diffs)
	return nil
}

type mapSnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapSnapshots() *mapSnapshots {
	return &mapSnapshots{data: map[string][]byte{}}
}

func (m *mapSnapshots) Save(ctx context.Context, token string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[token] = payload
	return nil
}

func (m *mapSnapshots) Load(ctx context.Context, token string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[token]
	return p, ok, nil
}

func (m *mapSnapshots) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, token)
	return nil
}

type captureFixture struct {
	router  *gin.Engine
	catalog *fakeCatalog
	mem     *session.MemoryStore
	store   *mapSnapshots
	bridge  *session.Bridge
}

func newFixture() *captureFixture {
	gin.SetMode(gin.TestMode)

	catalog := &fakeCatalog{}
	mem := session.NewMemoryStore()
	store := newMapSnapshots()
	bridge := session.NewBridge(mem, store, zerolog.Nop())
	h := NewHandler(bridge, geo.NewResolverSet(), catalog, zerolog.Nop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_token", "contrib-1")
	})
	r.GET("/capture/session", h.GetSession)
	r.DELETE("/capture/session", h.ClearSession)
	r.POST("/capture/session/photos", h.AddPhoto)
	r.POST("/capture/session/location", h.ReportLocation)
	r.GET("/capture/nearby", h.Nearby)
	r.POST("/capture/submit", h.Submit)
	r.POST("/capture/artworks/:id/edits", h.SubmitEdits)

	return &captureFixture{router: r, catalog: catalog, mem: mem, store: store, bridge: bridge}
}

func (f *captureFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == nil {
		reader = strings.NewReader("")
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *captureFixture) addPhoto(t *testing.T, exifLat, exifLon *float64) {
	t.Helper()
	w := f.do(t, http.MethodPost, "/capture/session/photos", AddPhotoRequest{
		Name:    "mural.jpg",
		Data:    []byte{0xff, 0xd8},
		EXIFLat: exifLat,
		EXIFLon: exifLon,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func f64(v float64) *float64 { return &v }

func TestAddPhoto_EXIFResolvesLocation(t *testing.T) {
	f := newFixture()
	f.addPhoto(t, f64(52.52), f64(13.405))

	w := f.do(t, http.MethodGet, "/capture/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Present)
	require.True(t, resp.Location.Resolved)
	assert.Equal(t, "Photo EXIF data", resp.Location.Method)
	assert.InDelta(t, 52.52, resp.Location.Coordinates.Latitude, 1e-9)
	assert.False(t, resp.Location.EXIFWarning)
}

func TestLocation_BrowserWinsWhenEXIFMissing(t *testing.T) {
	f := newFixture()
	f.addPhoto(t, nil, nil)

	// ip answers first but must not win over the pending browser source
	w := f.do(t, http.MethodPost, "/capture/session/location", LocationReportRequest{
		Source: "ip", Detected: true, Latitude: f64(50.0), Longitude: f64(8.0),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var status LocationStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Resolved)

	w = f.do(t, http.MethodPost, "/capture/session/location", LocationReportRequest{
		Source: "browser", Detected: true, Latitude: f64(52.52), Longitude: f64(13.405),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.True(t, status.Resolved)
	assert.Equal(t, "Device GPS", status.Method)
	assert.True(t, status.EXIFWarning, "photo had no EXIF but device GPS found a fix")
}

func TestLocation_ManualRequiresCoordinates(t *testing.T) {
	f := newFixture()
	w := f.do(t, http.MethodPost, "/capture/session/location", LocationReportRequest{Source: "manual"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNearby_RedirectToCreateIsOneShot(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/capture/nearby?lat=52.5&lon=13.4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["redirect_to_create"])

	w = f.do(t, http.MethodGet, "/capture/nearby?lat=52.5&lon=13.4", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["redirect_to_create"], "suggested only once")
}

func TestNearby_WithResultsNeverRedirects(t *testing.T) {
	f := newFixture()
	f.catalog.nearby = []match.Candidate{{ID: "a1", Distance: 12}}

	w := f.do(t, http.MethodGet, "/capture/nearby?lat=52.5&lon=13.4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["redirect_to_create"])
}

func TestNearby_MissingCoordinates(t *testing.T) {
	f := newFixture()
	w := f.do(t, http.MethodGet, "/capture/nearby", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddPhoto_ConcurrentUploadsKeepEveryPhoto(t *testing.T) {
	f := newFixture()

	body, err := json.Marshal(AddPhotoRequest{
		Name: "mural.jpg",
		Data: []byte{0xff, 0xd8},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/capture/session/photos", strings.NewReader(string(body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)
			if w.Code != http.StatusCreated {
				t.Errorf("add photo returned %d", w.Code)
			}
		}()
	}
	wg.Wait()

	w := f.do(t, http.MethodGet, "/capture/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Photos, 20)
}

func TestSubmit_NoSessionRedirectsToCapture(t *testing.T) {
	f := newFixture()
	w := f.do(t, http.MethodPost, "/capture/submit", SubmitRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "capture")
}

func TestSubmit_LostPayloadsFailFast(t *testing.T) {
	f := newFixture()
	f.addPhoto(t, f64(52.52), f64(13.405))

	// a restart wipes the in-memory tier; the persisted snapshot has
	// metadata but no photo bytes
	f.mem.Delete("contrib-1")

	w := f.do(t, http.MethodPost, "/capture/submit", SubmitRequest{})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "re-upload")
	assert.Empty(t, f.catalog.createReqs)
}

func TestSubmit_LogbookEntryForKnownArtwork(t *testing.T) {
	f := newFixture()
	f.addPhoto(t, f64(52.52), f64(13.405))

	w := f.do(t, http.MethodPost, "/capture/submit", SubmitRequest{ArtworkID: "A1", Note: "still there"})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, f.catalog.createReqs, 1)
	req := f.catalog.createReqs[0]
	assert.Equal(t, "logbook_entry", req.Type)
	assert.Equal(t, "A1", req.ArtworkID)
	assert.Equal(t, "Photo EXIF data", req.LocationMethod)
	assert.Equal(t, []string{"mural.jpg"}, req.Photos)

	// session is gone afterwards
	w = f.do(t, http.MethodGet, "/capture/session", nil)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Present)
}

func TestSubmit_NewSightingWithoutArtworkID(t *testing.T) {
	f := newFixture()
	f.addPhoto(t, f64(52.52), f64(13.405))

	w := f.do(t, http.MethodPost, "/capture/submit", SubmitRequest{Title: "New mural"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.catalog.createReqs, 1)
	assert.Equal(t, "public_art", f.catalog.createReqs[0].Type)
}

func TestSubmit_NoLocation(t *testing.T) {
	f := newFixture()
	f.addPhoto(t, nil, nil)

	w := f.do(t, http.MethodPost, "/capture/submit", SubmitRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.catalog.createReqs)
}

func TestSubmitEdits_NothingToSave(t *testing.T) {
	f := newFixture()
	f.catalog.artwork = diff.FieldSet{Title: "Mural", Tags: map[string]string{"material": "paint"}}

	w := f.do(t, http.MethodPost, "/capture/artworks/a1/edits", EditRequest{
		Title: "Mural",
		Tags:  map[string]string{"material": "paint"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Nothing to save")
	assert.Empty(t, f.catalog.editCalls)
}

func TestSubmitEdits_SubmitsComputedDiffs(t *testing.T) {
	f := newFixture()
	f.catalog.artwork = diff.FieldSet{Title: "Mural", Description: "old"}

	w := f.do(t, http.MethodPost, "/capture/artworks/a1/edits", EditRequest{
		Title:       "Mural",
		Description: "freshly repainted",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, f.catalog.editCalls, 1)
	require.Len(t, f.catalog.editCalls[0], 1)
	assert.Equal(t, diff.FieldDescription, f.catalog.editCalls[0][0].FieldName)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["changes"])
	assert.Equal(t, "Description", resp["summary"])
}
