package session

import (
	"errors"

	"art-catalog-app/internal/domain/geo"
)

// PersistKey is the storage key of the serializable session snapshot.
const PersistKey = "fast-upload-session"

// ErrPhotoDataUnavailable fails a submission whose raw photo payloads
// were lost, typically because a reload wiped the in-memory tier.
// Submitting without them would create an invalid record upstream.
var ErrPhotoDataUnavailable = errors.New("photo data not available (likely page reload); re-upload required")

// Photo is one captured image inside a fast-upload session. Data and
// Preview exist only in the in-memory tier; the persisted tier drops
// both for size and serializability.
type Photo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Preview string   `json:"preview,omitempty"`
	EXIFLat *float64 `json:"exifLat,omitempty"`
	EXIFLon *float64 `json:"exifLon,omitempty"`

	Data []byte `json:"-"`
}

// FastUploadSession is the transient state of the multi-screen capture
// flow: photos, the resolved location and the per-source detection
// states feeding the geolocation resolver.
type FastUploadSession struct {
	Photos          []Photo          `json:"photos"`
	Location        *geo.Coordinates `json:"location"`
	DetectedSources geo.SourceStates `json:"detectedSources"`
}

// HasPhotos reports whether the session holds any photos at all.
func (s *FastUploadSession) HasPhotos() bool {
	return s != nil && len(s.Photos) > 0
}

// HasPayloads reports whether every photo still carries its raw bytes.
// False after a round-trip through the persisted tier.
func (s *FastUploadSession) HasPayloads() bool {
	if !s.HasPhotos() {
		return false
	}
	for _, p := range s.Photos {
		if len(p.Data) == 0 {
			return false
		}
	}
	return true
}

// clone copies the session with its own photo slice. Photo payload
// bytes are shared; they are written once and never mutated in place.
func (s *FastUploadSession) clone() *FastUploadSession {
	c := *s
	c.Photos = append([]Photo(nil), s.Photos...)
	return &c
}

// persistedPhoto is the lossy projection of Photo: no payload, no
// preview.
type persistedPhoto struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	EXIFLat *float64 `json:"exifLat,omitempty"`
	EXIFLon *float64 `json:"exifLon,omitempty"`
}

// persistedSession is the JSON shape written to the snapshot store.
type persistedSession struct {
	Photos          []persistedPhoto `json:"photos"`
	Location        *geo.Coordinates `json:"location"`
	DetectedSources geo.SourceStates `json:"detectedSources"`
}

func project(s *FastUploadSession) persistedSession {
	out := persistedSession{
		Photos:          make([]persistedPhoto, 0, len(s.Photos)),
		Location:        s.Location,
		DetectedSources: s.DetectedSources,
	}
	for _, p := range s.Photos {
		out.Photos = append(out.Photos, persistedPhoto{
			ID:      p.ID,
			Name:    p.Name,
			EXIFLat: p.EXIFLat,
			EXIFLon: p.EXIFLon,
		})
	}
	return out
}

func restore(p persistedSession) *FastUploadSession {
	s := &FastUploadSession{
		Photos:          make([]Photo, 0, len(p.Photos)),
		Location:        p.Location,
		DetectedSources: p.DetectedSources,
	}
	for _, ph := range p.Photos {
		s.Photos = append(s.Photos, Photo{
			ID:      ph.ID,
			Name:    ph.Name,
			EXIFLat: ph.EXIFLat,
			EXIFLon: ph.EXIFLon,
		})
	}
	return s
}
