package capture

import (
	"art-catalog-app/internal/domain/geo"
	"art-catalog-app/internal/domain/match"
	"art-catalog-app/internal/domain/session"
)

// ---------- requests

type AddPhotoRequest struct {
	Name    string   `json:"name" binding:"required"`
	Data    []byte   `json:"data" binding:"required"` // base64 in transit
	Preview string   `json:"preview"`
	EXIFLat *float64 `json:"exif_lat"`
	EXIFLon *float64 `json:"exif_lon"`
}

type LocationReportRequest struct {
	Source    string   `json:"source" binding:"required"` // exif | browser | ip | manual
	Detected  bool     `json:"detected"`
	Error     bool     `json:"error"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type SubmitRequest struct {
	ArtworkID string `json:"artwork_id"`
	Title     string `json:"title"`
	Note      string `json:"note"`
}

type EditRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CreatedBy   string            `json:"created_by"`
	Tags        map[string]string `json:"tags"`
}

// ---------- responses

type LocationStatus struct {
	Resolved         bool             `json:"resolved"`
	Coordinates      *geo.Coordinates `json:"coordinates,omitempty"`
	Method           string           `json:"method,omitempty"` // provenance label
	EXIFWarning      bool             `json:"exif_warning"`
	NeedsManualEntry bool             `json:"needs_manual_entry"`
}

type SessionResponse struct {
	Present bool `json:"present"`
	// capture is the screen to return to when no session exists
	Redirect string `json:"redirect,omitempty"`

	Tier     string            `json:"tier,omitempty"`
	Photos   []session.Photo   `json:"photos,omitempty"`
	Location LocationStatus    `json:"location"`
	Sources  geo.SourceStates  `json:"sources"`
	Payloads bool              `json:"payloads_available"`
	Nearby   []match.Candidate `json:"nearby,omitempty"`
}
