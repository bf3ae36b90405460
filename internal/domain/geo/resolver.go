package geo

import "sync"

// Coordinates is a plain lat/lon pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Source identifies one of the independent location signal providers.
type Source string

const (
	SourceEXIF    Source = "exif"
	SourceBrowser Source = "browser"
	SourceIP      Source = "ip"
	SourceManual  Source = "manual"
)

// precedence is fixed: EXIF beats device GPS beats IP. Manual entry is the
// fallback when no source wins.
var precedence = []Source{SourceEXIF, SourceBrowser, SourceIP}

// Reading is one source's report. Sources report independently and in any
// order; a source that errored or found nothing reports Detected=false.
type Reading struct {
	Detected    bool         `json:"detected"`
	Error       bool         `json:"error"`
	Coordinates *Coordinates `json:"coordinates"`
}

// SourceStates is the per-source detection state kept on a fast-upload
// session, serializable as-is.
type SourceStates struct {
	EXIF    Reading `json:"exif"`
	Browser Reading `json:"browser"`
	IP      Reading `json:"ip"`
}

// Resolver folds incremental source reports into one winning location.
// It finalizes as soon as the best source that could still win has
// reported a detection, without waiting for the remaining sources.
// Sources report concurrently, so all state lives behind the mutex.
type Resolver struct {
	mu      sync.Mutex
	reports map[Source]Reading
	chosen  Source
	final   bool
}

func NewResolver() *Resolver {
	return &Resolver{reports: make(map[Source]Reading)}
}

// Report records one source's result and re-evaluates the winner.
// Reports arriving after finalization are recorded but change nothing.
func (r *Resolver) Report(src Source, reading Reading) {
	if src == SourceManual {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[src] = reading
	r.evaluate()
}

// evaluate runs with r.mu held.
func (r *Resolver) evaluate() {
	if r.final {
		return
	}
	for _, src := range precedence {
		reading, reported := r.reports[src]
		if !reported {
			// a higher-precedence source is still pending, so nothing
			// below it may finalize yet
			return
		}
		if reading.Detected && reading.Coordinates != nil {
			r.chosen = src
			r.final = true
			return
		}
	}
}

// SetManual finalizes with user-entered coordinates, overriding nothing:
// it is only legal once no automatic source can win.
func (r *Resolver) SetManual(c Coordinates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[SourceManual] = Reading{Detected: true, Coordinates: &c}
	r.chosen = SourceManual
	r.final = true
}

// Resolved returns the winning coordinates and source once finalized.
func (r *Resolver) Resolved() (Coordinates, Source, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.final {
		return Coordinates{}, "", false
	}
	reading := r.reports[r.chosen]
	if reading.Coordinates == nil {
		return Coordinates{}, "", false
	}
	return *reading.Coordinates, r.chosen, true
}

// NeedsManualEntry reports that every automatic source has answered and
// none produced a usable location.
func (r *Resolver) NeedsManualEntry() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.final {
		return false
	}
	for _, src := range precedence {
		if _, reported := r.reports[src]; !reported {
			return false
		}
	}
	return true
}

// EXIFMissingWarning is the advisory raised when the photo itself carried
// no usable EXIF position and the device GPS won instead.
func (r *Resolver) EXIFMissingWarning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.final || r.chosen != SourceBrowser {
		return false
	}
	exif, reported := r.reports[SourceEXIF]
	return reported && (!exif.Detected || exif.Error)
}

// States snapshots the per-source detection state for session storage.
func (r *Resolver) States() SourceStates {
	r.mu.Lock()
	defer r.mu.Unlock()
	return SourceStates{
		EXIF:    r.reports[SourceEXIF],
		Browser: r.reports[SourceBrowser],
		IP:      r.reports[SourceIP],
	}
}

var methodLabels = map[Source]string{
	SourceEXIF:    "Photo EXIF data",
	SourceBrowser: "Device GPS",
	SourceIP:      "IP address lookup",
	SourceManual:  "Manual entry",
}

// MethodLabel is the user-facing provenance name of a source.
func MethodLabel(src Source) string {
	if l, ok := methodLabels[src]; ok {
		return l
	}
	return string(src)
}
