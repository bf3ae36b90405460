package match

// Candidate is an existing artwork the backend ranked as a possible
// duplicate of a new submission, closest first.
type Candidate struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`

	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type Action string

const (
	ActionCreateNew    Action = "create_new"
	ActionLinkExisting Action = "link_existing"
)

// Decision is the matcher's verdict for one submission.
// NeedsChoice means a human reviewer must pick between creating a new
// record and linking to the closest candidate.
type Decision struct {
	Action      Action
	ArtworkID   string
	NeedsChoice bool
}

// Decide determines how a contribution attaches to the catalogue.
// A logbook visit to a known artwork links automatically and
// unconditionally. Otherwise candidates trigger a reviewer choice, and
// no candidates defaults to creating a new record.
func Decide(artworkID string, nearby []Candidate) Decision {
	if artworkID != "" {
		return Decision{Action: ActionLinkExisting, ArtworkID: artworkID}
	}
	if len(nearby) > 0 {
		// linking always targets the closest candidate; picking among
		// several is not supported
		return Decision{Action: ActionLinkExisting, ArtworkID: nearby[0].ID, NeedsChoice: true}
	}
	return Decision{Action: ActionCreateNew}
}

// Choose resolves a NeedsChoice decision with the reviewer's pick.
// Calling it on an automatic decision returns that decision unchanged.
func (d Decision) Choose(link bool) Decision {
	if !d.NeedsChoice {
		return d
	}
	if link {
		return Decision{Action: ActionLinkExisting, ArtworkID: d.ArtworkID}
	}
	return Decision{Action: ActionCreateNew}
}
