package moderation

import (
	"context"
	"errors"
	"sync"

	"art-catalog-app/internal/domain/match"

	"github.com/rs/zerolog"
)

var (
	ErrBusy           = errors.New("another review action is still in flight")
	ErrNotFound       = errors.New("item not in queue")
	ErrCancelled      = errors.New("review action cancelled")
	ErrReasonRequired = errors.New("a reason is required to flag a submission")
)

// Backend is the slice of the catalogue API the queue controller
// consumes. internal/upstream provides the production implementation.
type Backend interface {
	ListSubmissions(ctx context.Context, status string, page, perPage int) ([]Submission, error)
	ApproveSubmission(ctx context.Context, id string, action match.Action, artworkID string) error
	RejectSubmission(ctx context.Context, id, reason string) error
	FlagSubmission(ctx context.Context, id, reason string) error

	ListArtworkEdits(ctx context.Context, page, perPage int) ([]ArtworkEditReviewData, error)
	ResolveArtworkEdit(ctx context.Context, editID string, approve bool) error
	ListArtistEdits(ctx context.Context, page, perPage int) ([]ArtistEditReviewData, error)
	ResolveArtistEdit(ctx context.Context, editID string, approve bool) error

	ListFeedback(ctx context.Context, status string, page, perPage int) ([]FeedbackRecord, error)
	ReviewFeedback(ctx context.Context, id string, action FeedbackAction, notes string) error

	Statistics(ctx context.Context) (Statistics, error)
}

// AuditRecorder persists a trace of successful review actions.
// internal/audit provides the gorm-backed implementation.
type AuditRecorder interface {
	Record(ctx context.Context, itemKind, itemID, action, notes, reviewer string)
}

// Queue holds the reviewer-facing moderation state: four independent
// item classes plus the shared statistics block. It is created once at
// app start and handed to the handlers, never accessed as a singleton.
//
// At most one transition is in flight at any moment, enforced by a
// single shared processing id rather than per-item locks.
type Queue struct {
	backend Backend
	audit   AuditRecorder
	log     zerolog.Logger

	mu           sync.Mutex
	submissions  []Submission
	artworkEdits []ArtworkEditReviewData
	artistEdits  []ArtistEditReviewData
	feedback     []FeedbackRecord
	stats        Statistics
	processingID string

	view ViewState
}

func NewQueue(backend Backend, audit AuditRecorder, log zerolog.Logger) *Queue {
	return &Queue{
		backend: backend,
		audit:   audit,
		log:     log,
		view:    NewViewState(),
	}
}

// LoadReport carries the per-class outcome of a reload. The classes are
// fetched independently; one failing leaves the others' data intact.
type LoadReport struct {
	Submissions  error
	ArtworkEdits error
	ArtistEdits  error
	Feedback     error
	Statistics   error
}

func (r LoadReport) Failed() bool {
	return r.Submissions != nil || r.ArtworkEdits != nil || r.ArtistEdits != nil ||
		r.Feedback != nil || r.Statistics != nil
}

const loadPerPage = 50

// Reload re-fetches every item class and the statistics block. Each
// class that loads successfully replaces its local list; statistics are
// replaced wholesale, discarding any optimistic adjustments.
func (q *Queue) Reload(ctx context.Context) LoadReport {
	var report LoadReport

	if subs, err := q.backend.ListSubmissions(ctx, string(StatusPending), 1, loadPerPage); err != nil {
		report.Submissions = err
		q.log.Error().Err(err).Msg("loading submissions failed")
	} else {
		q.mu.Lock()
		q.submissions = subs
		q.mu.Unlock()
	}

	if edits, err := q.backend.ListArtworkEdits(ctx, 1, loadPerPage); err != nil {
		report.ArtworkEdits = err
		q.log.Error().Err(err).Msg("loading artwork edits failed")
	} else {
		q.mu.Lock()
		q.artworkEdits = edits
		q.mu.Unlock()
	}

	if edits, err := q.backend.ListArtistEdits(ctx, 1, loadPerPage); err != nil {
		report.ArtistEdits = err
		q.log.Error().Err(err).Msg("loading artist edits failed")
	} else {
		q.mu.Lock()
		q.artistEdits = edits
		q.mu.Unlock()
	}

	if fb, err := q.backend.ListFeedback(ctx, string(FeedbackOpen), 1, loadPerPage); err != nil {
		report.Feedback = err
		q.log.Error().Err(err).Msg("loading feedback failed")
	} else {
		q.mu.Lock()
		q.feedback = fb
		q.mu.Unlock()
	}

	if stats, err := q.backend.Statistics(ctx); err != nil {
		report.Statistics = err
		q.log.Error().Err(err).Msg("loading statistics failed")
	} else {
		q.mu.Lock()
		q.stats = stats
		q.mu.Unlock()
	}

	return report
}

// beginProcessing claims the shared in-flight slot for the given item.
func (q *Queue) beginProcessing(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.processingID != "" {
		return ErrBusy
	}
	q.processingID = id
	return nil
}

func (q *Queue) endProcessing() {
	q.mu.Lock()
	q.processingID = ""
	q.mu.Unlock()
}

// ProcessingID exposes the in-flight item id so the UI can disable its
// action buttons. Empty means idle.
func (q *Queue) ProcessingID() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processingID
}

func (q *Queue) findSubmission(id string) (Submission, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, s := range q.submissions {
		if s.ID == id {
			return s, true
		}
	}
	return Submission{}, false
}

func (q *Queue) removeSubmission(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, s := range q.submissions {
		if s.ID == id {
			q.submissions = append(q.submissions[:i], q.submissions[i+1:]...)
			return
		}
	}
}

// ApproveSubmission resolves a pending submission. The matcher decides
// the action: a logbook visit to a known artwork links unconditionally,
// a submission with nearby candidates follows the reviewer's
// create-vs-link choice (link always targets the closest candidate),
// and no candidates means a new record. The item leaves the queue and
// the counters move only after the backend call succeeds.
func (q *Queue) ApproveSubmission(ctx context.Context, reviewer, id string, chooseLink bool) error {
	sub, ok := q.findSubmission(id)
	if !ok {
		return ErrNotFound
	}
	if err := q.beginProcessing(id); err != nil {
		return err
	}
	defer q.endProcessing()

	decision := match.Decide(sub.ArtworkID, sub.NearbyArtworks).Choose(chooseLink)

	if err := q.backend.ApproveSubmission(ctx, id, decision.Action, decision.ArtworkID); err != nil {
		q.log.Error().Err(err).Str("submission", id).Msg("approve failed")
		return err
	}

	q.removeSubmission(id)
	q.mu.Lock()
	q.stats.noteApproved()
	q.mu.Unlock()

	q.audit.Record(ctx, "submission", id, "approve:"+string(decision.Action), decision.ArtworkID, reviewer)
	return nil
}

// RejectSubmission resolves a pending submission negatively. A nil
// reason means the reviewer cancelled the reason prompt: the transition
// aborts before any network call and nothing changes. An empty non-nil
// reason is a confirmed rejection without comment.
func (q *Queue) RejectSubmission(ctx context.Context, reviewer, id string, reason *string) error {
	if reason == nil {
		return ErrCancelled
	}
	if _, ok := q.findSubmission(id); !ok {
		return ErrNotFound
	}
	if err := q.beginProcessing(id); err != nil {
		return err
	}
	defer q.endProcessing()

	if err := q.backend.RejectSubmission(ctx, id, *reason); err != nil {
		q.log.Error().Err(err).Str("submission", id).Msg("reject failed")
		return err
	}

	q.removeSubmission(id)
	q.mu.Lock()
	q.stats.noteRejected()
	q.mu.Unlock()

	q.audit.Record(ctx, "submission", id, "reject", *reason, reviewer)
	return nil
}

// FlagSubmission marks a submission for priority attention. Unlike
// reject, the reason is mandatory. The item stays in the queue; only
// its local priority flips to high so it sorts first under priority
// ordering.
func (q *Queue) FlagSubmission(ctx context.Context, reviewer, id, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}
	if _, ok := q.findSubmission(id); !ok {
		return ErrNotFound
	}
	if err := q.beginProcessing(id); err != nil {
		return err
	}
	defer q.endProcessing()

	if err := q.backend.FlagSubmission(ctx, id, reason); err != nil {
		q.log.Error().Err(err).Str("submission", id).Msg("flag failed")
		return err
	}

	q.mu.Lock()
	for i := range q.submissions {
		if q.submissions[i].ID == id {
			q.submissions[i].Priority = PriorityHigh
			break
		}
	}
	q.mu.Unlock()

	q.audit.Record(ctx, "submission", id, "flag", reason, reviewer)
	return nil
}

// ResolveArtworkEdit approves or rejects a whole edit group through its
// representative edit id.
func (q *Queue) ResolveArtworkEdit(ctx context.Context, reviewer, editID string, approve bool) error {
	q.mu.Lock()
	idx := -1
	for i, e := range q.artworkEdits {
		if e.Key() == editID {
			idx = i
			break
		}
	}
	q.mu.Unlock()
	if idx < 0 {
		return ErrNotFound
	}
	if err := q.beginProcessing(editID); err != nil {
		return err
	}
	defer q.endProcessing()

	if err := q.backend.ResolveArtworkEdit(ctx, editID, approve); err != nil {
		q.log.Error().Err(err).Str("edit", editID).Msg("artwork edit resolution failed")
		return err
	}

	q.mu.Lock()
	for i, e := range q.artworkEdits {
		if e.Key() == editID {
			q.artworkEdits = append(q.artworkEdits[:i], q.artworkEdits[i+1:]...)
			break
		}
	}
	if approve {
		q.stats.noteApproved()
	} else {
		q.stats.noteRejected()
	}
	q.mu.Unlock()

	q.audit.Record(ctx, "artwork_edit", editID, resolveAction(approve), "", reviewer)
	return nil
}

// ResolveArtistEdit mirrors ResolveArtworkEdit for artist edit groups.
func (q *Queue) ResolveArtistEdit(ctx context.Context, reviewer, editID string, approve bool) error {
	q.mu.Lock()
	idx := -1
	for i, e := range q.artistEdits {
		if e.ID == editID {
			idx = i
			break
		}
	}
	q.mu.Unlock()
	if idx < 0 {
		return ErrNotFound
	}
	if err := q.beginProcessing(editID); err != nil {
		return err
	}
	defer q.endProcessing()

	if err := q.backend.ResolveArtistEdit(ctx, editID, approve); err != nil {
		q.log.Error().Err(err).Str("edit", editID).Msg("artist edit resolution failed")
		return err
	}

	q.mu.Lock()
	for i, e := range q.artistEdits {
		if e.ID == editID {
			q.artistEdits = append(q.artistEdits[:i], q.artistEdits[i+1:]...)
			break
		}
	}
	if approve {
		q.stats.noteApproved()
	} else {
		q.stats.noteRejected()
	}
	q.mu.Unlock()

	q.audit.Record(ctx, "artist_edit", editID, resolveAction(approve), "", reviewer)
	return nil
}

// ReviewFeedback moves an open feedback record to resolved or archived.
// Both outcomes are terminal and both drop the record from the active
// list; the optional notes travel to the backend and the audit trail.
func (q *Queue) ReviewFeedback(ctx context.Context, reviewer, id string, action FeedbackAction, notes string) error {
	if action != FeedbackActionResolve && action != FeedbackActionArchive {
		return errors.New("unknown feedback action: " + string(action))
	}
	q.mu.Lock()
	found := false
	for _, f := range q.feedback {
		if f.ID == id {
			found = true
			break
		}
	}
	q.mu.Unlock()
	if !found {
		return ErrNotFound
	}
	if err := q.beginProcessing(id); err != nil {
		return err
	}
	defer q.endProcessing()

	if err := q.backend.ReviewFeedback(ctx, id, action, notes); err != nil {
		q.log.Error().Err(err).Str("feedback", id).Msg("feedback review failed")
		return err
	}

	q.mu.Lock()
	for i, f := range q.feedback {
		if f.ID == id {
			q.feedback = append(q.feedback[:i], q.feedback[i+1:]...)
			break
		}
	}
	q.mu.Unlock()

	q.audit.Record(ctx, "feedback", id, string(action), notes, reviewer)
	return nil
}

func resolveAction(approve bool) string {
	if approve {
		return "approve"
	}
	return "reject"
}

// Statistics returns a copy of the current counter block.
func (q *Queue) Statistics() Statistics {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// Snapshot returns copies of the current item lists for the read path.
func (q *Queue) Snapshot() (subs []Submission, artworkEdits []ArtworkEditReviewData, artistEdits []ArtistEditReviewData, feedback []FeedbackRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	subs = append([]Submission(nil), q.submissions...)
	artworkEdits = append([]ArtworkEditReviewData(nil), q.artworkEdits...)
	artistEdits = append([]ArtistEditReviewData(nil), q.artistEdits...)
	feedback = append([]FeedbackRecord(nil), q.feedback...)
	return
}

// View gives access to the tab/search/sort/page state.
func (q *Queue) View() *ViewState {
	return &q.view
}
