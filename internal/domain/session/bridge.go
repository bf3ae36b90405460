package session

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Tier names which representation a session was read from.
type Tier string

const (
	TierMemory    Tier = "memory"
	TierPersisted Tier = "persisted"
)

// Bridge reconciles the two session tiers. The in-memory tier is
// authoritative; the persisted tier is a lossy projection kept in step
// on every write so the capture flow survives a reload, degraded to
// metadata only.
type Bridge struct {
	mem   *MemoryStore
	store SnapshotStore
	log   zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBridge(mem *MemoryStore, store SnapshotStore, log zerolog.Logger) *Bridge {
	return &Bridge{mem: mem, store: store, log: log, locks: make(map[string]*sync.Mutex)}
}

func (b *Bridge) tokenLock(token string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[token]
	if !ok {
		l = &sync.Mutex{}
		b.locks[token] = l
	}
	return l
}

// Update applies fn to the token's session under a per-token lock and
// saves the result, so concurrent handlers cannot interleave their
// load-modify-save cycles. An absent session starts empty.
func (b *Bridge) Update(ctx context.Context, token string, fn func(s *FastUploadSession)) {
	l := b.tokenLock(token)
	l.Lock()
	defer l.Unlock()

	s, _, found := b.Load(ctx, token)
	if !found {
		s = &FastUploadSession{}
	}
	fn(s)
	b.Save(ctx, token, s)
}

// Save writes the session to memory and best-effort persists the
// projection. A persistence failure never fails the capture flow.
func (b *Bridge) Save(ctx context.Context, token string, s *FastUploadSession) {
	b.mem.Put(token, s)

	payload, err := json.Marshal(project(s))
	if err != nil {
		b.log.Error().Err(err).Msg("session snapshot encode failed")
		return
	}
	if err := b.store.Save(ctx, token, payload); err != nil {
		b.log.Warn().Err(err).Msg("session snapshot persist failed")
	}
}

// Load prefers the in-memory session when it still has photos, then
// falls back to the persisted snapshot. A malformed snapshot is deleted
// and treated as absent rather than crashing the flow. ok=false means
// no session exists and the caller must redirect to the capture step.
func (b *Bridge) Load(ctx context.Context, token string) (s *FastUploadSession, tier Tier, ok bool) {
	if mem, found := b.mem.Get(token); found && mem.HasPhotos() {
		return mem, TierMemory, true
	}

	payload, found, err := b.store.Load(ctx, token)
	if err != nil {
		b.log.Error().Err(err).Msg("session snapshot load failed")
		return nil, "", false
	}
	if !found {
		return nil, "", false
	}

	var persisted persistedSession
	if err := json.Unmarshal(payload, &persisted); err != nil {
		b.log.Warn().Err(err).Msg("corrupt session snapshot, discarding")
		if delErr := b.store.Delete(ctx, token); delErr != nil {
			b.log.Error().Err(delErr).Msg("corrupt snapshot delete failed")
		}
		return nil, "", false
	}

	restored := restore(persisted)
	// a session without photos is absent no matter which tier holds it
	if !restored.HasPhotos() {
		return nil, "", false
	}
	return restored, TierPersisted, true
}

// Clear drops both tiers, e.g. after a successful submission.
func (b *Bridge) Clear(ctx context.Context, token string) {
	b.mem.Delete(token)
	if err := b.store.Delete(ctx, token); err != nil {
		b.log.Warn().Err(err).Msg("session snapshot delete failed")
	}
}

// RequirePayloads guards the submit step: a session read back from the
// persisted tier has lost its photo payloads and must fail fast instead
// of silently submitting zero photos.
func (b *Bridge) RequirePayloads(s *FastUploadSession) error {
	if !s.HasPayloads() {
		return ErrPhotoDataUnavailable
	}
	return nil
}
