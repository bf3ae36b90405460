package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
)

// MemoryStore is the authoritative in-memory tier, keyed by contributor
// token. It holds the non-serializable photo payloads and previews and
// is empty after a process restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*FastUploadSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*FastUploadSession)}
}

// Get returns a copy of the stored session. Mutations go back in
// through Bridge.Update, never through the returned value directly, so
// concurrent readers never share a slice with a writer.
func (m *MemoryStore) Get(token string) (*FastUploadSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

func (m *MemoryStore) Put(token string, s *FastUploadSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = s
}

func (m *MemoryStore) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// SnapshotStore is the persisted tier. Implementations store the
// serialized lossy projection and survive restarts.
type SnapshotStore interface {
	Save(ctx context.Context, token string, payload []byte) error
	Load(ctx context.Context, token string) ([]byte, bool, error)
	Delete(ctx context.Context, token string) error
}

// SnapshotRow is the gorm model behind the persisted tier: one snapshot
// per contributor token under the fixed session key.
type SnapshotRow struct {
	Token     string    `gorm:"primaryKey"`
	Key       string    `gorm:"not null;default:'fast-upload-session'"`
	Payload   []byte    `gorm:"type:jsonb"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SnapshotRow) TableName() string { return "fast_upload_snapshots" }

// GormSnapshotStore persists snapshots in postgres.
type GormSnapshotStore struct {
	db *gorm.DB
}

func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{db: db}
}

func (g *GormSnapshotStore) Save(ctx context.Context, token string, payload []byte) error {
	row := SnapshotRow{Token: token, Key: PersistKey, Payload: payload}
	return g.db.WithContext(ctx).Save(&row).Error
}

func (g *GormSnapshotStore) Load(ctx context.Context, token string) ([]byte, bool, error) {
	var row SnapshotRow
	err := g.db.WithContext(ctx).First(&row, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.Payload, true, nil
}

func (g *GormSnapshotStore) Delete(ctx context.Context, token string) error {
	return g.db.WithContext(ctx).Delete(&SnapshotRow{}, "token = ?", token).Error
}
