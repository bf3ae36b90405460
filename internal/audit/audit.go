package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ReviewAction is one successful review transition, kept for the audit
// trail. Failed transitions leave no row; the upstream backend is the
// arbiter of contested resolutions.
type ReviewAction struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ItemKind  string    `gorm:"not null;index" json:"item_kind"` // submission | artwork_edit | artist_edit | feedback
	ItemID    string    `gorm:"not null;index" json:"item_id"`
	Action    string    `gorm:"not null" json:"action"`
	Notes     string    `json:"notes,omitempty"`
	Reviewer  string    `gorm:"not null;index" json:"reviewer"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewAction) TableName() string { return "review_actions" }

// Log writes review actions to postgres. Recording is best-effort: an
// audit failure must never undo an already-confirmed transition, so it
// is logged and swallowed.
type Log struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewLog(db *gorm.DB, log zerolog.Logger) *Log {
	return &Log{db: db, log: log}
}

func (l *Log) Record(ctx context.Context, itemKind, itemID, action, notes, reviewer string) {
	row := ReviewAction{
		ID:       uuid.NewString(),
		ItemKind: itemKind,
		ItemID:   itemID,
		Action:   action,
		Notes:    notes,
		Reviewer: reviewer,
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		l.log.Error().Err(err).Str("item", itemID).Msg("audit record failed")
	}
}
