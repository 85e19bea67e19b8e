package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatSession is an archived conversation. Rows are written once, when a live
// session is closed.
type ChatSession struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StartedAt time.Time      `gorm:"not null" json:"started_at"`
	ClosedAt  time.Time      `gorm:"not null" json:"closed_at"`
	Entries   []ChatEntry    `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"entries"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatEntry is one archived transcript line. Position preserves the original
// transcript order; RecipeID is set only on recipe cards.
type ChatEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Position  int            `gorm:"not null" json:"position"`
	Role      string         `gorm:"size:20;not null" json:"role"`
	Kind      string         `gorm:"size:20;not null" json:"kind"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	RecipeID  int            `json:"recipe_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ChatEntry) TableName() string {
	return "chat_entries"
}
