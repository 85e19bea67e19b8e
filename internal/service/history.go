package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chefmate/backend/internal/models"
	"github.com/chefmate/backend/internal/types"
)

// HistoryService persists closed sessions so past conversations remain
// browsable after the live transcript is cleared.
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// ArchiveSession writes a finished session and its entries in one
// transaction.
func (s *HistoryService) ArchiveSession(session *types.Session) error {
	record := models.ChatSession{
		ID:        session.ID,
		StartedAt: session.CreatedAt,
		ClosedAt:  time.Now(),
	}
	for i, entry := range session.Entries {
		record.Entries = append(record.Entries, models.ChatEntry{
			ID:        uuid.New(),
			SessionID: session.ID,
			Position:  i,
			Role:      string(entry.Role),
			Kind:      string(entry.Kind),
			Text:      entry.Text,
			RecipeID:  entry.RecipeID,
		})
	}

	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	return nil
}

// ListSessions returns archived sessions, newest first, without entries.
func (s *HistoryService) ListSessions(limit int) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	query := s.db.Order("closed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list archived sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns one archived session with its entries in transcript
// order.
func (s *HistoryService) GetSession(id uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&session, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load archived session: %w", err)
	}
	return &session, nil
}
