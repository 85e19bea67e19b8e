package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chefmate/backend/internal/types"
)

const sessionTTL = 24 * time.Hour

// SessionStore holds live chat transcripts. The transcript is the only state
// that survives between turns; everything else is recomputed per turn.
type SessionStore interface {
	Create(ctx context.Context) (*types.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Session, error)
	Append(ctx context.Context, id uuid.UUID, entries []types.TranscriptEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisSessionStore keeps each session as a JSON value under a TTL'd key.
type RedisSessionStore struct {
	redis *redis.Client
	mu    sync.Mutex
}

// NewRedisSessionStore creates a new RedisSessionStore instance
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{redis: client}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("chat:session:%s", id)
}

// Create starts a new empty session.
func (s *RedisSessionStore) Create(ctx context.Context) (*types.Session, error) {
	session := &types.Session{
		ID:        uuid.New(),
		Entries:   []types.TranscriptEntry{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get retrieves a session transcript.
func (s *RedisSessionStore) Get(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Append adds one turn's entries to the transcript. The whole batch lands at
// once so entries from concurrent turns are never interleaved.
func (s *RedisSessionStore) Append(ctx context.Context, id uuid.UUID, entries []types.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	session.Entries = append(session.Entries, entries...)
	session.UpdatedAt = time.Now()
	return s.save(ctx, session)
}

// Delete clears a session at the end of its life.
func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) save(ctx context.Context, session *types.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey(session.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

// MemorySessionStore is an in-process store for tests and Redis-less
// development.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*types.Session
}

// NewMemorySessionStore creates a new MemorySessionStore instance
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]*types.Session)}
}

// Create starts a new empty session.
func (s *MemorySessionStore) Create(ctx context.Context) (*types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &types.Session{
		ID:        uuid.New(),
		Entries:   []types.TranscriptEntry{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.sessions[session.ID] = session
	return copySession(session), nil
}

// Get retrieves a session transcript.
func (s *MemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(session), nil
}

// Append adds one turn's entries to the transcript atomically.
func (s *MemorySessionStore) Append(ctx context.Context, id uuid.UUID, entries []types.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	session.Entries = append(session.Entries, entries...)
	session.UpdatedAt = time.Now()
	return nil
}

// Delete clears a session.
func (s *MemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func copySession(session *types.Session) *types.Session {
	out := *session
	out.Entries = make([]types.TranscriptEntry, len(session.Entries))
	copy(out.Entries, session.Entries)
	return &out
}
