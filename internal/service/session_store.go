package service

import (
	"sync"
	"time"

	"evo-assist/internal/models"

	"github.com/google/uuid"
)

// SessionStore keeps conversation sessions in memory for the lifetime of
// the process. Each session owns its own history; the store only guards
// the registry and appends, so concurrent conversations never share
// mutable state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.ConversationSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*models.ConversationSession),
	}
}

// Create registers a new session opened with the given turn.
func (s *SessionStore) Create(opening models.ConversationTurn) *models.ConversationSession {
	session := &models.ConversationSession{
		ID:        uuid.New(),
		Turns:     []models.ConversationTurn{opening},
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Exists reports whether a session is registered.
func (s *SessionStore) Exists(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Append adds a turn to a session's history. Returns false when the
// session is unknown.
func (s *SessionStore) Append(id uuid.UUID, turn models.ConversationTurn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false
	}
	session.Turns = append(session.Turns, turn)
	return true
}

// History returns a copy of a session's turns.
func (s *SessionStore) History(id uuid.UUID) ([]models.ConversationTurn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	turns := make([]models.ConversationTurn, len(session.Turns))
	copy(turns, session.Turns)
	return turns, true
}
