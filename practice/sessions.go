package practice

import (
	"sync"
	"time"

	"github.com/adamspd/SatPracticeApi/models"
	"github.com/adamspd/SatPracticeApi/utils"
	"github.com/google/uuid"
)

// SessionStore keeps practice sessions in memory, keyed by token.
// State is scoped to one browser session and does not survive a
// restart, matching the ephemeral session contract.
type SessionStore struct {
	sessions map[string]*models.PracticeSession
	ttl      time.Duration
	mutex    sync.RWMutex
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	store := &SessionStore{
		sessions: make(map[string]*models.PracticeSession),
		ttl:      ttl,
	}

	// Start a cleanup goroutine
	go store.cleanupExpiredSessions()

	return store
}

func (s *SessionStore) CreateSession() *models.PracticeSession {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session := &models.PracticeSession{
		Token:      uuid.NewString(),
		Difficulty: DefaultDifficulty,
		Seen:       make(map[int]struct{}),
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(s.ttl),
	}

	s.sessions[session.Token] = session
	utils.LogSession("Created session %s (difficulty %d)", session.Token, session.Difficulty)
	return session
}

func (s *SessionStore) GetSession(token string) (*models.PracticeSession, bool) {
	s.mutex.RLock()
	session, exists := s.sessions[token]
	s.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	// Check if expired
	if time.Now().After(session.ExpiresAt) {
		s.mutex.Lock()
		delete(s.sessions, token)
		s.mutex.Unlock()
		return nil, false
	}

	return session, true
}

func (s *SessionStore) DeleteSession(token string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, token)
}

func (s *SessionStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) cleanupExpiredSessions() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		cleaned := 0
		for token, session := range s.sessions {
			if now.After(session.ExpiresAt) {
				delete(s.sessions, token)
				cleaned++
			}
		}
		if cleaned > 0 {
			utils.LogSession("Cleaned up %d expired sessions", cleaned)
		}
		s.mutex.Unlock()
	}
}
