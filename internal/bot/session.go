package bot

import (
	"sync"

	"github.com/raghav2405/invoice-backend/internal/models"
)

// State is the conversation position for one chat. Terminal outcomes have no
// state; the session is simply removed.
type State int

const (
	StateSelectInvoice State = iota + 1
	StateAwaitingPDF
)

// Session is the per-chat conversation context.
type Session struct {
	State       State
	InvoiceType models.InvoiceType
}

// SessionStore keeps conversation sessions keyed by chat ID behind a mutex,
// independent of any bot framework's own session storage.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
	}
}

func (s *SessionStore) Get(chatID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

func (s *SessionStore) Put(chatID int64, session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = &session
}

func (s *SessionStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
