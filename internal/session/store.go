// Package session provides the in-memory draw session store.
//
// Sessions are ephemeral, process-lifetime state keyed by conversation
// identity. All read-modify-write access goes through the store mutex so
// concurrent inbound events for the same conversation cannot race on a
// session.
package session

import (
	"log/slog"
	"sync"

	"github.com/Arwei0/line-chatbot/internal/models"
)

// Draw modes fixed at session creation.
const (
	// ModeSingle draws one card.
	ModeSingle = 1
	// ModeSpread draws a three-card past/present/future spread.
	ModeSpread = 3
)

// CardDraw is the result of one draw: a card index into the fixed catalog
// plus a random orientation.
type CardDraw struct {
	Card     int
	Reversed bool
}

// Session tracks an in-progress multi-card reading for one conversation.
// Invariant: Remaining == Mode - len(Drawn).
type Session struct {
	Mode      int
	Remaining int
	Drawn     []CardDraw
	Topic     string
}

// Store owns all draw session records.
type Store struct {
	mu       sync.Mutex
	sessions map[models.ConversationID]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[models.ConversationID]*Session)}
}

// Start creates a new session for the conversation, replacing any existing
// one, and returns a copy of it.
func (s *Store) Start(id models.ConversationID, mode int, topic string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{Mode: mode, Remaining: mode, Topic: topic}
	s.sessions[id] = sess
	slog.Debug("Store.Start: session created", "conversation", id.ID, "mode", mode, "topic", topic)
	return *sess
}

// Get returns a copy of the session for the conversation, if one exists.
func (s *Store) Get(id models.ConversationID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Draw appends one card draw to the conversation's session and decrements
// the countdown. It returns the updated session copy and whether a session
// existed at all. When the countdown reaches zero the session is removed
// before returning; the returned copy still carries the full draw sequence
// for the completion summary.
func (s *Store) Draw(id models.ConversationID, draw CardDraw) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}

	sess.Drawn = append(sess.Drawn, draw)
	sess.Remaining = sess.Mode - len(sess.Drawn)
	out := *sess

	if sess.Remaining == 0 {
		delete(s.sessions, id)
		slog.Debug("Store.Draw: session completed and removed", "conversation", id.ID, "mode", sess.Mode)
	} else {
		slog.Debug("Store.Draw: card drawn", "conversation", id.ID, "remaining", sess.Remaining)
	}
	return out, true
}

// Stop removes the conversation's session. It reports whether a session
// existed; removing a non-existent session is a valid no-op.
func (s *Store) Stop(id models.ConversationID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		slog.Debug("Store.Stop: session removed", "conversation", id.ID)
	}
	return ok
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
