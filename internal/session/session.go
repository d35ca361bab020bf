package session

import (
	"sync"
	"sync/atomic"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message of a conversation.
type Turn struct {
	Role    string
	Content string
}

// Session is the in-memory state of one chat.
// The turn list is guarded by mu; callers that need a read-modify-write
// over several calls (a full exchange) hold the session with Lock/Unlock.
type Session struct {
	chatID  string
	allowed atomic.Bool

	mu    sync.Mutex
	turns []Turn
}

func newSession(chatID string) *Session {
	return &Session{chatID: chatID}
}

func (s *Session) ChatID() string { return s.chatID }

// Allowed reports whether the chat already passed the access check.
func (s *Session) Allowed() bool { return s.allowed.Load() }

// MarkAllowed memoizes a successful access check. There is no way back.
func (s *Session) MarkAllowed() { s.allowed.Store(true) }

// Lock acquires exclusive access to the turn list for a whole exchange.
func (s *Session) Lock() { s.mu.Lock() }

func (s *Session) Unlock() { s.mu.Unlock() }

// The *Locked methods expect the caller to hold the session lock.

func (s *Session) AppendLocked(t Turn) {
	s.turns = append(s.turns, t)
}

// DropLastLocked removes the most recent turn if it has the given role.
func (s *Session) DropLastLocked(role string) bool {
	n := len(s.turns)
	if n == 0 || s.turns[n-1].Role != role {
		return false
	}
	s.turns = s.turns[:n-1]
	return true
}

func (s *Session) TurnsLocked() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Turns returns a copy of the turn list.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TurnsLocked()
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Reset clears the turn list. The access decision is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
