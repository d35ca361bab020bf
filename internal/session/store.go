package session

import "sync"

// Store maps chat ids to sessions. Sessions live as long as the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for chatID, creating an empty one on first contact.
func (st *Store) Get(chatID string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[chatID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[chatID]; ok {
		return s
	}
	s = newSession(chatID)
	st.sessions[chatID] = s
	return s
}

// Lookup returns the session for chatID without creating one.
func (st *Store) Lookup(chatID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[chatID]
	return s, ok
}

// Reset clears the turns of chatID if the session exists.
func (st *Store) Reset(chatID string) {
	st.mu.RLock()
	s, ok := st.sessions[chatID]
	st.mu.RUnlock()
	if ok {
		s.Reset()
	}
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
