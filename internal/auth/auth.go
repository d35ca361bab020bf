package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAccessDenied is matched by every *AccessDeniedError.
var ErrAccessDenied = errors.New("access denied")

type AccessDeniedError struct {
	ChatID string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied to %s", e.ChatID)
}

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// Session is the part of a chat session the gate reads and writes.
type Session interface {
	ChatID() string
	Allowed() bool
	MarkAllowed()
}

// Repository provides additional allowed chat ids loaded once at startup.
type Repository interface {
	LoadAll() ([]string, error)
}

// Gate checks chats against a static allow-list.
type Gate struct {
	allowed map[string]struct{}
}

// NewWithRepo builds the allow-list from the ids in initial merged with repo contents.
func NewWithRepo(repo Repository, initial []string) (*Gate, error) {
	g := &Gate{allowed: make(map[string]struct{})}
	if repo != nil {
		ids, err := repo.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("load allowlist: %w", err)
		}
		for _, id := range ids {
			g.add(id)
		}
	}
	for _, id := range initial {
		g.add(id)
	}
	return g, nil
}

func (g *Gate) add(id string) {
	if id = strings.TrimSpace(id); id != "" {
		g.allowed[id] = struct{}{}
	}
}

func (g *Gate) IsListed(chatID string) bool {
	_, ok := g.allowed[chatID]
	return ok
}

// Check permits a chat that already passed once, or that is on the allow-list.
// The first successful check is memoized in the session and never repeated.
func (g *Gate) Check(s Session) error {
	if s.Allowed() {
		return nil
	}
	if g.IsListed(s.ChatID()) {
		s.MarkAllowed()
		return nil
	}
	return &AccessDeniedError{ChatID: s.ChatID()}
}

func (g *Gate) Len() int { return len(g.allowed) }
