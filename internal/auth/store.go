package auth

import (
	"context"

	"github.com/yachtexcel/fleetdeck/internal/authstate"
	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// SessionStore adapts the shared session manager to the coordinator's
// LocalStore contract: sign-out wipes the whole session namespace, no
// selective clearing.
type SessionStore struct {
	sessions *shared.SessionManager
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(sessions *shared.SessionManager) *SessionStore {
	return &SessionStore{sessions: sessions}
}

// Clear removes all persisted client session state.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.sessions.ClearNamespace(ctx)
}

var _ authstate.LocalStore = (*SessionStore)(nil)
