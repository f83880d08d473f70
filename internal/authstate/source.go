package authstate

import "context"

// ChangeEvent identifies the kind of external session transition delivered
// to the coordinator's change listener.
type ChangeEvent string

const (
	// EventSignedIn fires after a successful sign-in or sign-up.
	EventSignedIn ChangeEvent = "SIGNED_IN"
	// EventSignedOut fires after the backend session is destroyed.
	EventSignedOut ChangeEvent = "SIGNED_OUT"
	// EventTokenRefreshed fires when the backend rotates the access token.
	EventTokenRefreshed ChangeEvent = "TOKEN_REFRESHED"
)

// SessionSource is the external authentication backend contract. The
// coordinator registers exactly one change listener per process.
type SessionSource interface {
	// CurrentSession returns the active session, or nil when none exists.
	CurrentSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers fn for subsequent session transitions and
	// returns a cancel function that deregisters it.
	OnSessionChange(fn func(event ChangeEvent, sess *Session)) (cancel func())
	// SignInWithPassword authenticates email/password credentials.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp provisions a new account and signs it in.
	SignUp(ctx context.Context, email, password, redirectTo string) (*Session, error)
	// SignOut destroys the active backend session.
	SignOut(ctx context.Context) error
}

// PrivilegeChecker is the best-effort remote superadmin probe. Errors are
// swallowed by the detector and treated as "not privileged".
type PrivilegeChecker interface {
	IsSuperadmin(ctx context.Context, userID string) (bool, error)
}

// LocalStore abstracts the client-side persisted state cleared wholesale on
// sign-out. No selective-key clearing is supported.
type LocalStore interface {
	Clear(ctx context.Context) error
}
