package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yachtexcel/fleetdeck/internal/authstate"
)

const currentSessionKey = "fleetdeck:auth:current"

// Source implements the coordinator's SessionSource contract on top of the
// PostgreSQL account store and a Redis-persisted session record.
type Source struct {
	service *Service
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	listener func(authstate.ChangeEvent, *authstate.Session)
}

type sessionRecord struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSource constructs a Source.
func NewSource(service *Service, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{service: service, client: client, ttl: ttl, logger: logger}
}

// CurrentSession returns the persisted session, or nil when none exists or
// the recorded account no longer resolves.
func (s *Source) CurrentSession(ctx context.Context) (*authstate.Session, error) {
	raw, err := s.client.Get(ctx, currentSessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if time.Now().After(rec.ExpiresAt) {
		_ = s.client.Del(ctx, currentSessionKey).Err()
		return nil, nil
	}
	user, err := s.service.Lookup(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}
	return s.buildSession(rec, user), nil
}

// OnSessionChange registers the process-wide change listener.
func (s *Source) OnSessionChange(fn func(authstate.ChangeEvent, *authstate.Session)) func() {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.listener = nil
		s.mu.Unlock()
	}
}

// SignInWithPassword authenticates the credentials and persists a fresh
// session record.
func (s *Source) SignInWithPassword(ctx context.Context, email, password string) (*authstate.Session, error) {
	user, err := s.service.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, user)
}

// SignUp provisions an account and signs it in. The redirect target is
// accepted for interface compatibility; this backend has no email
// confirmation flow to redirect from.
func (s *Source) SignUp(ctx context.Context, email, password, redirectTo string) (*authstate.Session, error) {
	user, err := s.service.Register(ctx, email, password, "")
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, user)
}

// SignOut destroys the persisted session record.
func (s *Source) SignOut(ctx context.Context) error {
	if err := s.client.Del(ctx, currentSessionKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	s.emit(authstate.EventSignedOut, nil)
	return nil
}

func (s *Source) establish(ctx context.Context, user *User) (*authstate.Session, error) {
	rec := sessionRecord{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, currentSessionKey, raw, s.ttl).Err(); err != nil {
		return nil, err
	}
	sess := s.buildSession(rec, user)
	s.emit(authstate.EventSignedIn, sess)
	return sess, nil
}

func (s *Source) buildSession(rec sessionRecord, user *User) *authstate.Session {
	return &authstate.Session{
		AccessToken: rec.Token,
		ExpiresAt:   rec.ExpiresAt,
		Identity: authstate.Identity{
			ID:           user.ID,
			Email:        user.Email,
			UserMetadata: user.Metadata,
		},
	}
}

func (s *Source) emit(event authstate.ChangeEvent, sess *authstate.Session) {
	s.mu.Lock()
	fn := s.listener
	s.mu.Unlock()
	if fn != nil {
		fn(event, sess)
	}
}

var _ authstate.SessionSource = (*Source)(nil)
var _ authstate.PrivilegeChecker = (*Service)(nil)
