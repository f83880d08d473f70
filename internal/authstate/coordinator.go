// Package authstate coordinates the process-wide authentication state:
// it mirrors the backend session, derives roles and permissions from the
// identity, and fans state changes out to registered subscribers.
package authstate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultInitTimeout  = 15 * time.Second
	defaultInitAttempts = 3
)

// Config carries the injected role-detection and bootstrap settings.
// Superadmin identities are configuration, not code: the composition root
// decides which bootstrap accounts exist.
type Config struct {
	SuperadminEmails []string
	SuperadminIDs    []string
	AdminDomains     []string
	ManagerDomains   []string

	// InitTimeout bounds each session fetch during initialization.
	InitTimeout time.Duration
	// MaxInitAttempts caps initialization retries before the terminal
	// guest state is forced.
	MaxInitAttempts int
}

func (c Config) withDefaults() Config {
	if c.InitTimeout <= 0 {
		c.InitTimeout = defaultInitTimeout
	}
	if c.MaxInitAttempts <= 0 {
		c.MaxInitAttempts = defaultInitAttempts
	}
	return c
}

// Deps groups the coordinator's external collaborators. Privilege, Store
// and Logger are optional.
type Deps struct {
	Source    SessionSource
	Privilege PrivilegeChecker
	Store     LocalStore
	Logger    *slog.Logger
}

// Snapshot is a copy of the master auth state handed to subscribers and
// predicate callers. Mutating a snapshot has no effect on the coordinator.
type Snapshot struct {
	Session       *Session
	User          *Identity
	Roles         []Role
	Permissions   []string
	Authenticated bool
	Superadmin    bool
	Admin         bool
	Guest         bool
	Loading       bool
	Initialized   bool
	UpdatedAt     time.Time
}

// HasRole reports whether the snapshot carries the role.
func (s Snapshot) HasRole(role Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the snapshot carries at least one of the roles.
func (s Snapshot) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// HasPermission reports whether the permission set grants perm, honouring
// the wildcard.
func (s Snapshot) HasPermission(perm string) bool {
	for _, p := range s.Permissions {
		if p == PermAll || p == perm {
			return true
		}
	}
	return false
}

// Coordinator owns the single mutable auth state record. All mutation goes
// through the mutex; subscribers only ever observe completed writes.
type Coordinator struct {
	cfg      Config
	source   SessionSource
	store    LocalStore
	detector *Detector
	logger   *slog.Logger

	mu      sync.Mutex
	state   Snapshot
	subs    map[int]func(Snapshot)
	nextSub int

	initGroup  singleflight.Group
	listenOnce sync.Once
}

// New constructs a Coordinator in the uninitialized state.
func New(cfg Config, deps Deps) *Coordinator {
	cfg = cfg.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		cfg:      cfg,
		source:   deps.Source,
		store:    deps.Store,
		detector: NewDetector(cfg, deps.Privilege, logger),
		logger:   logger,
		state:    Snapshot{Loading: true},
		subs:     make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current master auth state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	snap := c.state
	if c.state.Session != nil {
		sess := *c.state.Session
		snap.Session = &sess
		ident := c.state.Session.Identity
		snap.User = &ident
	}
	snap.Roles = append([]Role(nil), c.state.Roles...)
	snap.Permissions = append([]string(nil), c.state.Permissions...)
	return snap
}

// Subscribe registers fn for every subsequent state change and returns the
// matching unsubscribe function. Subscribers receive snapshot copies; a
// panicking subscriber never blocks the others.
func (c *Coordinator) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) notifyAll() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		c.notifyOne(fn, snap)
	}
}

func (c *Coordinator) notifyOne(fn func(Snapshot), snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("auth subscriber panicked", slog.Any("panic", r))
		}
	}()
	fn(snap)
}

// Initialize populates the master auth state. Concurrent callers share a
// single underlying run; once initialized, later calls return the current
// state without touching the backend. Initialization never fails: every
// error path terminates in a guest state with Initialized set.
func (c *Coordinator) Initialize(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.state.Initialized {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.mu.Unlock()

	ch := c.initGroup.DoChan("init", func() (any, error) {
		c.mu.Lock()
		if c.state.Initialized {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		c.mu.Unlock()
		return c.runInit(), nil
	})

	select {
	case <-ctx.Done():
		// The caller gave up; initialization keeps running for the rest.
		return c.Snapshot()
	case res := <-ch:
		return res.Val.(Snapshot)
	}
}

func (c *Coordinator) runInit() Snapshot {
	for attempt := 1; attempt <= c.cfg.MaxInitAttempts; attempt++ {
		sess, err := c.fetchSession()
		if err == nil {
			c.install(context.Background(), sess)
			c.ensureListener()
			return c.Snapshot()
		}
		c.logger.Warn("auth initialization attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", c.cfg.MaxInitAttempts),
			slog.Any("error", err))
	}

	// Attempts exhausted: terminal guest state rather than looping forever.
	c.logger.Error("auth initialization exhausted retries, forcing guest state")
	c.install(context.Background(), nil)
	c.ensureListener()
	return c.Snapshot()
}

// fetchSession performs one bounded session fetch. A deadline hit is "no
// session", not an error: the backend being slow must not block readiness.
func (c *Coordinator) fetchSession() (sess *Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			sess = nil
			err = fmt.Errorf("session fetch panicked: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.InitTimeout)
	defer cancel()

	sess, err = c.source.CurrentSession(ctx)
	if err != nil && ctx.Err() != nil {
		c.logger.Warn("session fetch timed out, treating as signed out")
		return nil, nil
	}
	return sess, err
}

// ensureListener registers the external session-change listener exactly once
// per process lifetime.
func (c *Coordinator) ensureListener() {
	c.listenOnce.Do(func() {
		c.source.OnSessionChange(func(event ChangeEvent, sess *Session) {
			ctx, cancel := context.WithTimeout(context.Background(), c.cfg.InitTimeout)
			defer cancel()
			if event == EventSignedOut {
				c.clearLocalStore(ctx)
			}
			c.install(ctx, sess)
		})
	})
}

// install writes a new master auth state derived from sess and notifies all
// subscribers. A nil session produces the guest state. Initialized is
// monotonic: install always sets it and nothing ever unsets it.
func (c *Coordinator) install(ctx context.Context, sess *Session) {
	roles := []Role{RoleGuest}
	if sess != nil {
		roles = c.detector.Detect(ctx, sess.Identity)
	}
	perms := PermissionsFor(roles)

	c.mu.Lock()
	c.state = Snapshot{
		Session:       sess,
		Roles:         roles,
		Permissions:   perms,
		Authenticated: sess != nil,
		Superadmin:    containsRole(roles, RoleSuperadmin),
		Admin:         containsRole(roles, RoleSuperadmin) || containsRole(roles, RoleAdmin),
		Guest:         sess == nil,
		Loading:       false,
		Initialized:   true,
		UpdatedAt:     time.Now().UTC(),
	}
	if sess != nil {
		ident := sess.Identity
		c.state.User = &ident
	}
	c.mu.Unlock()

	c.notifyAll()
}

// SignIn authenticates against the backend and installs the new session.
// Failures are returned to the caller; local state is left untouched.
func (c *Coordinator) SignIn(ctx context.Context, email, password string) error {
	sess, err := c.source.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	c.install(ctx, sess)
	return nil
}

// SignUp provisions a new account and installs its session.
func (c *Coordinator) SignUp(ctx context.Context, email, password, redirectTo string) error {
	sess, err := c.source.SignUp(ctx, email, password, redirectTo)
	if err != nil {
		return err
	}
	c.install(ctx, sess)
	return nil
}

// SignOut clears local persisted state and transitions to guest before the
// backend call resolves. The optimistic transition is never rolled back: a
// failed remote sign-out is reported to the caller but the local state
// stays guest until the next session-change event.
func (c *Coordinator) SignOut(ctx context.Context) error {
	c.clearLocalStore(ctx)
	c.install(ctx, nil)

	if err := c.source.SignOut(ctx); err != nil {
		c.logger.Warn("remote sign-out failed, keeping local guest state", slog.Any("error", err))
		return err
	}
	return nil
}

// RefreshRoles re-fetches the backend session and re-runs role detection.
func (c *Coordinator) RefreshRoles(ctx context.Context) {
	sess, err := c.source.CurrentSession(ctx)
	if err != nil {
		c.logger.Warn("refresh roles: session fetch failed", slog.Any("error", err))
		return
	}
	c.install(ctx, sess)
}

func (c *Coordinator) clearLocalStore(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("clear local auth store", slog.Any("error", err))
	}
}

func containsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
