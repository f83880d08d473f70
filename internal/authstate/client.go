package authstate

import "context"

// Client is the per-consumer surface over a Coordinator. Creating a client
// registers its change callback and triggers initialization if it has not
// started yet; Close deregisters the callback.
type Client struct {
	coord *Coordinator
	unsub func()
}

// NewClient attaches a consumer to the coordinator. onChange may be nil for
// consumers that only poll. Initialization runs in the background so the
// caller is never blocked; Snapshot reports Loading until it completes.
func (c *Coordinator) NewClient(onChange func(Snapshot)) *Client {
	cl := &Client{coord: c}
	if onChange != nil {
		cl.unsub = c.Subscribe(onChange)
	}
	go c.Initialize(context.Background())
	return cl
}

// Snapshot returns the current auth state copy.
func (cl *Client) Snapshot() Snapshot {
	return cl.coord.Snapshot()
}

// HasRole reports whether the current identity carries the role.
func (cl *Client) HasRole(role Role) bool {
	return cl.coord.Snapshot().HasRole(role)
}

// HasAnyRole reports whether the current identity carries any of the roles.
func (cl *Client) HasAnyRole(roles ...Role) bool {
	return cl.coord.Snapshot().HasAnyRole(roles...)
}

// CanRead reports read access to the named resource.
func (cl *Client) CanRead(resource string) bool {
	return cl.can(PermRead, readScopes, resource)
}

// CanWrite reports write access to the named resource.
func (cl *Client) CanWrite(resource string) bool {
	return cl.can(PermWrite, writeScopes, resource)
}

// CanDelete reports delete access to the named resource. Deletion rides on
// the write permission with its own, tighter allow-list.
func (cl *Client) CanDelete(resource string) bool {
	return cl.can(PermWrite, deleteScopes, resource)
}

// CanAdmin reports administrative access to the named resource.
func (cl *Client) CanAdmin(resource string) bool {
	return cl.can(PermAdmin, adminScopes, resource)
}

func (cl *Client) can(perm string, scopes map[Role][]string, resource string) bool {
	snap := cl.coord.Snapshot()
	if !snap.HasPermission(perm) {
		return false
	}
	if snap.HasPermission(PermAll) {
		return true
	}
	return scopeAllows(scopes, snap.Roles, resource)
}

// SignIn delegates to the coordinator.
func (cl *Client) SignIn(ctx context.Context, email, password string) error {
	return cl.coord.SignIn(ctx, email, password)
}

// SignUp delegates to the coordinator.
func (cl *Client) SignUp(ctx context.Context, email, password, redirectTo string) error {
	return cl.coord.SignUp(ctx, email, password, redirectTo)
}

// SignOut delegates to the coordinator.
func (cl *Client) SignOut(ctx context.Context) error {
	return cl.coord.SignOut(ctx)
}

// RefreshRoles delegates to the coordinator.
func (cl *Client) RefreshRoles(ctx context.Context) {
	cl.coord.RefreshRoles(ctx)
}

// Close deregisters the client's change callback. The coordinator and its
// state outlive any client.
func (cl *Client) Close() {
	if cl.unsub != nil {
		cl.unsub()
		cl.unsub = nil
	}
}
