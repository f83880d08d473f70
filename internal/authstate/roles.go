package authstate

// Role names a privilege tier. The vocabulary is fixed; the detector only
// ever produces values from this set.
type Role string

const (
	// RoleSuperadmin grants unrestricted access across the platform.
	RoleSuperadmin Role = "superadmin"
	// RoleAdmin administers fleet resources and user accounts.
	RoleAdmin Role = "admin"
	// RoleManager operates day-to-day fleet workflows.
	RoleManager Role = "manager"
	// RoleUser is the default tier for any authenticated identity.
	RoleUser Role = "user"
	// RoleViewer has read-only access to a reduced resource set.
	RoleViewer Role = "viewer"
	// RoleGuest is the unauthenticated fallback tier.
	RoleGuest Role = "guest"
)

// Coarse permission vocabulary.
const (
	PermAll   = "*"
	PermRead  = "read"
	PermWrite = "write"
	PermAdmin = "admin"
)

// rolePermissions is the fixed role to permission lookup table. Permission
// sets are always derived from here, never stored independently.
var rolePermissions = map[Role][]string{
	RoleSuperadmin: {PermAll},
	RoleAdmin:      {PermRead, PermWrite, PermAdmin},
	RoleManager:    {PermRead, PermWrite},
	RoleUser:       {PermRead},
	RoleViewer:     {PermRead},
	RoleGuest:      {},
}

// PermissionsFor derives the permission set for a role list. The result is
// a pure function of the input: the union of each role's table entry in
// first-seen order.
func PermissionsFor(roles []Role) []string {
	seen := make(map[string]struct{}, 4)
	perms := make([]string, 0, 4)
	for _, role := range roles {
		for _, perm := range rolePermissions[role] {
			if _, ok := seen[perm]; ok {
				continue
			}
			seen[perm] = struct{}{}
			perms = append(perms, perm)
		}
	}
	return perms
}

// Per-role resource allow-lists consulted by the Can* predicates. Superadmin
// is absent on purpose: the wildcard permission bypasses scope checks.
var (
	readScopes = map[Role][]string{
		RoleAdmin:   {"vessels", "equipment", "inventory", "crew", "maintenance", "suppliers", "dashboard"},
		RoleManager: {"vessels", "equipment", "inventory", "crew", "maintenance", "suppliers", "dashboard"},
		RoleUser:    {"vessels", "equipment", "inventory", "maintenance", "dashboard"},
		RoleViewer:  {"vessels", "dashboard"},
	}
	writeScopes = map[Role][]string{
		RoleAdmin:   {"vessels", "equipment", "inventory", "crew", "maintenance", "suppliers"},
		RoleManager: {"equipment", "inventory", "maintenance"},
	}
	deleteScopes = map[Role][]string{
		RoleAdmin:   {"vessels", "equipment", "inventory", "crew", "maintenance", "suppliers"},
		RoleManager: {"inventory"},
	}
	adminScopes = map[Role][]string{
		RoleAdmin: {"users", "settings"},
	}
)

func scopeAllows(scopes map[Role][]string, roles []Role, resource string) bool {
	for _, role := range roles {
		for _, allowed := range scopes[role] {
			if allowed == resource {
				return true
			}
		}
	}
	return false
}
