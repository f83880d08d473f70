package authstate

import (
	"encoding/json"
	"time"
)

// Identity is the stable user-identifying record embedded in a session.
// The metadata maps carry free-form backend claims; role-relevant keys are
// extracted through the typed Claims schema, never probed directly.
type Identity struct {
	ID           string
	Email        string
	UserMetadata map[string]any
	AppMetadata  map[string]any
}

// Session mirrors the authenticated connection state owned by the session
// source. The coordinator never mutates a session, only replaces its copy.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	Identity    Identity
}

// Claims is the versioned role claim schema accepted from identity metadata.
// Any shape mismatch during decoding is treated as "no claims" so detection
// falls through to the next heuristic.
type Claims struct {
	Role         string `json:"role"`
	IsSuperadmin bool   `json:"is_superadmin"`
}

// SuperadminClaim is the role claim value that elevates an identity.
const SuperadminClaim = "global_superadmin"

// decodeClaims validates a metadata map against the Claims schema. Unknown
// keys are ignored; mistyped known keys fail the whole decode.
func decodeClaims(meta map[string]any) (Claims, bool) {
	if len(meta) == 0 {
		return Claims{}, false
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return Claims{}, false
	}
	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return Claims{}, false
	}
	return claims, true
}

// Elevated reports whether the claims mark the identity as superadmin.
func (c Claims) Elevated() bool {
	return c.IsSuperadmin || c.Role == SuperadminClaim
}
