package authstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	elevated bool
	err      error
	calls    int
}

func (s *stubChecker) IsSuperadmin(ctx context.Context, userID string) (bool, error) {
	s.calls++
	return s.elevated, s.err
}

func newTestDetector(checker PrivilegeChecker) *Detector {
	return NewDetector(testConfig(), checker, nil)
}

func TestDetectSuperadminEmailBeatsAdminDomain(t *testing.T) {
	det := newTestDetector(nil)

	// The address matches both the superadmin allow-list and the admin
	// domain heuristic; priority order must pick the allow-list.
	roles := det.Detect(context.Background(), Identity{Email: "superadmin@yachtexcel.com"})
	require.Equal(t, []Role{RoleSuperadmin}, roles)
}

func TestDetectEmailMatchIsCaseInsensitive(t *testing.T) {
	det := newTestDetector(nil)
	roles := det.Detect(context.Background(), Identity{Email: "SuperAdmin@YachtExcel.com"})
	assert.Equal(t, []Role{RoleSuperadmin}, roles)
}

func TestDetectSuperadminID(t *testing.T) {
	det := newTestDetector(nil)
	roles := det.Detect(context.Background(), Identity{ID: "73af070f-0168-4e4c-a42b-c58931a9009a"})
	assert.Equal(t, []Role{RoleSuperadmin}, roles)
}

func TestDetectClaims(t *testing.T) {
	det := newTestDetector(nil)

	tests := []struct {
		name  string
		ident Identity
		want  []Role
	}{
		{
			name:  "user metadata role claim",
			ident: Identity{ID: "u1", UserMetadata: map[string]any{"role": "global_superadmin"}},
			want:  []Role{RoleSuperadmin},
		},
		{
			name:  "app metadata boolean claim",
			ident: Identity{ID: "u1", AppMetadata: map[string]any{"is_superadmin": true}},
			want:  []Role{RoleSuperadmin},
		},
		{
			name:  "unrelated role claim falls through",
			ident: Identity{ID: "u1", Email: "x@example.com", UserMetadata: map[string]any{"role": "captain"}},
			want:  []Role{RoleUser},
		},
		{
			name:  "mistyped claim is rejected at the boundary",
			ident: Identity{ID: "u1", Email: "x@example.com", UserMetadata: map[string]any{"is_superadmin": "yes"}},
			want:  []Role{RoleUser},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, det.Detect(context.Background(), tc.ident))
		})
	}
}

func TestDetectPrivilegeCheck(t *testing.T) {
	checker := &stubChecker{elevated: true}
	det := newTestDetector(checker)

	roles := det.Detect(context.Background(), Identity{ID: "u9", Email: "ops@example.com"})
	require.Equal(t, []Role{RoleSuperadmin}, roles)
	assert.Equal(t, 1, checker.calls)
}

func TestDetectPrivilegeCheckFailureIsSwallowed(t *testing.T) {
	checker := &stubChecker{err: errors.New("rpc unavailable")}
	det := newTestDetector(checker)

	roles := det.Detect(context.Background(), Identity{ID: "u9", Email: "ops@example.com"})
	assert.Equal(t, []Role{RoleUser}, roles)
}

func TestDetectDomainHeuristics(t *testing.T) {
	det := newTestDetector(nil)

	assert.Equal(t, []Role{RoleAdmin}, det.Detect(context.Background(), Identity{ID: "u1", Email: "harbor@yachtexcel.com"}))
	assert.Equal(t, []Role{RoleManager}, det.Detect(context.Background(), Identity{ID: "u2", Email: "lead@crewmanager.example"}))
	assert.Equal(t, []Role{RoleUser}, det.Detect(context.Background(), Identity{ID: "u3", Email: "guest@sailmail.org"}))
	assert.Equal(t, []Role{RoleUser}, det.Detect(context.Background(), Identity{ID: "u4"}))
}

func TestPermissionDerivationIsPure(t *testing.T) {
	tests := []struct {
		roles []Role
		want  []string
	}{
		{[]Role{RoleSuperadmin}, []string{PermAll}},
		{[]Role{RoleAdmin}, []string{PermRead, PermWrite, PermAdmin}},
		{[]Role{RoleManager}, []string{PermRead, PermWrite}},
		{[]Role{RoleUser}, []string{PermRead}},
		{[]Role{RoleViewer}, []string{PermRead}},
		{[]Role{RoleGuest}, []string{}},
	}
	for _, tc := range tests {
		// Run twice: same input, same output, no hidden state.
		require.Equal(t, tc.want, PermissionsFor(tc.roles))
		require.Equal(t, tc.want, PermissionsFor(tc.roles))
	}
}
