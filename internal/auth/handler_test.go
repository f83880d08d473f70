package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yachtexcel/fleetdeck/internal/auth"
	"github.com/yachtexcel/fleetdeck/internal/authstate"
	"github.com/yachtexcel/fleetdeck/internal/shared"
	_ "github.com/yachtexcel/fleetdeck/testing"
)

type stubRepo struct {
	user       *auth.User
	created    []*auth.User
	superadmin bool
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || !strings.EqualFold(s.user.Email, email) {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, user *auth.User) error {
	if s.user != nil && strings.EqualFold(s.user.Email, user.Email) {
		return shared.ErrDuplicate
	}
	s.created = append(s.created, user)
	s.user = user
	return nil
}

func (s *stubRepo) IsSuperadmin(ctx context.Context, userID string) (bool, error) {
	return s.superadmin, nil
}

func newTestHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *authstate.Coordinator) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	service := auth.NewService(repo)
	source := auth.NewSource(service, client, time.Hour, nil)
	coord := authstate.New(authstate.Config{
		AdminDomains:    []string{"yachtexcel.com"},
		InitTimeout:     time.Second,
		MaxInitAttempts: 3,
	}, authstate.Deps{Source: source, Privilege: service})
	coord.Initialize(context.Background())

	return auth.NewHandler(nil, coord, nil), coord
}

func activeUser(t *testing.T, email, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           "5f0c9a64-3c86-4f2f-9f6d-2b7f8f7f1a01",
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func mountedHandler(h *auth.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) { h.HandleLoginForTest(w, r) })
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) { h.HandleLogoutForTest(w, r) })
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) { h.HandleMeForTest(w, r) })
	return mux
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubRepo{user: activeUser(t, "captain@example.com", "correctpass")}
	handler, coord := newTestHandler(t, repo)

	res := doJSON(t, mountedHandler(handler), http.MethodPost, "/login",
		`{"email":"captain@example.com","password":"correctpass"}`)

	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var state struct {
		Authenticated bool     `json:"authenticated"`
		Roles         []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &state))
	assert.True(t, state.Authenticated)
	assert.Equal(t, []string{"user"}, state.Roles)
	assert.True(t, coord.Snapshot().Authenticated)
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := &stubRepo{user: activeUser(t, "captain@example.com", "correctpass")}
	handler, coord := newTestHandler(t, repo)

	res := doJSON(t, mountedHandler(handler), http.MethodPost, "/login",
		`{"email":"captain@example.com","password":"wrongpass1"}`)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	assert.True(t, coord.Snapshot().Guest)
}

func TestLoginValidationRejectsShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t, &stubRepo{})

	res := doJSON(t, mountedHandler(handler), http.MethodPost, "/login",
		`{"email":"captain@example.com","password":"short"}`)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLogoutTransitionsToGuest(t *testing.T) {
	repo := &stubRepo{user: activeUser(t, "harbor@yachtexcel.com", "correctpass")}
	handler, coord := newTestHandler(t, repo)
	mux := mountedHandler(handler)

	res := doJSON(t, mux, http.MethodPost, "/login",
		`{"email":"harbor@yachtexcel.com","password":"correctpass"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, coord.Snapshot().HasRole(authstate.RoleAdmin))

	res = doJSON(t, mux, http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.True(t, coord.Snapshot().Guest)
}

func TestMeReportsGuestByDefault(t *testing.T) {
	handler, _ := newTestHandler(t, &stubRepo{})

	res := doJSON(t, mountedHandler(handler), http.MethodGet, "/me", "")

	require.Equal(t, http.StatusOK, res.Code)
	var state struct {
		Authenticated bool     `json:"authenticated"`
		Roles         []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &state))
	assert.False(t, state.Authenticated)
	assert.Equal(t, []string{"guest"}, state.Roles)
}
