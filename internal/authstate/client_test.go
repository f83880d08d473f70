package authstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientWithRole(t *testing.T, email string) *Client {
	t.Helper()
	src := &stubSource{session: &Session{AccessToken: "tok", Identity: Identity{ID: "u1", Email: email}}}
	coord := New(testConfig(), Deps{Source: src})
	coord.Initialize(context.Background())
	cl := coord.NewClient(nil)
	t.Cleanup(cl.Close)
	return cl
}

func TestClientPredicatesManager(t *testing.T) {
	cl := clientWithRole(t, "lead@crewmanager.example")
	require.True(t, cl.HasRole(RoleManager))
	require.True(t, cl.HasAnyRole(RoleAdmin, RoleManager))

	assert.True(t, cl.CanRead("vessels"))
	assert.True(t, cl.CanWrite("equipment"))
	assert.True(t, cl.CanDelete("inventory"))
	assert.False(t, cl.CanDelete("vessels"))
	assert.False(t, cl.CanWrite("vessels"))
	assert.False(t, cl.CanAdmin("users"))
}

func TestClientPredicatesAdmin(t *testing.T) {
	cl := clientWithRole(t, "harbor@yachtexcel.com")
	require.True(t, cl.HasRole(RoleAdmin))

	assert.True(t, cl.CanWrite("vessels"))
	assert.True(t, cl.CanDelete("crew"))
	assert.True(t, cl.CanAdmin("settings"))
	assert.False(t, cl.CanAdmin("vessels"), "admin scope is its own allow-list")
}

func TestClientPredicatesDefaultUser(t *testing.T) {
	cl := clientWithRole(t, "deckhand@sailmail.org")
	require.True(t, cl.HasRole(RoleUser))

	assert.True(t, cl.CanRead("inventory"))
	assert.False(t, cl.CanRead("suppliers"))
	assert.False(t, cl.CanWrite("inventory"))
	assert.False(t, cl.CanAdmin("users"))
}

func TestClientPredicatesGuest(t *testing.T) {
	src := &stubSource{}
	coord := New(testConfig(), Deps{Source: src})
	coord.Initialize(context.Background())
	cl := coord.NewClient(nil)
	defer cl.Close()

	require.True(t, cl.Snapshot().Guest)
	assert.False(t, cl.CanRead("vessels"))
	assert.False(t, cl.CanWrite("equipment"))
}

func TestClientCloseStopsNotifications(t *testing.T) {
	src := &stubSource{session: &Session{AccessToken: "tok", Identity: Identity{ID: "u1"}}}
	coord := New(testConfig(), Deps{Source: src})
	coord.Initialize(context.Background())

	notified := 0
	cl := coord.NewClient(func(Snapshot) { notified++ })
	cl.Close()

	src.emit(EventTokenRefreshed, &Session{AccessToken: "tok2", Identity: Identity{ID: "u1"}})
	assert.Zero(t, notified)
}
