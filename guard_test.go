package session_test

import (
	"context"
	"testing"

	"github.com/campusfeed/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appRoutes = session.Routes{
	{Path: "/", RequiresAuth: false},
	{Path: "/iniciar-sesion", RequiresAuth: false},
	{Path: "/registro", RequiresAuth: false},
	{Path: "/publicacion", RequiresAuth: true},
	{Path: "/mi-perfil", RequiresAuth: true},
}

func TestRoutesResolve(t *testing.T) {
	route, ok := appRoutes.Resolve("/mi-perfil")
	require.True(t, ok)
	assert.True(t, route.RequiresAuth)

	route, ok = appRoutes.Resolve("/")
	require.True(t, ok)
	assert.False(t, route.RequiresAuth)

	_, ok = appRoutes.Resolve("/nope")
	assert.False(t, ok)
}

func TestGuardRedirectsAnonymousUsers(t *testing.T) {
	manager, _, _ := newManager()
	guard := session.NewGuard(manager, "/iniciar-sesion")
	defer guard.Close()

	// first navigation, before any auth operation ran
	decision := guard.Check(session.Route{Path: "/publicacion", RequiresAuth: true})
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/iniciar-sesion", decision.RedirectTo)

	decision = guard.Check(session.Route{Path: "/", RequiresAuth: false})
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.RedirectTo)
}

func TestGuardFollowsSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	manager, provider, profiles := newManager()
	provider.On("SignInWithPassword", ctx, "a@b.com", "secret1").
		Return(TestIdentity{id: "u1", email: "a@b.com"}, nil).Once()
	profiles.On("GetByID", ctx, "u1").Return(nil, nil).Once()
	provider.On("SignOut", ctx).Return(nil).Once()

	guard := session.NewGuard(manager, "/iniciar-sesion")
	defer guard.Close()

	protected := session.Route{Path: "/mi-perfil", RequiresAuth: true}

	assert.False(t, guard.Check(protected).Allowed)

	_, err := manager.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.True(t, guard.Check(protected).Allowed)

	require.NoError(t, manager.Logout(ctx))
	decision := guard.Check(protected)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/iniciar-sesion", decision.RedirectTo)
}

func TestGuardCloseStopsTracking(t *testing.T) {
	ctx := context.Background()
	manager, provider, profiles := newManager()
	provider.On("SignInWithPassword", ctx, "a@b.com", "secret1").
		Return(TestIdentity{id: "u1", email: "a@b.com"}, nil).Once()
	profiles.On("GetByID", ctx, "u1").Return(nil, nil).Once()

	guard := session.NewGuard(manager, "/iniciar-sesion")
	guard.Close()

	_, err := manager.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	// the guard stopped listening before the login happened
	assert.False(t, guard.Check(session.Route{RequiresAuth: true}).Allowed)
}
