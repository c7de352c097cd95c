package session_test

import (
	"context"
	"testing"

	"github.com/campusfeed/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreInitialSnapshot(t *testing.T) {
	store := session.NewStore()
	assert.Equal(t, session.Snapshot{}, store.Read())
}

// Whatever sequence of merges runs, an empty identity must mean an empty
// snapshot: profile fields cannot survive a logout or arrive before login.
func TestStoreEmptyIdentityImpliesEmptySnapshot(t *testing.T) {
	manager, provider, profiles := newManager()

	identity := TestIdentity{id: "u1", email: "a@b.com"}
	provider.On("SignInWithPassword", mock.Anything, "a@b.com", "secret1").Return(identity, nil).Once()
	profiles.On("GetByID", mock.Anything, "u1").Return(&session.Profile{
		ID: "u1", Email: "a@b.com", DisplayName: "Ana", Hobbies: "chess", Curso: "4A", Age: 21,
	}, nil).Once()
	provider.On("SignOut", mock.Anything).Return(nil).Once()

	_, err := manager.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.True(t, manager.Read().Authenticated())

	require.NoError(t, manager.Logout(context.Background()))

	got := manager.Read()
	assert.Equal(t, session.Snapshot{}, got)
	assert.Empty(t, got.DisplayName)
	assert.Empty(t, got.Hobbies)
	assert.Empty(t, got.Curso)
	assert.Zero(t, got.Age)
	assert.Empty(t, got.AvatarURL)
}
