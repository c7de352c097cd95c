package session_test

import (
	"context"

	"github.com/campusfeed/go-session"
	"github.com/stretchr/testify/mock"
)

// TestIdentity is a simple implementation of the Identity interface
type TestIdentity struct {
	id    string
	email string
}

func (t TestIdentity) ID() string    { return t.id }
func (t TestIdentity) Email() string { return t.email }

// MockIdentityProvider implements session.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CurrentSession(ctx context.Context) (session.Identity, error) {
	args := m.Called(ctx)
	if identity, ok := args.Get(0).(session.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) (session.Identity, error) {
	args := m.Called(ctx, email, password)
	if identity, ok := args.Get(0).(session.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (session.Identity, error) {
	args := m.Called(ctx, email, password)
	if identity, ok := args.Get(0).(session.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIdentityProvider) UpdatePassword(ctx context.Context, newPassword string) (session.Identity, error) {
	args := m.Called(ctx, newPassword)
	if identity, ok := args.Get(0).(session.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProfileStore implements session.ProfileStore
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Create(ctx context.Context, profile session.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileStore) GetByID(ctx context.Context, id string) (*session.Profile, error) {
	args := m.Called(ctx, id)
	if profile, ok := args.Get(0).(*session.Profile); ok {
		return profile, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileStore) Update(ctx context.Context, id string, patch session.Patch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

// recorder collects every snapshot a subscriber receives
type recorder struct {
	snapshots []session.Snapshot
}

func (r *recorder) record(snapshot session.Snapshot) {
	r.snapshots = append(r.snapshots, snapshot)
}

func (r *recorder) last() session.Snapshot {
	return r.snapshots[len(r.snapshots)-1]
}
