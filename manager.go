package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
)

// Manager orchestrates login, logout, and registration against the identity
// provider and profile store. It is the only writer of the snapshot: every
// mutation goes through a merge that is broadcast to subscribers before the
// mutating call returns.
type Manager struct {
	provider IdentityProvider
	profiles ProfileStore
	store    *Store
	registry *Registry
	logger   Logger

	// mu serializes merge+broadcast pairs so subscribers always observe
	// merges in the order they were applied.
	mu sync.Mutex
	// gen increments on every identity change; profile fetches started
	// under an older generation are discarded instead of merged.
	gen uint64
}

// NewManager returns a Manager over the given provider and profile store,
// holding the null-identity initial snapshot.
func NewManager(provider IdentityProvider, profiles ProfileStore) *Manager {
	return &Manager{
		provider: provider,
		profiles: profiles,
		store:    NewStore(),
		registry: NewRegistry(),
		logger:   defLogger{},
	}
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	m.logger = logger
	m.registry.WithLogger(logger)
	return m
}

// Read returns the current snapshot.
func (m *Manager) Read() Snapshot {
	return m.store.Read()
}

// Subscribe registers fn for snapshot changes. fn is invoked immediately
// with the current snapshot and again after every merge. The returned
// cancel func removes the subscription.
func (m *Manager) Subscribe(fn Subscriber) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Subscribe(fn, m.store.Read())
}

// Bootstrap resolves an existing session from the identity provider. It is
// meant to be invoked once by the application's startup sequence. Finding
// no session is not an error; a provider failure is returned and leaves the
// snapshot at its null-identity initial state.
func (m *Manager) Bootstrap(ctx context.Context) error {
	identity, err := m.provider.CurrentSession(ctx)
	if err != nil {
		m.logger.Error("Bootstrap failed to resolve current session", "error", err)
		return errors.Wrap(err, errors.CategoryAuth, "failed to resolve current session").
			WithTextCode(TextCodeProviderUnavailable)
	}

	if identity == nil || identity.ID() == "" {
		m.logger.Debug("Bootstrap found no active session")
		return nil
	}

	gen := m.mergeIdentity(identity)
	m.loadExtendedProfile(ctx, identity.ID(), gen)

	return nil
}

// Register creates an account at the identity provider and a matching empty
// profile row. Profile creation is best-effort: a failure there is logged
// and the account is still considered created.
func (m *Manager) Register(ctx context.Context, email, password string) (Identity, error) {
	creds := Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	identity, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		m.logger.Error("Register sign up error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryAuth, "account creation failed").
			WithTextCode(TextCodeSignUpFailed).
			WithCode(errors.CodeUnauthorized)
	}

	if err := m.profiles.Create(ctx, Profile{ID: identity.ID(), Email: identity.Email()}); err != nil {
		m.logger.Warn("Register failed to create profile row", "user_id", identity.ID(), "error", err)
	}

	m.mergeIdentity(identity)

	return identity, nil
}

// Login authenticates against the identity provider. On success the
// identity fields are merged and broadcast first, then the extended profile
// is fetched and merged as a second broadcast before Login returns. A
// profile fetch failure is logged and does not fail the login.
func (m *Manager) Login(ctx context.Context, email, password string) (Identity, error) {
	creds := Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	identity, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.logger.Error("Login sign in error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryAuth, "invalid email or password").
			WithTextCode(TextCodeInvalidCredentials).
			WithCode(errors.CodeUnauthorized)
	}

	gen := m.mergeIdentity(identity)
	m.loadExtendedProfile(ctx, identity.ID(), gen)

	return identity, nil
}

// Logout ends the session at the identity provider, then clears the whole
// snapshot in a single merge. The snapshot is not cleared optimistically:
// if the provider call fails the local session stays as it was.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.provider.SignOut(ctx); err != nil {
		m.logger.Error("Logout sign out error", "error", err)
		return errors.Wrap(err, errors.CategoryAuth, "sign out failed").
			WithTextCode(TextCodeSignOutFailed).
			WithCode(errors.CodeUnauthorized)
	}

	m.mergeClear()

	return nil
}

// UpdateProfile writes patch to the profile store keyed by the current
// identity, then merges it locally. No local merge happens on failure.
func (m *Manager) UpdateProfile(ctx context.Context, patch Patch) error {
	current := m.store.Read()
	if !current.Authenticated() {
		return ErrNoActiveSession
	}

	if patch.IsZero() {
		return nil
	}

	if err := m.profiles.Update(ctx, current.ID, patch); err != nil {
		m.logger.Error("UpdateProfile store write error", "user_id", current.ID, "error", err)
		return errors.Wrap(err, errors.CategoryOperation, "failed to write profile").
			WithTextCode(TextCodeProfileWriteFailed).
			WithCode(errors.CodeInternal)
	}

	// a profile write must not move the session to another identity
	patch.ID = nil
	patch.Email = nil
	m.merge(patch)

	return nil
}

// UpdatePassword changes the password at the identity provider. The
// snapshot is left untouched; passwords are not part of it.
func (m *Manager) UpdatePassword(ctx context.Context, newPassword string) (Identity, error) {
	if !m.store.Read().Authenticated() {
		return nil, ErrNoActiveSession
	}

	if err := ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	identity, err := m.provider.UpdatePassword(ctx, newPassword)
	if err != nil {
		m.logger.Error("UpdatePassword provider error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryAuth, "password update failed").
			WithTextCode(TextCodePasswordUpdateFailed).
			WithCode(errors.CodeUnauthorized)
	}

	return identity, nil
}

func (m *Manager) loadExtendedProfile(ctx context.Context, id string, gen uint64) {
	profile, err := m.profiles.GetByID(ctx, id)
	if err != nil {
		m.logger.Warn("failed to load extended profile", "user_id", id, "error", err)
		return
	}

	if profile == nil {
		m.logger.Debug("no extended profile for user", "user_id", id)
		return
	}

	if !m.mergeProfileAt(gen, ProfilePatch(*profile)) {
		m.logger.Debug("discarding stale profile fetch", "user_id", id)
	}
}

func (m *Manager) mergeIdentity(identity Identity) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	next := m.store.apply(IdentityPatch(identity))
	m.registry.Broadcast(next)
	return m.gen
}

func (m *Manager) mergeClear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	next := m.store.apply(ClearPatch())
	m.registry.Broadcast(next)
}

func (m *Manager) merge(patch Patch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.store.apply(patch)
	m.registry.Broadcast(next)
}

func (m *Manager) mergeProfileAt(gen uint64, patch Patch) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		return false
	}

	next := m.store.apply(patch)
	m.registry.Broadcast(next)
	return true
}
