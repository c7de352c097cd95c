package session_test

import (
	stderrors "errors"
	"testing"

	"github.com/campusfeed/go-session"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestIsAuthError(t *testing.T) {
	assert.True(t, session.IsAuthError(session.ErrInvalidCredentials))
	assert.True(t, session.IsAuthError(session.ErrNoActiveSession))
	assert.True(t, session.IsAuthError(session.ErrSignOutFailed))

	wrapped := errors.Wrap(stderrors.New("boom"), errors.CategoryAuth, "sign in failed")
	assert.True(t, session.IsAuthError(wrapped))

	assert.False(t, session.IsAuthError(nil))
	assert.False(t, session.IsAuthError(stderrors.New("plain")))
	assert.False(t, session.IsAuthError(session.ErrProfileNotFound))
}

func TestIsProfileError(t *testing.T) {
	assert.True(t, session.IsProfileError(session.ErrProfileNotFound))
	assert.True(t, session.IsProfileError(session.ErrProfileReadFailed))
	assert.True(t, session.IsProfileError(session.ErrProfileWriteFailed))

	assert.False(t, session.IsProfileError(nil))
	assert.False(t, session.IsProfileError(session.ErrInvalidCredentials))
	assert.False(t, session.IsProfileError(stderrors.New("plain")))
}
