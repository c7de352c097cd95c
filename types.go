package session

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes returned by the identity provider
type Identity interface {
	ID() string
	Email() string
}

// IdentityProvider is the remote service that owns credentials and sessions
type IdentityProvider interface {
	// CurrentSession returns the identity of an existing session, or
	// (nil, nil) when no session is active.
	CurrentSession(ctx context.Context) (Identity, error)
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context) error
	UpdatePassword(ctx context.Context, newPassword string) (Identity, error)
}

// Profile is the extended profile row keyed by the identity id
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Hobbies     string `json:"hobbies,omitempty"`
	Curso       string `json:"curso,omitempty"`
	Age         int    `json:"age,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// ProfileStore is the remote store for extended profile attributes
type ProfileStore interface {
	Create(ctx context.Context, profile Profile) error
	// GetByID returns (nil, nil) when no profile row exists for id.
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, patch Patch) error
}

// Subscriber receives a copy of the snapshot on every broadcast
type Subscriber func(Snapshot)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
