package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/campusfeed/go-session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

var _ session.IdentityProvider = (*Auth)(nil)

// Auth implements session.IdentityProvider against the GoTrue endpoints of
// a Supabase project. A successful sign in attaches the user's access token
// to the underlying client so data requests run under row level security.
type Auth struct {
	client *Client
	logger session.Logger
}

// NewAuth returns the identity provider for client.
func NewAuth(client *Client) *Auth {
	return &Auth{client: client, logger: client.logger}
}

func (a *Auth) WithLogger(logger session.Logger) *Auth {
	a.logger = logger
	return a
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	AccessToken string   `json:"access_token"`
	User        authUser `json:"user"`
	// signup without email confirmation returns the user at the top level
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Identity is the provider's identity record.
type Identity struct {
	id    string
	email string
}

func (i Identity) ID() string    { return i.id }
func (i Identity) Email() string { return i.email }

// CurrentSession resolves the identity from the access token held by the
// client. It returns (nil, nil) when no token is held or the token has
// expired.
func (a *Auth) CurrentSession(ctx context.Context) (session.Identity, error) {
	token := a.client.AccessToken()
	if token == "" {
		return nil, nil
	}

	identity, expiry, err := identityFromToken(token)
	if err != nil {
		a.logger.Warn("discarding unparseable access token", "error", err)
		a.client.ClearAccessToken()
		return nil, nil
	}

	if !expiry.IsZero() && time.Now().After(expiry) {
		a.logger.Debug("held access token expired", "user_id", identity.id)
		a.client.ClearAccessToken()
		return nil, nil
	}

	return identity, nil
}

// SignUp registers a new account.
func (a *Auth) SignUp(ctx context.Context, email, password string) (session.Identity, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	body, err := a.client.do(ctx, http.MethodPost, a.client.baseURL+"/auth/v1/signup", payload, headers)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode signup response")
	}

	if resp.AccessToken != "" {
		a.client.SetAccessToken(resp.AccessToken)
	}

	identity := Identity{id: resp.User.ID, email: resp.User.Email}
	if identity.id == "" {
		identity = Identity{id: resp.ID, email: resp.Email}
	}

	return identity, nil
}

// SignInWithPassword authenticates with the password grant.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (session.Identity, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	body, err := a.client.do(ctx, http.MethodPost, a.client.baseURL+"/auth/v1/token?grant_type=password", payload, headers)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode token response")
	}

	a.client.SetAccessToken(resp.AccessToken)

	return Identity{id: resp.User.ID, email: resp.User.Email}, nil
}

// SignOut revokes the session server-side, then drops the held token. The
// token is only dropped after the provider confirms.
func (a *Auth) SignOut(ctx context.Context) error {
	if a.client.AccessToken() == "" {
		return session.ErrNoActiveSession
	}

	_, err := a.client.do(ctx, http.MethodPost, a.client.baseURL+"/auth/v1/logout", nil, http.Header{})
	if err != nil {
		return err
	}

	a.client.ClearAccessToken()
	return nil
}

// UpdatePassword changes the password of the signed in user.
func (a *Auth) UpdatePassword(ctx context.Context, newPassword string) (session.Identity, error) {
	if a.client.AccessToken() == "" {
		return nil, session.ErrNoActiveSession
	}

	payload, _ := json.Marshal(map[string]string{"password": newPassword})

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	body, err := a.client.do(ctx, http.MethodPut, a.client.baseURL+"/auth/v1/user", payload, headers)
	if err != nil {
		return nil, err
	}

	var user authUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode user response")
	}

	return Identity{id: user.ID, email: user.Email}, nil
}

// identityFromToken reads sub, email, and exp from an access token. The
// token is not verified here: it was issued to this client by the provider
// and the backend re-verifies it on every request.
func identityFromToken(token string) (Identity, time.Time, error) {
	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, time.Time{}, err
	}

	identity := Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		identity.id = sub
	}
	if email, ok := claims["email"].(string); ok {
		identity.email = email
	}

	var expiry time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiry = exp.Time
	}

	return identity, expiry, nil
}
