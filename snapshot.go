package session

import (
	"fmt"

	"github.com/google/uuid"
)

// Snapshot is the current authenticated-identity state. It is a plain value:
// handing it to a subscriber or returning it from Read is already a
// defensive copy. An empty ID means no authenticated session, and implies
// every profile field is empty as well.
type Snapshot struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Hobbies     string `json:"hobbies,omitempty"`
	Curso       string `json:"curso,omitempty"`
	Age         int    `json:"age,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool {
	return s.ID != ""
}

// UserUUID parses the identity id into a UUID.
func (s Snapshot) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.ID)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("user=%s email=%s display_name=%s", s.ID, s.Email, s.DisplayName)
}

// Patch is a partial snapshot update. Nil fields are preserved; non-nil
// fields override, including overrides to the zero value.
type Patch struct {
	ID          *string
	Email       *string
	DisplayName *string
	Hobbies     *string
	Curso       *string
	Age         *int
	AvatarURL   *string
}

// String returns a pointer suitable for Patch fields.
func String(v string) *string {
	return &v
}

// Int returns a pointer suitable for Patch fields.
func Int(v int) *int {
	return &v
}

// IdentityPatch builds the patch merged when the provider confirms an identity.
func IdentityPatch(identity Identity) Patch {
	return Patch{
		ID:    String(identity.ID()),
		Email: String(identity.Email()),
	}
}

// ProfilePatch builds the patch merged when the extended profile arrives.
func ProfilePatch(profile Profile) Patch {
	return Patch{
		DisplayName: String(profile.DisplayName),
		Hobbies:     String(profile.Hobbies),
		Curso:       String(profile.Curso),
		Age:         Int(profile.Age),
		AvatarURL:   String(profile.AvatarURL),
	}
}

// ClearPatch builds the patch that clears the whole snapshot in one merge,
// so no subscriber can observe a partially logged out state.
func ClearPatch() Patch {
	return Patch{
		ID:          String(""),
		Email:       String(""),
		DisplayName: String(""),
		Hobbies:     String(""),
		Curso:       String(""),
		Age:         Int(0),
		AvatarURL:   String(""),
	}
}

func (p Patch) applyTo(s Snapshot) Snapshot {
	if p.ID != nil {
		s.ID = *p.ID
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.DisplayName != nil {
		s.DisplayName = *p.DisplayName
	}
	if p.Hobbies != nil {
		s.Hobbies = *p.Hobbies
	}
	if p.Curso != nil {
		s.Curso = *p.Curso
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.AvatarURL != nil {
		s.AvatarURL = *p.AvatarURL
	}
	return s
}

// IsZero reports whether the patch would change nothing.
func (p Patch) IsZero() bool {
	return p.ID == nil && p.Email == nil && p.DisplayName == nil &&
		p.Hobbies == nil && p.Curso == nil && p.Age == nil && p.AvatarURL == nil
}
