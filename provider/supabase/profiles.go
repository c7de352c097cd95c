package supabase

import (
	"context"

	"github.com/campusfeed/go-session"
	"github.com/goliatone/go-errors"
)

// ProfilesTable is the PostgREST table holding extended profile rows.
const ProfilesTable = "user_profiles"

var _ session.ProfileStore = (*Profiles)(nil)

// Profiles implements session.ProfileStore over the user_profiles table.
type Profiles struct {
	client *Client
	logger session.Logger
}

// NewProfiles returns the profile store for client.
func NewProfiles(client *Client) *Profiles {
	return &Profiles{client: client, logger: client.logger}
}

func (p *Profiles) WithLogger(logger session.Logger) *Profiles {
	p.logger = logger
	return p
}

// Create inserts the profile row. Registration calls this with the identity
// fields set and every extended attribute empty.
func (p *Profiles) Create(ctx context.Context, profile session.Profile) error {
	if err := p.client.From(ProfilesTable).Insert(ctx, profileRow(profile)); err != nil {
		p.logger.Error("failed to create profile row", "user_id", profile.ID, "error", err)
		return errors.Wrap(err, errors.CategoryOperation, "failed to create profile").
			WithTextCode(session.TextCodeProfileWriteFailed)
	}
	return nil
}

// GetByID fetches the profile row for id, or (nil, nil) when none exists.
func (p *Profiles) GetByID(ctx context.Context, id string) (*session.Profile, error) {
	var rec row
	err := p.client.From(ProfilesTable).Select("*").Eq("id", id).Single().Get(ctx, &rec)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		p.logger.Error("failed to fetch profile row", "user_id", id, "error", err)
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read profile").
			WithTextCode(session.TextCodeProfileReadFailed)
	}

	profile := rec.toProfile()
	return &profile, nil
}

// Update patches the profile row for id with the non-nil patch fields.
func (p *Profiles) Update(ctx context.Context, id string, patch session.Patch) error {
	columns := patchColumns(patch)
	if len(columns) == 0 {
		return nil
	}

	if err := p.client.From(ProfilesTable).Eq("id", id).Update(ctx, columns); err != nil {
		p.logger.Error("failed to update profile row", "user_id", id, "error", err)
		return errors.Wrap(err, errors.CategoryOperation, "failed to update profile").
			WithTextCode(session.TextCodeProfileWriteFailed)
	}
	return nil
}

// row mirrors the user_profiles columns.
type row struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name"`
	Hobbies     *string `json:"hobbies"`
	Curso       *string `json:"curso"`
	Age         *int    `json:"age"`
	AvatarURL   *string `json:"avatar_url"`
}

func (r row) toProfile() session.Profile {
	profile := session.Profile{ID: r.ID, Email: r.Email}
	if r.DisplayName != nil {
		profile.DisplayName = *r.DisplayName
	}
	if r.Hobbies != nil {
		profile.Hobbies = *r.Hobbies
	}
	if r.Curso != nil {
		profile.Curso = *r.Curso
	}
	if r.Age != nil {
		profile.Age = *r.Age
	}
	if r.AvatarURL != nil {
		profile.AvatarURL = *r.AvatarURL
	}
	return profile
}

func profileRow(profile session.Profile) map[string]any {
	return map[string]any{
		"id":           profile.ID,
		"email":        profile.Email,
		"display_name": nullable(profile.DisplayName),
		"hobbies":      nullable(profile.Hobbies),
		"curso":        nullable(profile.Curso),
		"age":          nullableInt(profile.Age),
		"avatar_url":   nullable(profile.AvatarURL),
	}
}

func patchColumns(patch session.Patch) map[string]any {
	columns := map[string]any{}
	if patch.DisplayName != nil {
		columns["display_name"] = *patch.DisplayName
	}
	if patch.Hobbies != nil {
		columns["hobbies"] = *patch.Hobbies
	}
	if patch.Curso != nil {
		columns["curso"] = *patch.Curso
	}
	if patch.Age != nil {
		columns["age"] = *patch.Age
	}
	if patch.AvatarURL != nil {
		columns["avatar_url"] = *patch.AvatarURL
	}
	return columns
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
