// Package social holds the thin feed services of the campusfeed client:
// posts and comments are pass-throughs over the remote tables, with image
// uploads going through storage and new comments arriving over realtime.
package social

import (
	"context"
	"time"

	"github.com/campusfeed/go-session"
	"github.com/campusfeed/go-session/provider/supabase"
	"github.com/goliatone/go-errors"
)

// PostsTable is the remote table holding feed posts.
const PostsTable = "posts"

// Author is the joined profile slice rendered next to a post.
type Author struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Hobbies     string `json:"hobbies"`
	Curso       string `json:"curso"`
}

// Post is a feed post row.
type Post struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	Body      string     `json:"body"`
	Category  string     `json:"category"`
	ImageURL  string     `json:"image_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Author    *Author    `json:"user_profiles,omitempty"`
}

// Posts is the feed post service.
type Posts struct {
	client *supabase.Client
	logger session.Logger
}

// NewPosts returns the post service for client.
func NewPosts(client *supabase.Client) *Posts {
	return &Posts{client: client, logger: defLogger{}}
}

func (p *Posts) WithLogger(logger session.Logger) *Posts {
	p.logger = logger
	return p
}

// UploadImage stores a post image under the user's folder and returns its
// public URL. An empty payload is not an error: the post simply has no image.
func (p *Posts) UploadImage(ctx context.Context, userID, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	objectPath := supabase.UserObjectPath(userID, filename)
	url, err := p.client.Storage(supabase.PostImagesBucket).Upload(ctx, objectPath, data, contentType)
	if err != nil {
		p.logger.Error("failed to upload post image", "user_id", userID, "error", err)
		return "", errors.Wrap(err, errors.CategoryOperation, "failed to upload post image").
			WithTextCode(TextCodeUploadFailed)
	}

	return url, nil
}

// Create inserts a post. imageURL may be empty.
func (p *Posts) Create(ctx context.Context, userID, body, category, imageURL string) error {
	post := map[string]any{
		"user_id":  userID,
		"body":     body,
		"category": category,
	}
	if imageURL != "" {
		post["image_url"] = imageURL
	}

	if err := p.client.From(PostsTable).Insert(ctx, post); err != nil {
		p.logger.Error("failed to create post", "user_id", userID, "error", err)
		return errors.Wrap(err, errors.CategoryOperation, "failed to create post").
			WithTextCode(TextCodePostWriteFailed)
	}
	return nil
}

// List returns every post with its author profile joined, newest first.
func (p *Posts) List(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := p.client.From(PostsTable).
		Select("*, user_profiles(id, email, display_name, hobbies, curso)").
		Order("created_at", false).
		Get(ctx, &posts)
	if err != nil {
		p.logger.Error("failed to list posts", "error", err)
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to list posts").
			WithTextCode(TextCodeFeedUnavailable)
	}
	return posts, nil
}

// GetByID returns a single post.
func (p *Posts) GetByID(ctx context.Context, id string) (*Post, error) {
	var post Post
	err := p.client.From(PostsTable).Select("*").Eq("id", id).Single().Get(ctx, &post)
	if err != nil {
		if supabase.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		p.logger.Error("failed to fetch post", "post_id", id, "error", err)
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to fetch post").
			WithTextCode(TextCodeFeedUnavailable)
	}
	return &post, nil
}

type defLogger struct{}

func (defLogger) Debug(format string, args ...any) {}
func (defLogger) Info(format string, args ...any)  {}
func (defLogger) Warn(format string, args ...any)  {}
func (defLogger) Error(format string, args ...any) {}
