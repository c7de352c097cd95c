package social

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campusfeed/go-session"
	"github.com/campusfeed/go-session/provider/supabase"
	"github.com/goliatone/go-errors"
)

// CommentsTable is the remote table holding post comments.
const CommentsTable = "comments"

// Comment is a comment row on a post.
type Comment struct {
	ID        string     `json:"id,omitempty"`
	PostID    string     `json:"post_id"`
	UserID    string     `json:"user_id"`
	Body      string     `json:"body"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Comments is the post comment service.
type Comments struct {
	client   *supabase.Client
	realtime *supabase.Realtime
	logger   session.Logger
}

// NewComments returns the comment service for client. realtime may be nil
// when live comment delivery is not needed.
func NewComments(client *supabase.Client, realtime *supabase.Realtime) *Comments {
	return &Comments{client: client, realtime: realtime, logger: defLogger{}}
}

func (c *Comments) WithLogger(logger session.Logger) *Comments {
	c.logger = logger
	return c
}

// Create inserts a comment on a post.
func (c *Comments) Create(ctx context.Context, postID, userID, body string) error {
	comment := map[string]any{
		"post_id": postID,
		"user_id": userID,
		"body":    body,
	}

	if err := c.client.From(CommentsTable).Insert(ctx, comment); err != nil {
		c.logger.Error("failed to create comment", "post_id", postID, "user_id", userID, "error", err)
		return errors.Wrap(err, errors.CategoryOperation, "failed to create comment").
			WithTextCode(TextCodeCommentFailed)
	}
	return nil
}

// ListForPost returns the comments on a post, oldest first.
func (c *Comments) ListForPost(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	err := c.client.From(CommentsTable).
		Select("*").
		Eq("post_id", postID).
		Order("created_at", true).
		Get(ctx, &comments)
	if err != nil {
		c.logger.Error("failed to list comments", "post_id", postID, "error", err)
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to list comments").
			WithTextCode(TextCodeCommentFailed)
	}
	return comments, nil
}

// Remove deletes a comment, scoped to its author so a user cannot delete
// someone else's comment even before row level security rejects it.
func (c *Comments) Remove(ctx context.Context, commentID, userID string) error {
	err := c.client.From(CommentsTable).
		Eq("id", commentID).
		Eq("user_id", userID).
		Delete(ctx)
	if err != nil {
		c.logger.Error("failed to remove comment", "comment_id", commentID, "error", err)
		return errors.Wrap(err, errors.CategoryOperation, "failed to remove comment").
			WithTextCode(TextCodeCommentFailed)
	}
	return nil
}

// Subscribe forwards new comments on postID to handler as they are
// inserted remotely. The realtime connection must already be established.
func (c *Comments) Subscribe(ctx context.Context, postID string, handler func(Comment)) error {
	if c.realtime == nil {
		return errors.New("comment service has no realtime client", errors.CategoryOperation).
			WithCode(errors.CodeInternal)
	}

	filter := "post_id=eq." + postID
	return c.realtime.OnInsert(ctx, CommentsTable, filter, func(event supabase.ChangeEvent) {
		comment, err := commentFromRecord(event.Record)
		if err != nil {
			c.logger.Warn("dropping undecodable comment event", "post_id", postID, "error", err)
			return
		}
		handler(comment)
	})
}

func commentFromRecord(record map[string]any) (Comment, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return Comment{}, err
	}

	var comment Comment
	if err := json.Unmarshal(raw, &comment); err != nil {
		return Comment{}, err
	}
	return comment, nil
}
