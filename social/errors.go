package social

import "github.com/goliatone/go-errors"

const (
	TextCodePostNotFound    = "social_post_not_found"
	TextCodePostWriteFailed = "social_post_write_failed"
	TextCodeCommentFailed   = "social_comment_failed"
	TextCodeUploadFailed    = "social_upload_failed"
	TextCodeFeedUnavailable = "social_feed_unavailable"
)

// ErrPostNotFound is returned when a post id matches no row.
var ErrPostNotFound = errors.New("post not found", errors.CategoryNotFound).
	WithTextCode(TextCodePostNotFound).
	WithCode(errors.CodeNotFound)
