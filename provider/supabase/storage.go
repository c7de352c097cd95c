package supabase

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// PostImagesBucket is the storage bucket for feed post images.
const PostImagesBucket = "post-images"

// Storage uploads files to a Supabase storage bucket.
type Storage struct {
	client *Client
	bucket string
}

// Storage returns a client for bucket.
func (c *Client) Storage(bucket string) *Storage {
	return &Storage{client: c, bucket: bucket}
}

// Upload stores data at objectPath and returns its public URL.
func (s *Storage) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("no file data to upload", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	url := s.client.baseURL + "/storage/v1/object/" + s.bucket + "/" + objectPath
	if _, err := s.client.do(ctx, http.MethodPost, url, data, headers); err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "failed to upload file").
			WithMetadata(map[string]any{"bucket": s.bucket, "path": objectPath})
	}

	return s.PublicURL(objectPath), nil
}

// PublicURL returns the public URL for objectPath.
func (s *Storage) PublicURL(objectPath string) string {
	return s.client.baseURL + "/storage/v1/object/public/" + s.bucket + "/" + objectPath
}

// UserObjectPath builds a collision-free object path scoped to a user,
// keeping the original file extension.
func UserObjectPath(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return userID + "/" + uuid.NewString() + ext
}
