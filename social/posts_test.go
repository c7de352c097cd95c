package social_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusfeed/go-session/provider/supabase"
	"github.com/campusfeed/go-session/social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedClient(t *testing.T, handler http.HandlerFunc) *supabase.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := supabase.New(supabase.Config{
		URL:        server.URL,
		AnonKey:    "anon-key",
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)

	return client
}

func TestPostsCreate(t *testing.T) {
	t.Run("with image", func(t *testing.T) {
		var body map[string]any
		client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/posts", r.URL.Path)
			json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
		})

		err := social.NewPosts(client).Create(context.Background(), "u1", "hola!", "general", "https://cdn/img.png")

		require.NoError(t, err)
		assert.Equal(t, "u1", body["user_id"])
		assert.Equal(t, "hola!", body["body"])
		assert.Equal(t, "general", body["category"])
		assert.Equal(t, "https://cdn/img.png", body["image_url"])
	})

	t.Run("without image omits the column", func(t *testing.T) {
		var body map[string]any
		client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
		})

		err := social.NewPosts(client).Create(context.Background(), "u1", "hola!", "general", "")

		require.NoError(t, err)
		_, hasImage := body["image_url"]
		assert.False(t, hasImage)
	})
}

func TestPostsList(t *testing.T) {
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "*, user_profiles(id, email, display_name, hobbies, curso)", query.Get("select"))
		assert.Equal(t, "created_at.desc", query.Get("order"))

		w.Write([]byte(`[
			{"id":"p2","user_id":"u1","body":"segundo","category":"general",
			 "user_profiles":{"id":"u1","display_name":"Ana","curso":"4A"}},
			{"id":"p1","user_id":"u2","body":"primero","category":"dudas"}
		]`))
	})

	posts, err := social.NewPosts(client).List(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].ID)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "Ana", posts[0].Author.DisplayName)
	assert.Nil(t, posts[1].Author)
}

func TestPostsGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "eq.p1", r.URL.Query().Get("id"))
			w.Write([]byte(`{"id":"p1","user_id":"u1","body":"hola","category":"general"}`))
		})

		post, err := social.NewPosts(client).GetByID(context.Background(), "p1")

		require.NoError(t, err)
		assert.Equal(t, "hola", post.Body)
	})

	t.Run("missing", func(t *testing.T) {
		client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotAcceptable)
			w.Write([]byte(`{"message":"no rows"}`))
		})

		_, err := social.NewPosts(client).GetByID(context.Background(), "ghost")

		assert.ErrorIs(t, err, social.ErrPostNotFound)
	})
}

func TestPostsUploadImage(t *testing.T) {
	t.Run("empty payload means no image", func(t *testing.T) {
		calls := 0
		client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

		url, err := social.NewPosts(client).UploadImage(context.Background(), "u1", "pic.png", nil, "image/png")

		require.NoError(t, err)
		assert.Empty(t, url)
		assert.Zero(t, calls)
	})

	t.Run("uploads under the user folder", func(t *testing.T) {
		var path string
		client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.WriteHeader(http.StatusOK)
		})

		url, err := social.NewPosts(client).UploadImage(context.Background(), "u1", "pic.png", []byte("data"), "image/png")

		require.NoError(t, err)
		assert.Contains(t, path, "/storage/v1/object/post-images/u1/")
		assert.Contains(t, url, "/storage/v1/object/public/post-images/u1/")
	})
}
