package social_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/campusfeed/go-session/social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsCreate(t *testing.T) {
	var body map[string]any
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/comments", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	})

	err := social.NewComments(client, nil).Create(context.Background(), "p1", "u1", "buen post")

	require.NoError(t, err)
	assert.Equal(t, "p1", body["post_id"])
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, "buen post", body["body"])
}

func TestCommentsListForPost(t *testing.T) {
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "eq.p1", query.Get("post_id"))
		assert.Equal(t, "created_at.asc", query.Get("order"))

		w.Write([]byte(`[
			{"id":"c1","post_id":"p1","user_id":"u1","body":"primero"},
			{"id":"c2","post_id":"p1","user_id":"u2","body":"segundo"}
		]`))
	})

	comments, err := social.NewComments(client, nil).ListForPost(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "primero", comments[0].Body)
}

func TestCommentsRemoveIsAuthorScoped(t *testing.T) {
	var (
		method string
		query  map[string][]string
	)
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		query = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	})

	err := social.NewComments(client, nil).Remove(context.Background(), "c1", "u1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, []string{"eq.c1"}, query["id"])
	assert.Equal(t, []string{"eq.u1"}, query["user_id"])
}

func TestCommentsSubscribeRequiresRealtime(t *testing.T) {
	client := newFeedClient(t, func(w http.ResponseWriter, r *http.Request) {})

	err := social.NewComments(client, nil).Subscribe(context.Background(), "p1", func(social.Comment) {})

	assert.Error(t, err)
}
