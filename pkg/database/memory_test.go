package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx, "users", "u1", map[string]interface{}{"displayName": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = store.Create(ctx, "users", "u1", map[string]interface{}{})
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "users/u1", doc.Path)
	assert.Equal(t, "Ann", doc.Data["displayName"])

	generated, err := store.Create(ctx, "users", "", map[string]interface{}{})
	require.NoError(t, err)
	assert.NotEmpty(t, generated)

	_, err = store.Get(ctx, "users", "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{
		"prefs": map[string]interface{}{"messages": true},
	}))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	doc.Data["prefs"].(map[string]interface{})["messages"] = false

	again, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, true, again.Data["prefs"].(map[string]interface{})["messages"])
}

func TestMemoryStoreMergeAndIncrement(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Merge(ctx, "conversations", "a_b", map[string]interface{}{
		"lastMessage": "hi",
		"unreadCount": map[string]interface{}{"b": Increment(1)},
	}))
	require.NoError(t, store.Merge(ctx, "conversations", "a_b", map[string]interface{}{
		"unreadCount": map[string]interface{}{"b": Increment(1), "a": Increment(0)},
	}))

	doc, err := store.Get(ctx, "conversations", "a_b")
	require.NoError(t, err)
	assert.Equal(t, "hi", doc.Data["lastMessage"])
	counts := doc.Data["unreadCount"].(map[string]interface{})
	assert.Equal(t, int64(2), counts["b"])
	assert.Equal(t, int64(0), counts["a"])
}

func TestMemoryStoreSetReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "weekendStatuses", "u1", map[string]interface{}{"status": "lookingToPlay", "courseName": "Pebble"}))
	require.NoError(t, store.Set(ctx, "weekendStatuses", "u1", map[string]interface{}{"status": "alreadyPlaying"}))

	doc, err := store.Get(ctx, "weekendStatuses", "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"status": "alreadyPlaying"}, doc.Data)
}

func TestMemoryStoreDeleteFieldIfEqual(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"fcmToken": "fresh"}))

	deleted, err := store.DeleteFieldIfEqual(ctx, "users", "u1", "fcmToken", "stale")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteFieldIfEqual(ctx, "users", "u1", "fcmToken", "fresh")
	require.NoError(t, err)
	assert.True(t, deleted)
	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.NotContains(t, doc.Data, "fcmToken")

	deleted, err = store.DeleteFieldIfEqual(ctx, "users", "nobody", "fcmToken", "fresh")
	require.NoError(t, err)
	assert.False(t, deleted)
}


func TestMemoryStoreQueryByField(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "friendships", "a_b", map[string]interface{}{"participants": []string{"a", "b"}}))
	require.NoError(t, store.Set(ctx, "friendships", "a_c", map[string]interface{}{"participants": []interface{}{"a", "c"}}))
	require.NoError(t, store.Set(ctx, "friendships", "b_c", map[string]interface{}{"participants": []string{"b", "c"}}))

	docs, err := store.QueryByField(ctx, "friendships", "participants", OpArrayContains, "a")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a_b", docs[0].ID)
	assert.Equal(t, "a_c", docs[1].ID)

	require.NoError(t, store.Set(ctx, "friendRequests", "r1", map[string]interface{}{"senderId": "a", "status": "pending"}))
	docs, err = store.QueryByField(ctx, "friendRequests", "senderId", OpEqual, "a")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = store.QueryByField(ctx, "friendRequests", "senderId", ">", "a")
	assert.Error(t, err)
}

func TestDecodeUsesFirestoreTags(t *testing.T) {
	type prefs struct {
		Messages *bool `firestore:"messages"`
	}
	type record struct {
		ID    string    `firestore:"-"`
		Name  string    `firestore:"displayName,omitempty"`
		Tags  []string  `firestore:"tags"`
		When  time.Time `firestore:"when"`
		Count int       `firestore:"count"`
		Prefs *prefs    `firestore:"prefs,omitempty"`
	}
	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	var out record
	err := Decode(map[string]interface{}{
		"displayName": "Ann",
		"tags":        []interface{}{"x", "y"},
		"when":        now,
		"count":       int64(3),
		"prefs":       map[string]interface{}{"messages": false},
		"unknown":     "ignored",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Ann", out.Name)
	assert.Equal(t, []string{"x", "y"}, out.Tags)
	assert.True(t, now.Equal(out.When))
	assert.Equal(t, 3, out.Count)
	require.NotNil(t, out.Prefs)
	require.NotNil(t, out.Prefs.Messages)
	assert.False(t, *out.Prefs.Messages)
}

func TestDecodeAcceptsJSONShapes(t *testing.T) {
	type record struct {
		When  time.Time `firestore:"when"`
		Count int       `firestore:"count"`
	}
	var out record
	err := Decode(map[string]interface{}{
		"when":  "2026-05-02T08:00:00Z",
		"count": float64(2),
	}, &out)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC).Equal(out.When))
	assert.Equal(t, 2, out.Count)
}

func TestRelativePath(t *testing.T) {
	assert.Equal(t, "conversations/c1/messages/m1",
		RelativePath("projects/p/databases/(default)/documents/conversations/c1/messages/m1"))
	assert.Equal(t, "users/u1", RelativePath("users/u1"))
}
