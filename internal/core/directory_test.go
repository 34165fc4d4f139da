package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teeup-backend-go/internal/db"
	"teeup-backend-go/pkg/database"
)

type mapCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) { return c.values[key], nil }

func (c *mapCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.values[key] = value.(string)
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func TestDisplayNameFallbacks(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, db.UsersCollection, "named", map[string]interface{}{"displayName": "Nora"}))
	require.NoError(t, store.Set(ctx, db.UsersCollection, "unnamed", map[string]interface{}{"fcmToken": "t"}))
	dir := NewUserDirectory(db.NewUserRepository(store), nil, 0, nil)

	assert.Equal(t, "Nora", dir.DisplayName(ctx, "named", "Someone"))
	assert.Equal(t, "Someone", dir.DisplayName(ctx, "unnamed", "Someone"))
	assert.Equal(t, "A friend", dir.DisplayName(ctx, "missing", "A friend"))
	assert.Equal(t, "A friend", dir.DisplayName(ctx, "", "A friend"))
}

func TestDisplayNameUsesCache(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, db.UsersCollection, "u", map[string]interface{}{"displayName": "Uma"}))
	c := newMapCache()
	dir := NewUserDirectory(db.NewUserRepository(store), c, 5*time.Minute, nil)

	assert.Equal(t, "Uma", dir.DisplayName(ctx, "u", "Someone"))
	assert.Equal(t, "Uma", c.values["displayName:u"])
	assert.Equal(t, 5*time.Minute, c.ttls["displayName:u"])

	require.NoError(t, store.Delete(ctx, db.UsersCollection, "u"))
	assert.Equal(t, "Uma", dir.DisplayName(ctx, "u", "Someone"))

	assert.Equal(t, "Someone", dir.DisplayName(ctx, "other", "Someone"))
	assert.NotContains(t, c.values, "displayName:other")
}

func TestFriendIDs(t *testing.T) {
	ctx := context.Background()
	friends := db.NewFriendshipRepository(database.NewMemoryStore(), nil)
	for _, other := range []string{"b", "c"} {
		_, err := friends.Create(ctx, "a", other)
		require.NoError(t, err)
	}
	_, err := friends.Create(ctx, "b", "c")
	require.NoError(t, err)

	graph := NewFriendGraph(friends)

	ids, err := graph.FriendIDs(ctx, "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, ids)

	ids, err = graph.FriendIDs(ctx, "c")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	ids, err = graph.FriendIDs(ctx, "z")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
