// file: services/cache_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-footy-trivia/models"
	"go-footy-trivia/services"
)

func seededCache() *services.ResourceCache {
	c := services.NewResourceCache()
	c.ReplaceAll([]models.Doc{
		{"id": "u1", "name": "Amy", "role": "user"},
		{"id": "u2", "name": "Bo", "role": "admin"},
	})
	return c
}

func TestCache_ReplaceAllKeepsOrder(t *testing.T) {
	c := seededCache()
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "u1", items[0].ID())
	assert.Equal(t, "u2", items[1].ID())
}

func TestCache_ApplyUpdateTouchesOnlyTheTarget(t *testing.T) {
	c := seededCache()

	ok := c.ApplyUpdate("u1", models.Doc{"role": "admin"})
	assert.True(t, ok)

	items := c.Items()
	assert.Equal(t, "admin", items[0]["role"])
	assert.Equal(t, "Amy", items[0]["name"], "unpatched fields survive")
	assert.Equal(t, models.Doc{"id": "u2", "name": "Bo", "role": "admin"}, items[1],
		"untargeted entities are untouched")
}

func TestCache_ApplyUpdateUnknownID(t *testing.T) {
	c := seededCache()
	assert.False(t, c.ApplyUpdate("ghost", models.Doc{"role": "admin"}))
	assert.Equal(t, 2, c.Len())
}

func TestCache_ApplyInsertAppends(t *testing.T) {
	c := seededCache()
	c.ApplyInsert(models.Doc{"id": "u3", "name": "Cy"})

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "u3", items[2].ID(), "inserts append in cache order")
}

func TestCache_ApplyRemove(t *testing.T) {
	c := seededCache()
	assert.True(t, c.ApplyRemove("u1"))
	assert.False(t, c.ApplyRemove("u1"))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "u2", items[0].ID())
}

func TestCache_SnapshotsAreIsolated(t *testing.T) {
	c := seededCache()

	snap := c.Items()
	snap[0]["name"] = "Mallory"

	fresh, ok := c.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "Amy", fresh["name"], "mutating a snapshot must not reach the cache")
}
