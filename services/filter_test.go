// file: services/filter_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-footy-trivia/models"
	"go-footy-trivia/services"
)

var userFields = []string{"name", "email", "role", "id"}

func noFacets() map[string]string {
	return map[string]string{"role": services.FacetAll}
}

func TestFilter_EmptyQueryAndAllFacetsReturnsEverything(t *testing.T) {
	items := []models.Doc{
		{"id": "u1", "name": "Amy", "role": "user"},
		{"id": "u2", "name": "Bo", "role": "admin"},
	}

	got := services.Filter(items, "", userFields, noFacets())
	assert.Equal(t, items, got, "no constraints means the full cache, in cache order")
}

func TestFilter_IsIdempotent(t *testing.T) {
	items := []models.Doc{
		{"id": "u1", "name": "Amy", "role": "user"},
		{"id": "u2", "name": "Bo", "role": "admin"},
		{"id": "u3", "name": "Bobby", "role": "user"},
	}

	once := services.Filter(items, "bo", userFields, noFacets())
	twice := services.Filter(once, "bo", userFields, noFacets())
	assert.Equal(t, once, twice)
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	items := []models.Doc{
		{"id": "u1", "name": "Amy", "role": "user"},
		{"id": "u2", "name": "Bo", "role": "admin"},
	}

	got := services.Filter(items, "bo", userFields, map[string]string{"role": services.FacetAll})
	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].ID())
}

func TestFilter_MissingFieldsNeverMatchOrPanic(t *testing.T) {
	items := []models.Doc{
		{"id": "u1"},                             // no name, email or role at all
		{"id": "u2", "name": nil},                // explicit null
		{"id": "u3", "name": 42},                 // non-string value
		{"id": "u4", "name": "Bo", "email": nil}, // partial
	}

	assert.NotPanics(t, func() {
		got := services.Filter(items, "bo", userFields, noFacets())
		require.Len(t, got, 1)
		assert.Equal(t, "u4", got[0].ID())
	})

	// non-string values are coerced to their string form before matching
	got := services.Filter(items, "42", userFields, noFacets())
	require.Len(t, got, 1)
	assert.Equal(t, "u3", got[0].ID())
}

func TestFilter_FacetsAndQueryCombineWithAND(t *testing.T) {
	items := []models.Doc{
		{"id": "1", "text": "Top scorer 2000?", "category": "History", "difficulty": "Easy"},
		{"id": "2", "text": "Top scorer 2001?", "category": "Statistics", "difficulty": "Medium"},
		{"id": "3", "text": "Champions League 2005?", "category": "History", "difficulty": "Medium"},
	}
	fields := []string{"text", "category"}

	got := services.Filter(items, "scorer", fields, map[string]string{
		"category":   "History",
		"difficulty": services.FacetAll,
	})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID())

	// both facets active
	got = services.Filter(items, "", fields, map[string]string{
		"category":   "History",
		"difficulty": "Medium",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID())
}

func TestCategories_DistinctWithAllSentinel(t *testing.T) {
	items := []models.Doc{
		{"id": "1", "category": "History"},
		{"id": "2", "category": "Statistics"},
		{"id": "3", "category": "History"},
	}
	assert.Equal(t, []string{"All", "History", "Statistics"}, services.Categories(items, "category"))
}
