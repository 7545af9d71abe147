package bridge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warefront/catalog_api/internal/query"
)

func TestParseFilterSpec(t *testing.T) {
	t.Run("bare json object", func(t *testing.T) {
		req, ok := parseFilterSpec(`{"filters":{"color__exact":"Red","price__lte":20},"ordering":["-price"],"page_size":5}`)

		require.True(t, ok)
		assert.Equal(t, "Red", req.Filters["color__exact"])
		assert.Equal(t, float64(20), req.Filters["price__lte"])
		assert.Equal(t, []string{"-price"}, req.Ordering)
		assert.Equal(t, 5, req.PageSize)
	})

	t.Run("json wrapped in code fence", func(t *testing.T) {
		reply := "```json\n{\"filters\":{\"title__icontains\":\"polo\"},\"search\":\"\"}\n```"
		req, ok := parseFilterSpec(reply)

		require.True(t, ok)
		assert.Equal(t, "polo", req.Filters["title__icontains"])
	})

	t.Run("json surrounded by prose", func(t *testing.T) {
		reply := `Sure! Here is the filter: {"filters":{"stock__gte":1}} Hope that helps.`
		req, ok := parseFilterSpec(reply)

		require.True(t, ok)
		assert.Equal(t, float64(1), req.Filters["stock__gte"])
	})

	t.Run("no braces", func(t *testing.T) {
		_, ok := parseFilterSpec("I cannot produce a filter for that.")
		assert.False(t, ok)
	})

	t.Run("invalid json between braces", func(t *testing.T) {
		_, ok := parseFilterSpec("{not json}")
		assert.False(t, ok)
	})
}

// The filter prompt teaches the model a schema by example. Every example
// it shows must compile cleanly, otherwise a model following the prompt to
// the letter produces filters the compiler drops and the caller gets an
// unfiltered page.
func TestFilterPromptExamplesCompile(t *testing.T) {
	var examples []string
	for _, line := range strings.Split(filterPromptTemplate, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "{") {
			examples = append(examples, line)
		}
	}
	require.NotEmpty(t, examples)

	for _, example := range examples {
		req, ok := parseFilterSpec(example)
		require.True(t, ok, "example is not valid JSON: %s", example)
		require.NotEmpty(t, req.Filters)

		b := query.NewWhereBuilder()
		ignored := query.CompileFilters(b, req.Filters)

		assert.Empty(t, ignored, "example filters dropped by the compiler: %s", example)
		assert.NotEmpty(t, b.Args())

		_, ignoredOrder := query.CompileOrdering(req.Ordering)
		assert.Empty(t, ignoredOrder, "example ordering dropped: %s", example)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10c", truncate("exactly10c", 10))
	assert.Equal(t, "toolongfor...", truncate("toolongforthis", 10))
}
