package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector(t *testing.T) {
	props := map[string]any{
		"name": "someone",
		"age":  1.0,
		"address": map[string]any{
			"city":    "bangalore",
			"country": map[string]any{"name": "india", "code": "+91"},
		},
		"repos": []any{
			map[string]any{"url": "github/1", "name": "repo1"},
			map[string]any{"url": "github/2", "name": "repo2"},
		},
	}

	t.Run("nested field", func(t *testing.T) {
		got, err := Select(props, "$.address.country.code")
		require.NoError(t, err)
		assert.Equal(t, []any{"+91"}, got)
	})

	t.Run("list of fields", func(t *testing.T) {
		got, err := Select(props, "$.repos[*].url")
		require.NoError(t, err)
		assert.Equal(t, []any{"github/1", "github/2"}, got)
	})

	t.Run("whole object", func(t *testing.T) {
		s, err := Compile("$.address")
		require.NoError(t, err)
		v, ok := s.First(props)
		require.True(t, ok)
		assert.Equal(t, "bangalore", v.(map[string]any)["city"])
	})

	t.Run("no match", func(t *testing.T) {
		s, err := Compile("$.missing")
		require.NoError(t, err)
		assert.Empty(t, s.Get(props))
		_, ok := s.First(props)
		assert.False(t, ok)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Compile("$.a[")
		assert.Error(t, err)
	})
}
