package permsource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permkit/pkg/permsource"
)

func TestParseJSON(t *testing.T) {
	t.Parallel()

	t.Run("full document", func(t *testing.T) {
		t.Parallel()
		cfg, err := permsource.ParseJSON([]byte(`{
			"roles": {
				"viewer": {"permissions": ["read:articles"]},
				"editor": {"permissions": ["write:articles"], "inherits": ["viewer"]}
			},
			"users": {
				"42": {"permissions": ["read:restricted"], "denies": ["write:*"]}
			}
		}`))
		require.NoError(t, err)

		assert.Equal(t, []string{"read:articles"}, cfg.Roles["viewer"].Permissions)
		assert.Equal(t, []string{"viewer"}, cfg.Roles["editor"].Inherits)
		assert.Equal(t, []string{"write:*"}, cfg.Users["42"].Denies)
	})

	t.Run("users section is optional", func(t *testing.T) {
		t.Parallel()
		cfg, err := permsource.ParseJSON([]byte(`{"roles": {"viewer": {"permissions": []}}}`))
		require.NoError(t, err)
		assert.Empty(t, cfg.Users)
	})

	t.Run("missing roles", func(t *testing.T) {
		t.Parallel()
		_, err := permsource.ParseJSON([]byte(`{"users": {}}`))
		assert.ErrorIs(t, err, permsource.ErrInvalidDocument)
	})

	t.Run("non-array permissions", func(t *testing.T) {
		t.Parallel()
		_, err := permsource.ParseJSON([]byte(`{"roles": {"viewer": {"permissions": "read"}}}`))
		assert.ErrorIs(t, err, permsource.ErrInvalidDocument)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		_, err := permsource.ParseJSON([]byte(`{`))
		assert.ErrorIs(t, err, permsource.ErrInvalidDocument)
	})
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	t.Run("full document", func(t *testing.T) {
		t.Parallel()
		cfg, err := permsource.ParseYAML([]byte(`
roles:
  viewer:
    permissions:
      - read:articles
  editor:
    permissions:
      - write:articles
    inherits:
      - viewer
users:
  "42":
    denies:
      - "write:*"
`))
		require.NoError(t, err)

		assert.Equal(t, []string{"write:articles"}, cfg.Roles["editor"].Permissions)
		assert.Equal(t, []string{"write:*"}, cfg.Users["42"].Denies)
	})

	t.Run("missing roles", func(t *testing.T) {
		t.Parallel()
		_, err := permsource.ParseYAML([]byte(`users: {}`))
		assert.ErrorIs(t, err, permsource.ErrInvalidDocument)
	})

	t.Run("non-array inherits", func(t *testing.T) {
		t.Parallel()
		_, err := permsource.ParseYAML([]byte(`
roles:
  viewer:
    permissions: []
    inherits: editor
`))
		assert.ErrorIs(t, err, permsource.ErrInvalidDocument)
	})
}
