package permsource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permkit/pkg/permsource"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFile_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		path := writeTempFile(t, "permissions.json",
			`{"roles": {"viewer": {"permissions": ["read:articles"]}}}`)

		cfg, err := permsource.NewFile(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"read:articles"}, cfg.Roles["viewer"].Permissions)
	})

	t.Run("yaml by extension", func(t *testing.T) {
		t.Parallel()
		path := writeTempFile(t, "permissions.yaml", `
roles:
  viewer:
    permissions:
      - read:articles
`)

		cfg, err := permsource.NewFile(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"read:articles"}, cfg.Roles["viewer"].Permissions)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := permsource.NewFile(filepath.Join(t.TempDir(), "absent.json")).Load(ctx)
		assert.ErrorIs(t, err, permsource.ErrDocumentNotFound)
	})

	t.Run("invalid document", func(t *testing.T) {
		t.Parallel()
		path := writeTempFile(t, "broken.json", `{"users": {}}`)
		_, err := permsource.NewFile(path).Load(ctx)
		assert.ErrorIs(t, err, permsource.ErrInvalidDocument)
	})
}

func TestFile_ModTime(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "permissions.json",
		`{"roles": {}}`)

	source := permsource.NewFile(path)

	modTime, err := source.ModTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), modTime, time.Minute)

	_, err = permsource.NewFile(filepath.Join(t.TempDir(), "absent.json")).ModTime()
	assert.ErrorIs(t, err, permsource.ErrDocumentNotFound)
}
