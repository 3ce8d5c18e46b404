package permissions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

func TestUserContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		user := permissions.User{ID: "1", Role: "editor"}
		ctx := permissions.SetUserToContext(context.Background(), user)

		got, ok := permissions.GetUserFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, user, got)
	})

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		_, ok := permissions.GetUserFromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestService_FromContext(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := permissions.SetUserToContext(context.Background(),
		permissions.User{ID: "1", Role: "editor"})

	t.Run("has", func(t *testing.T) {
		t.Parallel()
		ok, err := svc.HasFromContext(ctx, "read:articles")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("has all", func(t *testing.T) {
		t.Parallel()
		ok, err := svc.HasAllFromContext(ctx, "read:articles", "write:articles")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("has any", func(t *testing.T) {
		t.Parallel()
		ok, err := svc.HasAnyFromContext(ctx, "admin:users", "read:articles")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no user in context", func(t *testing.T) {
		t.Parallel()
		bare := context.Background()

		_, err := svc.HasFromContext(bare, "read:articles")
		assert.ErrorIs(t, err, permissions.ErrUserNotInContext)

		_, err = svc.HasAllFromContext(bare, "read:articles")
		assert.ErrorIs(t, err, permissions.ErrUserNotInContext)

		_, err = svc.HasAnyFromContext(bare, "read:articles")
		assert.ErrorIs(t, err, permissions.ErrUserNotInContext)
	})
}
