package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permkit/pkg/audit"
	"github.com/dmitrymomot/permkit/pkg/permissions"
)

func TestHook_RecordsMutations(t *testing.T) {
	t.Parallel()

	svc, err := permissions.New(permissions.Config{
		Roles: map[string]permissions.Role{
			"viewer": {Permissions: []string{"read:articles"}},
		},
	})
	require.NoError(t, err)

	storage := audit.NewMemory()
	svc.Subscribe(audit.Hook(storage, audit.WithActor("config-service")))

	require.NoError(t, svc.AddRole("editor", []string{"write:articles"}, "viewer"))
	require.NoError(t, svc.AddPermissionToRole("editor", "publish:articles"))
	require.NoError(t, svc.RemoveRole("editor"))

	events := storage.Events()
	require.Len(t, events, 3)

	assert.Equal(t, "role_added", events[0].Action)
	assert.Equal(t, "editor", events[0].Role)
	assert.Equal(t, "config-service", events[0].Actor)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())

	assert.Equal(t, "permission_added", events[1].Action)
	assert.Equal(t, "publish:articles", events[1].Permission)

	assert.Equal(t, "role_removed", events[2].Action)
	assert.Equal(t, "editor", events[2].Role)
}

func TestHook_StorageFailureDoesNotPropagate(t *testing.T) {
	t.Parallel()

	svc, err := permissions.New(permissions.Config{
		Roles: map[string]permissions.Role{},
	})
	require.NoError(t, err)

	svc.Subscribe(audit.Hook(failingStorage{}))

	// The mutation succeeds even though the sink keeps failing.
	require.NoError(t, svc.AddRole("editor", []string{"write:articles"}))

	ok, err := svc.Has(permissions.User{ID: "1", Role: "editor"}, "write:articles")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHook_NilStoragePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { audit.Hook(nil) })
}

type failingStorage struct{}

func (failingStorage) Store(context.Context, audit.Event) error {
	return assert.AnError
}
