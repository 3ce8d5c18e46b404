package audit_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permkit/pkg/audit"
)

func TestAsyncWriter_StoreAndFlush(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemory()
	writer := audit.NewAsyncWriter(storage, slog.Default(), audit.AsyncOptions{BufferSize: 16})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, writer.Store(ctx, testEvent("role_added")))
	}

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, writer.Close(closeCtx))

	assert.Len(t, storage.Events(), 10, "close drains the queue before returning")
}

func TestAsyncWriter_ClosedRejectsEvents(t *testing.T) {
	t.Parallel()

	writer := audit.NewAsyncWriter(audit.NewMemory(), nil, audit.AsyncOptions{})

	ctx := context.Background()
	require.NoError(t, writer.Close(ctx))

	err := writer.Store(ctx, testEvent("role_added"))
	assert.ErrorIs(t, err, audit.ErrStorageClosed)
}

func TestAsyncWriter_FullBufferDropsWithoutBlocking(t *testing.T) {
	t.Parallel()

	// A storage that blocks forever keeps the worker busy so the buffer
	// fills up; Store must still return immediately.
	blocked := make(chan struct{})
	storage := blockingStorage{release: blocked}
	writer := audit.NewAsyncWriter(storage, slog.Default(), audit.AsyncOptions{
		BufferSize:     1,
		StorageTimeout: time.Minute,
	})
	defer close(blocked)

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			assert.NoError(t, writer.Store(ctx, testEvent("role_added")))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Store blocked on a full buffer")
	}
}

type blockingStorage struct {
	release chan struct{}
}

func (s blockingStorage) Store(ctx context.Context, _ audit.Event) error {
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return nil
}
