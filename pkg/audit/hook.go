package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

// HookOption configures the subscriber returned by Hook.
type HookOption func(*hookConfig)

type hookConfig struct {
	log     *slog.Logger
	actor   string
	timeout time.Duration
}

// WithLogger routes storage failures to a custom logger.
func WithLogger(log *slog.Logger) HookOption {
	return func(c *hookConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithActor stamps every recorded event with a fixed actor id, e.g. the
// service account performing mutations.
func WithActor(actor string) HookOption {
	return func(c *hookConfig) { c.actor = actor }
}

// WithStoreTimeout bounds each storage write. Non-positive values are
// ignored.
func WithStoreTimeout(d time.Duration) HookOption {
	return func(c *hookConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Hook returns a subscriber for permissions.Service.Subscribe that records
// every mutation event to storage. Storage failures are logged and
// swallowed: the decision engine never depends on the sink succeeding. Wrap
// the storage in an AsyncWriter when the sink does slow I/O.
func Hook(storage Storage, opts ...HookOption) func(permissions.Event) {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	cfg := hookConfig{
		log:     slog.Default(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(e permissions.Event) {
		event := Event{
			ID:         uuid.NewString(),
			Action:     string(e.Type),
			Role:       e.Role,
			Permission: e.Permission,
			Actor:      cfg.actor,
			CreatedAt:  e.CreatedAt,
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
		defer cancel()

		if err := storage.Store(ctx, event); err != nil {
			cfg.log.ErrorContext(ctx, "failed to record audit event",
				slog.String("action", event.Action), slog.Any("error", err))
		}
	}
}
