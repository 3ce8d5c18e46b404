package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AsyncWriter decouples event producers from storage latency: Store queues
// the event on a buffered channel and returns immediately while a worker
// goroutine drains the queue. When the buffer is full the event is dropped
// and logged, never blocking the producer.
type AsyncWriter struct {
	storage Storage
	log     *slog.Logger
	timeout time.Duration

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// AsyncOptions configures the buffering behavior of an AsyncWriter.
type AsyncOptions struct {
	BufferSize     int           // Max events queued before new ones are dropped.
	StorageTimeout time.Duration // Per-event storage timeout.
}

// NewAsyncWriter starts a background worker draining queued events into
// storage. Call Close during shutdown to flush the queue.
func NewAsyncWriter(storage Storage, log *slog.Logger, opts AsyncOptions) *AsyncWriter {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 256
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	w := &AsyncWriter{
		storage: storage,
		log:     log,
		timeout: opts.StorageTimeout,
		events:  make(chan Event, opts.BufferSize),
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

// Store implements Storage. It never blocks: when the buffer is full or the
// writer is closed, the event is dropped and the drop is logged.
func (w *AsyncWriter) Store(ctx context.Context, event Event) error {
	select {
	case <-w.done:
		return ErrStorageClosed
	default:
	}

	select {
	case w.events <- event:
		return nil
	default:
		w.log.WarnContext(ctx, "audit buffer full, dropping event",
			slog.String("action", event.Action))
		return nil
	}
}

func (w *AsyncWriter) worker() {
	defer w.wg.Done()

	store := func(event Event) {
		// Producer contexts are long gone by the time the worker runs, so
		// each write gets its own timeout.
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		if err := w.storage.Store(ctx, event); err != nil {
			w.log.ErrorContext(ctx, "failed to store audit event",
				slog.String("action", event.Action), slog.Any("error", err))
		}
	}

	for {
		select {
		case event := <-w.events:
			store(event)
		case <-w.done:
			// Drain whatever is still queued.
			for {
				select {
				case event := <-w.events:
					store(event)
				default:
					return
				}
			}
		}
	}
}

// Close stops accepting events and flushes the queue. The context bounds
// the flush; on timeout remaining events are dropped.
func (w *AsyncWriter) Close(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.done) })

	finished := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
