package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Memory is an in-memory Storage, primarily for tests.
type Memory struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{}
}

// Store implements Storage.
func (m *Memory) Store(_ context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return nil
}

// Events returns a copy of all stored events in insertion order.
func (m *Memory) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.events)
}

// FileStorage appends events to a file as JSON lines, one event per line.
type FileStorage struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileStorage opens (or creates) the audit log file in append mode.
func NewFileStorage(path string) (*FileStorage, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return &FileStorage{file: file}, nil
}

// Store implements Storage.
func (s *FileStorage) Store(_ context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding audit event: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return ErrStorageClosed
	}
	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("writing audit event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Close is idempotent.
func (s *FileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
