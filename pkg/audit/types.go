package audit

import (
	"fmt"
	"time"
)

// Event is a single audit record for a configuration mutation.
type Event struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Role       string         `json:"role,omitempty"`
	Permission string         `json:"permission,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Validate checks that the event has all required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}
