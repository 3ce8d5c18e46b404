package audit

import "errors"

var (
	// ErrEventValidation indicates the event is missing required fields.
	ErrEventValidation = errors.New("audit.event_validation")

	// ErrStorageClosed indicates the storage no longer accepts events.
	ErrStorageClosed = errors.New("audit.storage_closed")
)
