package permsource

import "errors"

var (
	// ErrInvalidDocument is returned when a configuration document cannot be
	// decoded or fails structural validation.
	ErrInvalidDocument = errors.New("permsource.invalid_document")

	// ErrDocumentNotFound is returned when the backing store holds no
	// configuration document.
	ErrDocumentNotFound = errors.New("permsource.document_not_found")

	// ErrUnexpectedStatus is returned when a remote endpoint answers with a
	// non-OK status.
	ErrUnexpectedStatus = errors.New("permsource.unexpected_status")

	// ErrConnectionFailed is returned when a backing store does not become
	// ready within the configured retry budget.
	ErrConnectionFailed = errors.New("permsource.connection_failed")

	// ErrInvalidEnvConfig is returned when environment variables cannot be
	// parsed into a source config struct.
	ErrInvalidEnvConfig = errors.New("permsource.invalid_env_config")
)
