package permissions

import "context"

// staticSource serves a fixed in-memory configuration. It deep-copies on
// both construction and load so neither the caller nor the service can
// mutate the other's view.
type staticSource struct {
	cfg Config
}

// NewStaticSource creates a Source backed by an in-memory configuration.
func NewStaticSource(cfg Config) Source {
	return &staticSource{cfg: cfg.Clone()}
}

// Load implements Source.
func (s *staticSource) Load(_ context.Context) (Config, error) {
	return s.cfg.Clone(), nil
}
