package permsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

// File loads a configuration document from a JSON or YAML file. The format
// is picked by extension: .yaml/.yml decode as YAML, everything else as
// JSON.
type File struct {
	path string
}

// NewFile creates a file-backed configuration source.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load implements permissions.Source.
func (s *File) Load(_ context.Context) (permissions.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return permissions.Config{}, errors.Join(ErrDocumentNotFound, err)
		}
		return permissions.Config{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	switch filepath.Ext(s.path) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ModTime returns the file's last modification time so an external watcher
// can poll for changes cheaply before triggering a reload.
func (s *File) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, errors.Join(ErrDocumentNotFound, err)
		}
		return time.Time{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return info.ModTime(), nil
}
