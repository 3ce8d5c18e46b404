package permsource

import (
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

// ParseJSON decodes a JSON configuration document of the shape
//
//	{"roles": {"<name>": {"permissions": [...], "inherits": [...]}},
//	 "users": {"<id>": {"permissions": [...], "denies": [...]}}}
//
// and validates its structure. Decode failures (e.g. non-array permissions)
// and a missing roles map both surface as ErrInvalidDocument.
func ParseJSON(data []byte) (permissions.Config, error) {
	var cfg permissions.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return permissions.Config{}, errors.Join(ErrInvalidDocument, err)
	}
	if err := cfg.Validate(); err != nil {
		return permissions.Config{}, errors.Join(ErrInvalidDocument, err)
	}
	return cfg, nil
}

// ParseYAML decodes a YAML configuration document with the same shape and
// validation rules as ParseJSON.
func ParseYAML(data []byte) (permissions.Config, error) {
	var cfg permissions.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return permissions.Config{}, errors.Join(ErrInvalidDocument, err)
	}
	if err := cfg.Validate(); err != nil {
		return permissions.Config{}, errors.Join(ErrInvalidDocument, err)
	}
	return cfg, nil
}
