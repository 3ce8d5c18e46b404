package permissions

import (
	"errors"
	"fmt"
	"slices"
)

// Role is a named bundle of permission patterns with optional inheritance.
// Permission order is preserved for deterministic listing; duplicates are
// collapsed at resolution time.
type Role struct {
	// Permissions directly granted to this role. Patterns may contain "*"
	// wildcards (e.g. "read:*").
	Permissions []string `json:"permissions"`

	// Inherits lists role names this role inherits from. All permissions
	// of inherited roles (transitively) are included at resolution time.
	Inherits []string `json:"inherits,omitempty"`
}

// Override holds per-user grant and deny patterns that take precedence over
// role-derived permissions. Denies always win over grants.
type Override struct {
	// Permissions explicitly granted regardless of the user's role.
	Permissions []string `json:"permissions,omitempty"`

	// Denies explicitly denied regardless of role or granted overrides.
	Denies []string `json:"denies,omitempty"`
}

// User identifies the subject of a permission check.
type User struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Config is the aggregate authorization configuration: all roles plus
// per-user overrides. The service owns its copy exclusively; callers always
// work with deep copies.
type Config struct {
	Roles map[string]Role     `json:"roles"`
	Users map[string]Override `json:"users,omitempty"`
}

// Validate checks the structural shape of the configuration: the roles map
// must be present and no role name or user id may be empty. Dangling
// inheritance references are not a validation error; they surface as
// ErrRoleNotFound at resolution time.
func (c Config) Validate() error {
	if c.Roles == nil {
		return errors.Join(ErrInvalidConfig, errors.New("roles map is required"))
	}
	for name := range c.Roles {
		if name == "" {
			return errors.Join(ErrInvalidConfig, errors.New("role name must not be empty"))
		}
	}
	for id := range c.Users {
		if id == "" {
			return errors.Join(ErrInvalidConfig, errors.New("user id must not be empty"))
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := Config{}
	if c.Roles != nil {
		out.Roles = make(map[string]Role, len(c.Roles))
		for name, role := range c.Roles {
			out.Roles[name] = role.clone()
		}
	}
	if c.Users != nil {
		out.Users = make(map[string]Override, len(c.Users))
		for id, override := range c.Users {
			out.Users[id] = override.clone()
		}
	}
	return out
}

func (r Role) clone() Role {
	return Role{
		Permissions: slices.Clone(r.Permissions),
		Inherits:    slices.Clone(r.Inherits),
	}
}

func (o Override) clone() Override {
	return Override{
		Permissions: slices.Clone(o.Permissions),
		Denies:      slices.Clone(o.Denies),
	}
}

// ScopedPermission builds the full permission key for a permission checked
// within a scope (e.g. "read" + "articles" -> "read:articles").
func ScopedPermission(permission, scope string) string {
	return fmt.Sprintf("%s:%s", permission, scope)
}
