package permissions

import "errors"

// Domain errors for permission operations.
var (
	// ErrInvalidConfig is returned when a configuration fails structural validation.
	ErrInvalidConfig = errors.New("permissions.invalid_config")

	// ErrRoleNotFound is returned when a referenced role does not exist.
	ErrRoleNotFound = errors.New("permissions.role_not_found")

	// ErrRoleExists is returned when adding a role whose name is already taken.
	ErrRoleExists = errors.New("permissions.role_already_exists")

	// ErrRoleInUse is returned when removing a role that other roles inherit from.
	ErrRoleInUse = errors.New("permissions.role_in_use")

	// ErrCircularInheritance is returned when role inheritance forms a cycle.
	ErrCircularInheritance = errors.New("permissions.circular_inheritance")

	// ErrNoSource is returned by Reload when the service was built without a source.
	ErrNoSource = errors.New("permissions.no_source")

	// ErrUserNotInContext is returned when no user is found in the context.
	ErrUserNotInContext = errors.New("permissions.user_not_in_context")
)
