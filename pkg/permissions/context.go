package permissions

import "context"

// userCtxKey is the context key for storing the authenticated user.
type userCtxKey struct{}

// SetUserToContext stores the user in the context.
func SetUserToContext(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// GetUserFromContext retrieves the user from the context.
func GetUserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(User)
	return user, ok
}

// HasFromContext checks the permission for the user stored in ctx.
func (s *Service) HasFromContext(ctx context.Context, permission string) (bool, error) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return false, ErrUserNotInContext
	}
	return s.Has(user, permission)
}

// HasAllFromContext checks all permissions for the user stored in ctx.
func (s *Service) HasAllFromContext(ctx context.Context, permissions ...string) (bool, error) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return false, ErrUserNotInContext
	}
	return s.HasAll(user, permissions...)
}

// HasAnyFromContext checks any of the permissions for the user stored in ctx.
func (s *Service) HasAnyFromContext(ctx context.Context, permissions ...string) (bool, error) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return false, ErrUserNotInContext
	}
	return s.HasAny(user, permissions...)
}
