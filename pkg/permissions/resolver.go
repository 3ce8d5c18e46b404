package permissions

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Resolve computes the effective permission set for roleName by merging its
// own permissions with those inherited (transitively) from parent roles.
// Duplicates across levels collapse; first-seen order is preserved so the
// result is deterministic. Results are memoized per role until the next
// cache invalidation, and roles resolved as dependencies populate their own
// cache entries along the way.
//
// Fails with ErrRoleNotFound when roleName or any inherited role is not
// defined, and with ErrCircularInheritance when the inheritance graph
// contains a cycle reachable from roleName. Nothing is cached on failure.
func (s *Service) Resolve(roleName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permissions, err := s.resolve(roleName, make(map[string]struct{}))
	if err != nil {
		return nil, err
	}
	return slices.Clone(permissions), nil
}

// resolve is the depth-first expansion behind Resolve. The inProgress set
// tracks the current recursion path only; roles completed earlier in the
// same call are served from the cache, which keeps diamond-shaped
// inheritance legal while still detecting cycles.
// Callers must hold at least a read lock.
func (s *Service) resolve(roleName string, inProgress map[string]struct{}) ([]string, error) {
	if cached, ok := s.resolved.Get(roleName); ok {
		return cached, nil
	}

	if _, active := inProgress[roleName]; active {
		return nil, errors.Join(ErrCircularInheritance,
			fmt.Errorf("cycle detected at role %q", roleName))
	}

	role, exists := s.config.Roles[roleName]
	if !exists {
		return nil, errors.Join(ErrRoleNotFound, fmt.Errorf("role %q is not defined", roleName))
	}

	inProgress[roleName] = struct{}{}
	defer delete(inProgress, roleName)

	result := make([]string, 0, len(role.Permissions))
	seen := make(map[string]struct{}, len(role.Permissions))
	for _, p := range role.Permissions {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}

	for _, parent := range role.Inherits {
		inherited, err := s.resolve(parent, inProgress)
		if err != nil {
			return nil, err
		}
		for _, p := range inherited {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				result = append(result, p)
			}
		}
	}

	s.resolved.Put(roleName, result)
	return result, nil
}

// sortRolesByInheritance returns role names ordered by inheritance depth,
// base roles first. Ties break alphabetically for stable output.
func sortRolesByInheritance(roles map[string]Role) []string {
	depths := make(map[string]int, len(roles))
	visited := make(map[string]bool, len(roles))

	for name := range roles {
		if !visited[name] {
			roleDepth(name, roles, depths, visited, make(map[string]bool))
		}
	}

	result := make([]string, 0, len(roles))
	for name := range roles {
		result = append(result, name)
	}

	slices.SortFunc(result, func(a, b string) int {
		if d := depths[a] - depths[b]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	return result
}

// roleDepth computes the inheritance depth of a role using DFS. Cycles and
// dangling references contribute zero depth; they are reported by Resolve,
// not here.
func roleDepth(name string, roles map[string]Role, depths map[string]int, visited, inProcess map[string]bool) int {
	if visited[name] {
		return depths[name]
	}
	if inProcess[name] {
		return 0
	}
	inProcess[name] = true
	defer func() { inProcess[name] = false }()

	role, exists := roles[name]
	if !exists || len(role.Inherits) == 0 {
		depths[name] = 0
		visited[name] = true
		return 0
	}

	maxDepth := 0
	for _, parent := range role.Inherits {
		if depth := roleDepth(parent, roles, depths, visited, inProcess) + 1; depth > maxDepth {
			maxDepth = depth
		}
	}

	depths[name] = maxDepth
	visited[name] = true
	return maxDepth
}
