package permissions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/permkit/pkg/cache"
)

// Default cache tier capacities. Resolution is bounded by role count in
// practice; decisions dominate and get the largest tier.
const (
	defaultResolutionCacheSize = 512
	defaultPatternCacheSize    = 256
	defaultDecisionCacheSize   = 4096
)

// Source provides a structurally valid configuration from an external
// collaborator (file, remote fetch, persistent store). The service does not
// care which; retry and timeout policy belong to the implementation.
type Source interface {
	Load(ctx context.Context) (Config, error)
}

// Service is an in-process authorization decision engine. It owns a single
// configuration object and answers allow/deny for (user, permission, scope)
// requests using deny-override, grant-override, then role-permission
// precedence.
//
// All decision and resolution operations are safe for concurrent use:
// readers share a read lock while any mutation holds the write lock for the
// duration of its configuration-write plus cache-invalidation step.
type Service struct {
	mu     sync.RWMutex
	config Config
	source Source

	resolved  *cache.LRU[string, []string]
	decisions *cache.LRU[string, bool]
	matcher   *matcher

	subMu       sync.RWMutex
	subscribers []func(Event)
}

type options struct {
	source              Source
	resolutionCacheSize int
	patternCacheSize    int
	decisionCacheSize   int
}

// Option configures service creation.
type Option func(*options)

// WithSource attaches a configuration source used by Reload.
func WithSource(source Source) Option {
	return func(o *options) { o.source = source }
}

// WithResolutionCacheSize overrides the resolved-permission cache capacity.
// Non-positive values are ignored.
func WithResolutionCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.resolutionCacheSize = n
		}
	}
}

// WithPatternCacheSize overrides the compiled-pattern cache capacity.
// Non-positive values are ignored.
func WithPatternCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.patternCacheSize = n
		}
	}
}

// WithDecisionCacheSize overrides the decision cache capacity.
// Non-positive values are ignored.
func WithDecisionCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.decisionCacheSize = n
		}
	}
}

// New creates a service from an already-validated configuration. The
// configuration is deep-copied; the caller's value is never shared.
func New(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		resolutionCacheSize: defaultResolutionCacheSize,
		patternCacheSize:    defaultPatternCacheSize,
		decisionCacheSize:   defaultDecisionCacheSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{
		config:    cfg.Clone(),
		source:    o.source,
		resolved:  cache.NewLRU[string, []string](o.resolutionCacheSize),
		decisions: cache.NewLRU[string, bool](o.decisionCacheSize),
		matcher:   newMatcher(o.patternCacheSize),
	}, nil
}

// NewFromSource loads the initial configuration from source and keeps the
// source attached for subsequent Reload calls.
func NewFromSource(ctx context.Context, source Source, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, ErrNoSource
	}

	cfg, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, append(opts, WithSource(source))...)
}

// Has reports whether user holds the given permission, applying
// deny-override, grant-override, then role-permission precedence. An
// explicit deny always wins, even over the same user's explicit grants.
//
// A missing role propagates as ErrRoleNotFound rather than a deny so the
// caller can distinguish "denied" from "misconfigured".
func (s *Service) Has(user User, permission string) (bool, error) {
	return s.check(user, decisionKey(user.ID, permission, false, ""), permission)
}

// HasScoped is Has with the permission scoped to a resource qualifier: the
// checked key is "permission:scope". An empty scope is still a scope; it is
// cached and matched distinctly from an unscoped check.
func (s *Service) HasScoped(user User, permission, scope string) (bool, error) {
	return s.check(user, decisionKey(user.ID, permission, true, scope), ScopedPermission(permission, scope))
}

// HasAll reports whether user holds every one of the given permissions.
// It short-circuits on the first deny but propagates resolver failures
// immediately rather than treating them as a negative result.
func (s *Service) HasAll(user User, permissions ...string) (bool, error) {
	for _, p := range permissions {
		ok, err := s.Has(user, p)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// HasAllScoped is HasAll with every permission scoped by scope.
func (s *Service) HasAllScoped(user User, scope string, permissions ...string) (bool, error) {
	for _, p := range permissions {
		ok, err := s.HasScoped(user, p, scope)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// HasAny reports whether user holds at least one of the given permissions.
// It short-circuits on the first grant but propagates resolver failures
// immediately.
func (s *Service) HasAny(user User, permissions ...string) (bool, error) {
	for _, p := range permissions {
		ok, err := s.Has(user, p)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// HasAnyScoped is HasAny with every permission scoped by scope.
func (s *Service) HasAnyScoped(user User, scope string, permissions ...string) (bool, error) {
	for _, p := range permissions {
		ok, err := s.HasScoped(user, p, scope)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// decisionOutcome is the result of a single precedence rule.
type decisionOutcome int

const (
	outcomeSkip decisionOutcome = iota
	outcomeDeny
	outcomeGrant
)

// check evaluates the precedence rules in strict order; the first rule that
// fires wins and later rules are not consulted. Decisions are memoized per
// cache key until the next invalidation.
func (s *Service) check(user User, cacheKey, permKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if decision, ok := s.decisions.Get(cacheKey); ok {
		return decision, nil
	}

	rules := []func(User, string) (decisionOutcome, error){
		s.denyOverrideRule,
		s.grantOverrideRule,
		s.rolePermissionRule,
	}

	for _, rule := range rules {
		outcome, err := rule(user, permKey)
		if err != nil {
			return false, err
		}
		switch outcome {
		case outcomeDeny:
			s.decisions.Put(cacheKey, false)
			return false, nil
		case outcomeGrant:
			s.decisions.Put(cacheKey, true)
			return true, nil
		}
	}

	s.decisions.Put(cacheKey, false)
	return false, nil
}

// denyOverrideRule denies when any of the user's deny patterns matches.
func (s *Service) denyOverrideRule(user User, permKey string) (decisionOutcome, error) {
	if override, ok := s.config.Users[user.ID]; ok {
		if s.matcher.matchAny(override.Denies, permKey) {
			return outcomeDeny, nil
		}
	}
	return outcomeSkip, nil
}

// grantOverrideRule grants when any of the user's granted patterns matches.
func (s *Service) grantOverrideRule(user User, permKey string) (decisionOutcome, error) {
	if override, ok := s.config.Users[user.ID]; ok {
		if s.matcher.matchAny(override.Permissions, permKey) {
			return outcomeGrant, nil
		}
	}
	return outcomeSkip, nil
}

// rolePermissionRule grants when the user's resolved role permissions match.
func (s *Service) rolePermissionRule(user User, permKey string) (decisionOutcome, error) {
	permissions, err := s.resolve(user.Role, make(map[string]struct{}))
	if err != nil {
		return outcomeSkip, err
	}
	if s.matcher.matchAny(permissions, permKey) {
		return outcomeGrant, nil
	}
	return outcomeSkip, nil
}

// decisionKey builds the memoization key for a decision. The scope presence
// flag keeps an absent scope distinct from an empty-string scope.
func decisionKey(userID, permission string, scoped bool, scope string) string {
	var b strings.Builder
	b.Grow(len(userID) + len(permission) + len(scope) + 3)
	b.WriteString(userID)
	b.WriteByte(0)
	b.WriteString(permission)
	b.WriteByte(0)
	if scoped {
		b.WriteByte(1)
		b.WriteString(scope)
	}
	return b.String()
}

// AddRole inserts a new role and invalidates all cache tiers. It fails with
// ErrRoleExists when the name is already taken.
func (s *Service) AddRole(name string, permissions []string, inherits ...string) error {
	s.mu.Lock()
	if _, exists := s.config.Roles[name]; exists {
		s.mu.Unlock()
		return errors.Join(ErrRoleExists, fmt.Errorf("role %q is already defined", name))
	}

	s.config.Roles[name] = Role{
		Permissions: slices.Clone(permissions),
		Inherits:    slices.Clone(inherits),
	}
	s.invalidate()
	s.mu.Unlock()

	s.notify(Event{Type: EventRoleAdded, Role: name, CreatedAt: time.Now()})
	return nil
}

// RemoveRole deletes a role and invalidates all cache tiers. It fails with
// ErrRoleNotFound when the role is absent and with ErrRoleInUse, naming the
// dependents, when any other role still inherits from it.
func (s *Service) RemoveRole(name string) error {
	s.mu.Lock()
	if _, exists := s.config.Roles[name]; !exists {
		s.mu.Unlock()
		return errors.Join(ErrRoleNotFound, fmt.Errorf("role %q is not defined", name))
	}

	var dependents []string
	for other, role := range s.config.Roles {
		if other != name && slices.Contains(role.Inherits, name) {
			dependents = append(dependents, other)
		}
	}
	if len(dependents) > 0 {
		s.mu.Unlock()
		slices.Sort(dependents)
		return errors.Join(ErrRoleInUse,
			fmt.Errorf("role %q is inherited by %s", name, strings.Join(dependents, ", ")))
	}

	delete(s.config.Roles, name)
	s.invalidate()
	s.mu.Unlock()

	s.notify(Event{Type: EventRoleRemoved, Role: name, CreatedAt: time.Now()})
	return nil
}

// AddPermissionToRole appends a permission to an existing role and
// invalidates all cache tiers. Duplicates are not deduplicated here; the
// resolver collapses them at read time.
func (s *Service) AddPermissionToRole(name, permission string) error {
	s.mu.Lock()
	role, exists := s.config.Roles[name]
	if !exists {
		s.mu.Unlock()
		return errors.Join(ErrRoleNotFound, fmt.Errorf("role %q is not defined", name))
	}

	role.Permissions = append(role.Permissions, permission)
	s.config.Roles[name] = role
	s.invalidate()
	s.mu.Unlock()

	s.notify(Event{Type: EventPermissionAdded, Role: name, Permission: permission, CreatedAt: time.Now()})
	return nil
}

// Replace validates cfg and, on success, swaps the active configuration
// atomically and invalidates all cache tiers. On failure the previous
// configuration and caches remain active and untouched.
func (s *Service) Replace(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.config = cfg.Clone()
	s.invalidate()
	s.mu.Unlock()

	s.notify(Event{Type: EventConfigReplaced, CreatedAt: time.Now()})
	return nil
}

// Reload fetches a fresh configuration from the attached source and applies
// it via Replace. A fetch or validation failure leaves the active
// configuration and caches untouched. Fails with ErrNoSource when the
// service was built without a source.
func (s *Service) Reload(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}

	cfg, err := s.source.Load(ctx)
	if err != nil {
		return err
	}

	return s.Replace(cfg)
}

// ClearCache drops all three cache tiers. The cache is purely an
// optimization; decisions are identical before and after.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.invalidate()
	s.mu.Unlock()
}

// invalidate clears every cache tier. Callers must hold the write lock so
// no reader observes a partially invalidated state.
func (s *Service) invalidate() {
	s.resolved.Clear()
	s.decisions.Clear()
	s.matcher.clear()
}

// Roles returns all role names sorted by inheritance depth, base roles
// first.
func (s *Service) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortRolesByInheritance(s.config.Roles)
}

// Role returns a copy of the named role.
func (s *Service) Role(name string) (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.config.Roles[name]
	if !ok {
		return Role{}, false
	}
	return role.clone(), true
}

// Override returns a copy of the override entry for userID.
func (s *Service) Override(userID string) (Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	override, ok := s.config.Users[userID]
	if !ok {
		return Override{}, false
	}
	return override.clone(), true
}

// Snapshot returns a deep copy of the active configuration, e.g. for a
// persistence collaborator.
func (s *Service) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}
