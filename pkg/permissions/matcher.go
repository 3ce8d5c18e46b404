package permissions

import (
	"regexp"
	"strings"

	"github.com/dmitrymomot/permkit/pkg/cache"
)

// Wildcard matches any run of zero or more characters within a pattern.
const Wildcard = "*"

// matcher compiles wildcard patterns to anchored regular expressions and
// memoizes the compiled form, since the same granted/denied pattern is
// evaluated repeatedly across checks.
type matcher struct {
	compiled *cache.LRU[string, *regexp.Regexp]
}

func newMatcher(capacity int) *matcher {
	return &matcher{compiled: cache.NewLRU[string, *regexp.Regexp](capacity)}
}

// match reports whether pattern matches the requested permission key.
// Patterns without a wildcard require exact equality. Matching is
// case-sensitive and operates on the full key, never a substring.
func (m *matcher) match(pattern, requested string) bool {
	if !strings.Contains(pattern, Wildcard) {
		return pattern == requested
	}

	re, ok := m.compiled.Get(pattern)
	if !ok {
		re = compilePattern(pattern)
		m.compiled.Put(pattern, re)
	}
	return re.MatchString(requested)
}

// matchAny reports whether any of the patterns matches the requested key.
func (m *matcher) matchAny(patterns []string, requested string) bool {
	for _, p := range patterns {
		if m.match(p, requested) {
			return true
		}
	}
	return false
}

func (m *matcher) clear() {
	m.compiled.Clear()
}

// compilePattern translates each "*" to ".*" and anchors the expression at
// both ends so the pattern must match the whole requested key.
func compilePattern(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, Wildcard)
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
