// Package permissions provides an in-process authorization decision engine:
// given a user with an assigned role and optional per-user overrides, it
// decides allow/deny for a requested permission, optionally scoped to a
// resource qualifier.
//
// Key concepts:
//
//   - Role: a named bundle of permission patterns that can inherit from
//     other roles; inheritance is flattened transitively at resolution time
//     and cycles are detected and reported.
//   - Permission: an opaque string such as "read:articles". Granted and
//     denied patterns may contain "*" wildcards ("read:*"); requested
//     permissions never do.
//   - Override: per-user grant/deny lists. An explicit deny always wins,
//     then an explicit grant, then role-derived permissions.
//   - Scope: an optional qualifier appended to the permission key
//     ("read" + "articles" -> "read:articles").
//
// Resolved role sets, compiled wildcard patterns, and final decisions are
// each memoized, and every mutation invalidates all three tiers before it
// returns, so the caches are never a correctness source.
//
// Basic usage:
//
//	svc, err := permissions.New(permissions.Config{
//	    Roles: map[string]permissions.Role{
//	        "viewer": {Permissions: []string{"read:articles"}},
//	        "editor": {Permissions: []string{"write:articles"}, Inherits: []string{"viewer"}},
//	    },
//	    Users: map[string]permissions.Override{
//	        "42": {Denies: []string{"write:articles"}},
//	    },
//	})
//
//	ok, err := svc.Has(permissions.User{ID: "1", Role: "editor"}, "read:articles")
//	ok, err = svc.HasScoped(permissions.User{ID: "1", Role: "editor"}, "write", "articles")
//
// Configuration can be replaced wholesale via Replace, or through Reload
// when the service is constructed with a Source (see pkg/permsource for
// file, HTTP, Redis, MongoDB, and PostgreSQL sources). Mutations emit
// events to subscribers registered with Subscribe; pkg/audit turns those
// into persistent audit records.
package permissions
