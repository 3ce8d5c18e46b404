// Package cache provides a generic, thread-safe LRU cache.
//
// The cache evicts the least recently used entry once it reaches its
// configured capacity, keeping memory bounded for memoization workloads
// such as compiled pattern or decision caching.
//
// Basic usage:
//
//	c := cache.NewLRU[string, int](128)
//	c.Put("a", 1)
//	v, ok := c.Get("a")
//
// All operations are O(1) and safe for concurrent use.
package cache
