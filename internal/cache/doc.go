// Package cache provides a bounded LRU cache.
//
// The perceptual system uses it to keep descriptions across operations.
// Eviction is least-recently-used once the entry capacity is reached;
// entries are dropped explicitly with Remove or Purge when the underlying
// objects or probe functions change.
package cache
