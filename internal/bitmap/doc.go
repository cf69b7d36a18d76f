// Package bitmap provides compressed sets of object indices.
//
// IndexSet wraps a 32-bit Roaring bitmap. Operations use it to deduplicate
// result indices and to test region membership in constant time.
package bitmap
