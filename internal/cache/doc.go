// Package cache implements a single-process, in-memory recency (LRU) cache.
//
// Goals for this package:
//   - Make the core data structures explicit (hash index + doubly-linked list)
//   - Provide O(1) Put/Get/Remove via index handles + LRU links
//   - Keep node ownership in one place: an arena owned by the cache
//   - Leave locking to the caller, or to Synchronized
//   - Own and cleanly stop long-lived goroutines (no leaks on shutdown)
//
// Get is a use: it moves the entry to the MRU position. Contains, the Peek
// methods and the iterators never reorder anything.
package cache
