// Package table implements a generic chained hash table.
//
// Buckets live in a power-of-two slot array indexed by hash & (len-1). When
// an insert pushes the load factor past MaxLoad the array doubles and every
// entry is re-inserted with the same hash function. Replacing a value or
// removing a key never resizes.
//
// The hash function is fixed at construction: either a seeded maphash of the
// key itself or one of the byte hashers from package hasher applied to
// KeyBytes(key).
//
// Collisions and MaxCollision expose chain statistics so hashers can be
// compared on a given key set.
package table
