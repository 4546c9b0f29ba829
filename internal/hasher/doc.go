// Package hasher provides interchangeable byte hashers used to pick hash
// table buckets.
//
// Three classic algorithms are available, plus xxHash:
//
//   - XOR: XOR of big-endian 4-byte words
//   - BobJenkins: 12-byte block mixing seeded with the golden ratio
//   - DJB: h = 5381; h += (h<<5) + b
//   - XXHash: 64-bit xxHash folded to 32 bits
//
// The results only select buckets. They are not cryptographic.
package hasher
