package hasher

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"gocache/internal/errs"
)

// Func maps a byte sequence to a 32-bit bucket selector.
//
// Implementations are pure: the same input always yields the same output.
// None of them are suitable for security-sensitive hashing.
type Func func(key []byte) int32

// golden is the Bob Jenkins seed (2^32 / phi).
const golden uint32 = 0x9E3779B9

// XOR folds the key into big-endian 4-byte words and XORs them together.
// A trailing partial word is zero-padded on the right.
func XOR(key []byte) int32 {
	var h uint32
	for i := 0; i < len(key); i += 4 {
		h ^= word(key, i, binary.BigEndian)
	}
	return int32(h)
}

// BobJenkins implements Bob Jenkins' one-at-a-time block mix over 12-byte
// little-endian blocks. The final block, which may be empty, folds the key
// length into c.
func BobJenkins(key []byte) int32 {
	a, b := golden, golden
	c := ^uint32(0)

	n := len(key)
	for i := 0; n-i >= 0; i += 12 {
		last := n-i < 12
		if last {
			c += uint32(n)
		}
		a += word(key, i, binary.LittleEndian)
		b += word(key, i+4, binary.LittleEndian)
		if last {
			c += word(key, i+8, binary.LittleEndian) << 8
		} else {
			c += word(key, i+8, binary.LittleEndian)
		}
		a, b, c = mix(a, b, c)
	}

	return int32(c)
}

func mix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= b
	a -= c
	a ^= c >> 13
	b -= c
	b -= a
	b ^= a << 8
	c -= a
	c -= b
	c ^= b >> 13

	a -= b
	a -= c
	a ^= c >> 12
	b -= c
	b -= a
	b ^= a << 16
	c -= a
	c -= b
	c ^= b >> 5

	a -= b
	a -= c
	a ^= c >> 3
	b -= c
	b -= a
	b ^= a << 10
	c -= a
	c -= b
	c ^= b >> 15

	return a, b, c
}

// DJB is Daniel J. Bernstein's additive hash: h = 5381; h += (h<<5) + b.
func DJB(key []byte) int32 {
	h := uint32(5381)
	for _, b := range key {
		h += (h << 5) + uint32(b)
	}
	return int32(h)
}

// XXHash folds the 64-bit xxHash digest of key into 32 bits.
func XXHash(key []byte) int32 {
	d := xxhash.Sum64(key)
	return int32(uint32(d>>32) ^ uint32(d))
}

// word reads up to four bytes of key starting at i in the given byte order,
// treating bytes past the end of key as zero.
func word(key []byte, i int, order binary.ByteOrder) uint32 {
	if i >= len(key) {
		return 0
	}
	if len(key)-i >= 4 {
		return order.Uint32(key[i:])
	}
	var buf [4]byte
	copy(buf[:], key[i:])
	return order.Uint32(buf[:])
}

var byName = map[string]Func{
	"xor":    XOR,
	"bj":     BobJenkins,
	"djb":    DJB,
	"xxhash": XXHash,
}

// Names lists the hasher names accepted by ByName.
func Names() []string {
	return []string{"xor", "bj", "djb", "xxhash"}
}

// ByName resolves a hasher by its configuration name (case-insensitive).
func ByName(name string) (Func, error) {
	f, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hasher %q (want one of %s)",
			errs.ErrInvalidArgument, name, strings.Join(Names(), ", "))
	}
	return f, nil
}
