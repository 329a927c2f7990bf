package value

import "hash/fnv"

// hashString computes an FNV-1a hash of s. Used by every variant's Hash
// implementation so that collisions stay rare without pulling in a
// third-party hashing library for something the standard library already
// does well.
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))

	return h.Sum64()
}

func hashCombine(seed uint64, parts ...uint64) uint64 {
	h := seed
	for _, p := range parts {
		// Boost-style hash_combine, widened to 64 bits.
		h ^= p + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
	}

	return h
}
