// Package crypto provides the keccak256 primitive the verifier binds
// proof nodes with. It is adapted from the teacher's crypto.Keccak256,
// trimmed to the single hash the storage-proof verifier needs (the
// teacher's package additionally hosts BLS, KZG, and pairing primitives
// with no role in an MPT proof walker; see DESIGN.md).
package crypto

import "golang.org/x/crypto/sha3"

// Keccak256 hashes the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Array is Keccak256 with the result fixed at 32 bytes, the shape
// pkg/trie.Hasher and the verification facade pass around.
func Keccak256Array(data ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], Keccak256(data...))
	return out
}

// DefaultHasher implements pkg/trie.Hasher (and the verification facade's
// hasher) with golang.org/x/crypto/sha3's Keccak-256. sha3.state is not
// safe for concurrent use, but NewLegacyKeccak256 allocates a fresh state
// per call, so DefaultHasher itself is reentrant and may back concurrent
// Walk calls, per spec.md §5.
type DefaultHasher struct{}

// Keccak256 implements pkg/trie.Hasher.
func (DefaultHasher) Keccak256(data []byte) [32]byte {
	return Keccak256Array(data)
}
