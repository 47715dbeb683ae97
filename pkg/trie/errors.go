package trie

import "errors"

// Proof-walking and path-codec errors. These are the trie-layer members
// of the verifier's error taxonomy; pkg/verify adds the header- and
// account-level sentinels on top of these.
var (
	// ErrInvalidRLP is returned when a proof node's bytes are not valid RLP.
	ErrInvalidRLP = errors.New("trie: invalid RLP encoding")

	// ErrInvalidProofNodeHash is returned when a node's keccak256 does not
	// match the hash reference its parent (or the caller) declared.
	ErrInvalidProofNodeHash = errors.New("trie: proof node hash mismatch")

	// ErrInvalidProofNodeLength is returned when a decoded node's RLP list
	// has neither 2 nor 17 elements.
	ErrInvalidProofNodeLength = errors.New("trie: proof node is neither a 2-item nor a 17-item list")

	// ErrInvalidNibbleRange is returned when a path nibble is >= 16,
	// indicating a corrupted path.
	ErrInvalidNibbleRange = errors.New("trie: path nibble out of range")

	// ErrEmptyCompactValue is returned when hex-prefix decoding is given
	// an empty byte string.
	ErrEmptyCompactValue = errors.New("trie: empty hex-prefix (compact) value")

	// ErrKeyMismatchInExtensionOrLeaf is returned when the target path
	// diverges from an extension/leaf node's compact-encoded segment.
	ErrKeyMismatchInExtensionOrLeaf = errors.New("trie: key diverges inside extension or leaf segment")

	// ErrLeafNodePathLengthMismatch is returned when a leaf is reached but
	// the path still has unconsumed nibbles remaining.
	ErrLeafNodePathLengthMismatch = errors.New("trie: leaf reached with path remaining")
)
