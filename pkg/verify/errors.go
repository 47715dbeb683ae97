// Package verify orchestrates the storage-inclusion-proof verifier: header
// binding, the account-proof walk, account-record decoding, the
// storage-proof walk, and final value decoding.
package verify

import (
	"errors"

	"github.com/stevennevins/storage-proofs/pkg/trie"
)

// Header- and account-level sentinels. Trie-walk sentinels
// (InvalidProofNodeHash, InvalidProofNodeLength, InvalidNibbleRange,
// EmptyCompactValue, KeyMismatchInExtensionOrLeaf,
// LeafNodePathLengthMismatch) are re-exported from pkg/trie below so callers
// need only import this package to errors.Is against the full taxonomy.
var (
	// ErrInvalidHeaderRLP is returned when the header RLP is not a list of
	// at least 4 items.
	ErrInvalidHeaderRLP = errors.New("verify: header RLP is not a list of at least 4 items")

	// ErrBlockHeaderHashMismatch is returned when keccak256(headerRLP)
	// does not equal the asserted block hash.
	ErrBlockHeaderHashMismatch = errors.New("verify: keccak256(header) does not match asserted block hash")

	// ErrInvalidAccountRLP is returned when the account-proof value does
	// not decode as a 4-item RLP list.
	ErrInvalidAccountRLP = errors.New("verify: account record is not a 4-item RLP list")

	// ErrAccountNotFound is returned when the account proof proves the
	// account was never written.
	ErrAccountNotFound = errors.New("verify: account proof proves absence")
)

// Re-exported trie-layer sentinels, so a caller only needs to import
// pkg/verify to check the full error taxonomy with errors.Is.
var (
	ErrInvalidRLP                   = trie.ErrInvalidRLP
	ErrInvalidProofNodeHash         = trie.ErrInvalidProofNodeHash
	ErrInvalidProofNodeLength       = trie.ErrInvalidProofNodeLength
	ErrInvalidNibbleRange           = trie.ErrInvalidNibbleRange
	ErrEmptyCompactValue            = trie.ErrEmptyCompactValue
	ErrKeyMismatchInExtensionOrLeaf = trie.ErrKeyMismatchInExtensionOrLeaf
	ErrLeafNodePathLengthMismatch   = trie.ErrLeafNodePathLengthMismatch
)
