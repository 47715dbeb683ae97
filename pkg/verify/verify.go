package verify

import (
	"github.com/holiman/uint256"
	pkgerrors "github.com/pkg/errors"

	"github.com/stevennevins/storage-proofs/pkg/rlp"
	"github.com/stevennevins/storage-proofs/pkg/trie"
)

// VerifyStorageRoot validates headerRLP against the asserted blockHash,
// extracts the state root, walks accountProof for account's record, and
// returns the account's storage root (spec.md §4.4).
func (c *Config) VerifyStorageRoot(headerRLP []byte, blockHash [32]byte, account [20]byte, accountProof [][]byte) ([32]byte, error) {
	var zero [32]byte

	header, err := rlp.Decode(headerRLP)
	if err != nil {
		return zero, pkgerrors.Wrap(ErrInvalidHeaderRLP, err.Error())
	}
	fields, err := header.AsList()
	if err != nil || len(fields) < 4 {
		return zero, ErrInvalidHeaderRLP
	}

	if c.hasher.Keccak256(headerRLP) != blockHash {
		return zero, ErrBlockHeaderHashMismatch
	}

	var stateRoot [32]byte
	copy(stateRoot[:], fields[3].AsBytes())

	accountKey := c.hasher.Keccak256(account[:])
	accountPath := trie.KeyToNibbles(accountKey[:])

	c.debug("walking account proof", "account", account)
	result, err := trie.Walk(c.hasher, accountPath, accountProof, stateRoot)
	if err != nil {
		c.warn("account proof walk failed", "account", account, "err", err)
		return zero, err
	}
	if !result.Found {
		c.warn("account not found", "account", account)
		return zero, ErrAccountNotFound
	}

	acct, err := rlp.Decode(result.Value)
	if err != nil {
		return zero, pkgerrors.Wrap(ErrInvalidAccountRLP, err.Error())
	}
	acctFields, err := acct.AsList()
	if err != nil || len(acctFields) != 4 {
		return zero, ErrInvalidAccountRLP
	}

	var storageRoot [32]byte
	copy(storageRoot[:], acctFields[2].AsBytes())
	return storageRoot, nil
}

// VerifySlot walks storageProof under storageRoot for keccak256(slot) and
// decodes the value as a 256-bit unsigned integer. An absent slot returns
// zero, not an error: unset storage slots have no trie entry (spec.md §4.4).
func (c *Config) VerifySlot(storageRoot [32]byte, slot [32]byte, storageProof [][]byte) (*uint256.Int, error) {
	slotKey := c.hasher.Keccak256(slot[:])
	slotPath := trie.KeyToNibbles(slotKey[:])

	c.debug("walking storage proof", "slot", slot)
	result, err := trie.Walk(c.hasher, slotPath, storageProof, storageRoot)
	if err != nil {
		c.warn("storage proof walk failed", "slot", slot, "err", err)
		return nil, err
	}
	if !result.Found {
		return new(uint256.Int), nil
	}

	value, err := rlp.Decode(result.Value)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrInvalidRLP, err.Error())
	}
	return value.AsUint256()
}

// Verify composes VerifyStorageRoot and VerifySlot: given a header, its
// asserted block hash, an account, a storage slot, and both proof chains,
// it returns the slot's value and the account's storage root, or the
// first error either step raised (spec.md §4.4).
func (c *Config) Verify(headerRLP []byte, blockHash [32]byte, account [20]byte, accountProof [][]byte, slot [32]byte, storageProof [][]byte) (*uint256.Int, [32]byte, error) {
	storageRoot, err := c.VerifyStorageRoot(headerRLP, blockHash, account, accountProof)
	if err != nil {
		return nil, [32]byte{}, err
	}
	value, err := c.VerifySlot(storageRoot, slot, storageProof)
	if err != nil {
		return nil, [32]byte{}, err
	}
	return value, storageRoot, nil
}

// VerifyAccount is VerifyStorageRoot under the name used alongside the
// batch entry point: run it once per account, then VerifySlots over that
// account's storage keys against the storage root it returns.
func (c *Config) VerifyAccount(headerRLP []byte, blockHash [32]byte, account [20]byte, accountProof [][]byte) ([32]byte, error) {
	return c.VerifyStorageRoot(headerRLP, blockHash, account, accountProof)
}

// SlotProof pairs a storage key with its proof chain, the shape
// eth_getProof naturally returns per account (multiple storage keys per
// request).
type SlotProof struct {
	Slot  [32]byte
	Proof [][]byte
}

// SlotResult is the outcome of verifying one storage slot within
// VerifySlots.
type SlotResult struct {
	Slot  [32]byte
	Value *uint256.Int
	Err   error
}

// VerifySlots verifies several storage slots against one already-verified
// storage root. Each slot is verified independently; a failure verifying
// one slot does not affect the others' results.
func (c *Config) VerifySlots(storageRoot [32]byte, slots []SlotProof) []SlotResult {
	results := make([]SlotResult, len(slots))
	for i, sp := range slots {
		value, err := c.VerifySlot(storageRoot, sp.Slot, sp.Proof)
		results[i] = SlotResult{Slot: sp.Slot, Value: value, Err: err}
	}
	return results
}

// defaultConfig backs the package-level convenience functions below,
// mirroring pkg/log's Default()/package-level function pattern.
var defaultConfig = NewConfig()

// VerifyStorageRoot calls Config.VerifyStorageRoot on the default Config.
func VerifyStorageRoot(headerRLP []byte, blockHash [32]byte, account [20]byte, accountProof [][]byte) ([32]byte, error) {
	return defaultConfig.VerifyStorageRoot(headerRLP, blockHash, account, accountProof)
}

// VerifySlot calls Config.VerifySlot on the default Config.
func VerifySlot(storageRoot [32]byte, slot [32]byte, storageProof [][]byte) (*uint256.Int, error) {
	return defaultConfig.VerifySlot(storageRoot, slot, storageProof)
}

// Verify calls Config.Verify on the default Config.
func Verify(headerRLP []byte, blockHash [32]byte, account [20]byte, accountProof [][]byte, slot [32]byte, storageProof [][]byte) (*uint256.Int, [32]byte, error) {
	return defaultConfig.Verify(headerRLP, blockHash, account, accountProof, slot, storageProof)
}
