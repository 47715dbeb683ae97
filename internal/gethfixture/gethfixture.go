// Package gethfixture is the module's sole point of contact with
// go-ethereum. Every other package builds and walks Merkle-Patricia
// tries from scratch; this package drives go-ethereum's own trie and
// RLP implementations to produce golden roots, proofs, and header
// encodings that the from-scratch code can be checked against.
//
// Grounded on the teacher's pkg/geth/types.go convention of confining a
// heavyweight external dependency to one adapter package, and on
// mapprotocol-compass's internal/proof/proof.go for the trie.New /
// Update / Prove wiring (this module's own pkg/trie has no mutable
// Trie type to build fixtures from, so a real one is borrowed here).
package gethfixture

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/crypto"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
)

// proofNodeSet is a minimal ethdb.KeyValueWriter that records the nodes
// written during trie.Trie.Prove in the order they were first put, the
// same ordered-and-deduplicated shape go-ethereum's now-removed
// light.NodeSet provided.
type proofNodeSet struct {
	order []string
	nodes map[string][]byte
}

func newProofNodeSet() *proofNodeSet {
	return &proofNodeSet{nodes: make(map[string][]byte)}
}

func (n *proofNodeSet) Put(key, value []byte) error {
	k := string(key)
	if _, ok := n.nodes[k]; !ok {
		n.order = append(n.order, k)
	}
	n.nodes[k] = value
	return nil
}

func (n *proofNodeSet) Delete(key []byte) error {
	delete(n.nodes, string(key))
	return nil
}

func (n *proofNodeSet) NodeList() [][]byte {
	list := make([][]byte, 0, len(n.order))
	for _, k := range n.order {
		list = append(list, n.nodes[k])
	}
	return list
}

// NewTrie returns an empty in-memory Merkle-Patricia trie backed by
// go-ethereum's own implementation.
func NewTrie() (*trie.Trie, error) {
	return trie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil)), nil
}

// Insert stores each entry under its raw (already-hashed) key. Callers
// hash their own keys first, the same contract pkg/trie.Walk's callers
// follow.
func Insert(tr *trie.Trie, entries map[string][]byte) {
	for k, v := range entries {
		tr.Update([]byte(k), v)
	}
}

// Root returns the trie's current root hash.
func Root(tr *trie.Trie) [32]byte {
	return tr.Hash()
}

// Prove collects the ordered root-to-leaf node chain go-ethereum's own
// Prove method gathers for key. The returned slice is in the same shape
// pkg/trie.Walk's nodes argument expects: a golden proof to check the
// from-scratch walker against.
func Prove(tr *trie.Trie, key []byte) ([][]byte, error) {
	ns := newProofNodeSet()
	if err := tr.Prove(key, ns); err != nil {
		return nil, err
	}
	proof := make([][]byte, 0, len(ns.NodeList()))
	for _, n := range ns.NodeList() {
		proof = append(proof, n)
	}
	return proof, nil
}

// Keccak256 is go-ethereum's keccak256, exposed so tests can confirm it
// agrees byte-for-byte with pkg/crypto.DefaultHasher's
// golang.org/x/crypto/sha3-backed implementation.
func Keccak256(data ...[]byte) []byte {
	return crypto.Keccak256(data...)
}

// Header is a minimal stand-in for an Ethereum block header: four fields
// (parent hash, uncle hash, coinbase, and state root at index 3), enough
// for the verification facade's at-least-4-items check, rather than the
// full 15-plus-field production header. The facade reads only the state
// root.
type Header struct {
	ParentHash common.Hash
	UncleHash  common.Hash
	Coinbase   common.Address
	StateRoot  common.Hash
}

// EncodeHeader RLP-encodes h using go-ethereum's own rlp package. Tests
// use this as the golden encoding pkg/rlp must decode identically.
func EncodeHeader(h Header) ([]byte, error) {
	return gethrlp.EncodeToBytes([]interface{}{h.ParentHash, h.UncleHash, h.Coinbase, h.StateRoot})
}

// HeaderHash returns go-ethereum's keccak256 of h's RLP encoding, the
// value a caller would assert as a block hash.
func HeaderHash(h Header) ([32]byte, error) {
	enc, err := EncodeHeader(h)
	if err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], crypto.Keccak256(enc))
	return out, nil
}
