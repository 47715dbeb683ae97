// Package ethproof adapts an eth_getProof (EIP-1186) JSON response into the
// raw inputs pkg/verify's facade expects. It is a pure decoder: no
// networking, no RPC client, matching spec.md §6's "external collaborators"
// boundary (a proof source is outside the core) while making that
// collaborator concrete enough to actually drive the facade from a real
// provider's response.
//
// Grounded on the teacher's pkg/rpc/api_proof.go AccountProof/StorageProof
// response structs.
package ethproof

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// StorageProof is one storage slot's key, value, and proof chain within an
// eth_getProof response.
type StorageProof struct {
	Key   string   `json:"key"`
	Value string   `json:"value"`
	Proof []string `json:"proof"`
}

// AccountProof is the full eth_getProof (EIP-1186) response shape.
type AccountProof struct {
	Address      string         `json:"address"`
	AccountProof []string       `json:"accountProof"`
	BalanceHex   string         `json:"balance"`
	CodeHash     string         `json:"codeHash"`
	NonceHex     string         `json:"nonce"`
	StorageHash  string         `json:"storageHash"`
	StorageProof []StorageProof `json:"storageProof"`
}

// Parse decodes a raw eth_getProof JSON response.
func Parse(data []byte) (*AccountProof, error) {
	var p AccountProof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("ethproof: %w", err)
	}
	return &p, nil
}

// Account decodes the response's hex-string address into the 20-byte form
// pkg/verify.Config.VerifyStorageRoot takes.
func (p *AccountProof) Account() ([20]byte, error) {
	var out [20]byte
	b, err := decodeHex(p.Address)
	if err != nil {
		return out, fmt.Errorf("ethproof: address: %w", err)
	}
	if len(b) != 20 {
		return out, fmt.Errorf("ethproof: address is %d bytes, want 20", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Balance decodes the response's hex-string balance. The core verifier
// never consumes balance (spec.md §3: only storageRoot is), but callers
// inspecting the raw eth_getProof response alongside a verified proof
// often want it.
func (p *AccountProof) Balance() (*big.Int, error) {
	return decodeHexBigInt(p.BalanceHex)
}

// Nonce decodes the response's hex-string nonce, for the same reason as
// Balance.
func (p *AccountProof) Nonce() (*big.Int, error) {
	return decodeHexBigInt(p.NonceHex)
}

func decodeHexBigInt(s string) (*big.Int, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("ethproof: %w", err)
	}
	return new(big.Int).SetBytes(b), nil
}

// AccountProofNodes decodes the response's hex-string account proof nodes
// into the ordered byte-string list pkg/verify and pkg/trie take.
func (p *AccountProof) AccountProofNodes() ([][]byte, error) {
	return decodeHexList(p.AccountProof)
}

// StorageProofFor decodes one storage slot's key and proof chain by its
// hex-string storage key, for pkg/verify.Config.VerifySlot.
func (p *AccountProof) StorageProofFor(keyHex string) (slot [32]byte, proof [][]byte, err error) {
	for _, sp := range p.StorageProof {
		if !strings.EqualFold(sp.Key, keyHex) {
			continue
		}
		return decodeSlotProof(sp)
	}
	return slot, nil, fmt.Errorf("ethproof: no storage proof for key %s", keyHex)
}

// StorageProofs decodes every storage slot in the response, in order, for
// pkg/verify.Config.VerifySlots.
func (p *AccountProof) StorageProofs() ([]SlotProof, error) {
	out := make([]SlotProof, len(p.StorageProof))
	for i, sp := range p.StorageProof {
		slot, proof, err := decodeSlotProof(sp)
		if err != nil {
			return nil, err
		}
		out[i] = SlotProof{Slot: slot, Proof: proof}
	}
	return out, nil
}

// SlotProof is a decoded storage key and its proof chain, the shape
// pkg/verify.VerifySlots consumes.
type SlotProof struct {
	Slot  [32]byte
	Proof [][]byte
}

func decodeSlotProof(sp StorageProof) (slot [32]byte, proof [][]byte, err error) {
	b, err := decodeHex(sp.Key)
	if err != nil {
		return slot, nil, fmt.Errorf("ethproof: storage key: %w", err)
	}
	if len(b) > 32 {
		return slot, nil, fmt.Errorf("ethproof: storage key is %d bytes, want <= 32", len(b))
	}
	copy(slot[32-len(b):], b) // left-pad: RPC providers return unpadded hex keys
	proof, err = decodeHexList(sp.Proof)
	if err != nil {
		return slot, nil, err
	}
	return slot, proof, nil
}

func decodeHexList(hexStrings []string) ([][]byte, error) {
	out := make([][]byte, len(hexStrings))
	for i, h := range hexStrings {
		b, err := decodeHex(h)
		if err != nil {
			return nil, fmt.Errorf("ethproof: proof node %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}
