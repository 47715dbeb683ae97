package ethproof

import (
	"bytes"
	"encoding/hex"
	"testing"
)

const sampleResponse = `{
	"address": "0x1111111111111111111111111111111111111111",
	"accountProof": ["0xaabbcc", "0xddeeff"],
	"balance": "0x64",
	"codeHash": "0x0000000000000000000000000000000000000000000000000000000000000000",
	"nonce": "0x1",
	"storageHash": "0x0000000000000000000000000000000000000000000000000000000000000000",
	"storageProof": [
		{"key": "0x00", "value": "0x2a", "proof": ["0x010203"]},
		{"key": "0x11", "value": "0x0", "proof": []}
	]
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sampleResponse))
	if err != nil {
		t.Fatal(err)
	}

	account, err := p.Account()
	if err != nil {
		t.Fatal(err)
	}
	want := bytes.Repeat([]byte{0x11}, 20)
	if !bytes.Equal(account[:], want) {
		t.Fatalf("account = %x, want %x", account, want)
	}

	nodes, err := p.AccountProofNodes()
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 || !bytes.Equal(nodes[0], []byte{0xaa, 0xbb, 0xcc}) {
		t.Fatalf("nodes = %x", nodes)
	}

	balance, err := p.Balance()
	if err != nil {
		t.Fatal(err)
	}
	if balance.Int64() != 0x64 {
		t.Fatalf("balance = %v, want 100", balance)
	}
}

func TestStorageProofFor(t *testing.T) {
	p, err := Parse([]byte(sampleResponse))
	if err != nil {
		t.Fatal(err)
	}

	slot, proof, err := p.StorageProofFor("0x00")
	if err != nil {
		t.Fatal(err)
	}
	var wantSlot [32]byte
	if slot != wantSlot {
		t.Fatalf("slot = %x, want zero", slot)
	}
	if len(proof) != 1 {
		t.Fatalf("proof = %x", proof)
	}

	_, _, err = p.StorageProofFor("0xff")
	if err == nil {
		t.Fatal("want an error for a key not present in the response")
	}
}

func TestStorageProofs(t *testing.T) {
	p, err := Parse([]byte(sampleResponse))
	if err != nil {
		t.Fatal(err)
	}

	all, err := p.StorageProofs()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	var wantSecond [32]byte
	wantSecond[31] = 0x11
	if all[1].Slot != wantSecond {
		t.Fatalf("all[1].Slot = %x, want %x", all[1].Slot, wantSecond)
	}
}

func TestDecodeHex_OddLength(t *testing.T) {
	b, err := decodeHex("0xa")
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(b) != "0a" {
		t.Fatalf("decodeHex(0xa) = %x", b)
	}
}
