// item.go decodes an arbitrary RLP encoding into a tree of Items without
// any knowledge of the target schema. This is the form the trie walker
// needs: MPT nodes are not statically typed (a child slot may hold a
// branch, an extension, a leaf, or nothing at all), so the decoder has to
// hand back a tagged tree and let the caller dispatch on shape.
//
// Unlike DecodeBytes (decode.go), which decodes into a known Go value via
// reflection, Decode here never looks past the bytes themselves: every
// Item additionally remembers exactly how many bytes of the input it
// consumed, because the proof walker must distinguish a 32-byte hash
// reference from a smaller inline-encoded child purely by encoded length.
package rlp

import (
	"errors"

	"github.com/holiman/uint256"
)

// ErrInvalidRLP is returned for malformed length headers, truncated
// inputs, or structurally inconsistent nesting.
var ErrInvalidRLP = errors.New("rlp: invalid encoding")

// Item is one node of a decoded RLP tree: either a byte string or a list
// of further Items.
type Item struct {
	isList     bool
	content    []byte  // byte-string payload (isList == false)
	raw        []byte  // the item's own encoding, header included
	elems      []*Item // child items (isList == true)
	encodedLen int      // bytes of the input this item's encoding occupies
}

// Decode parses the single RLP item at the start of data. Trailing bytes
// after the item are ignored rather than rejected: callers decode proof
// nodes one at a time out of an array of independently-encoded byte
// strings, and the recursive nature of list decoding already consumes
// exactly the declared payload for nested items.
func Decode(data []byte) (*Item, error) {
	item, _, err := decodeItem(data)
	return item, err
}

func decodeItem(data []byte) (*Item, int, error) {
	if len(data) == 0 {
		return nil, 0, ErrInvalidRLP
	}
	prefix := data[0]
	switch {
	case prefix <= 0x7f:
		return &Item{content: data[0:1], raw: data[0:1], encodedLen: 1}, 1, nil

	case prefix <= 0xb7:
		size := int(prefix - 0x80)
		end := 1 + size
		if end > len(data) {
			return nil, 0, ErrInvalidRLP
		}
		return &Item{content: data[1:end], raw: data[0:end], encodedLen: end}, end, nil

	case prefix <= 0xbf:
		lenOfLen := int(prefix - 0xb7)
		if 1+lenOfLen > len(data) {
			return nil, 0, ErrInvalidRLP
		}
		size, err := decodeLength(data[1 : 1+lenOfLen])
		if err != nil {
			return nil, 0, err
		}
		start := 1 + lenOfLen
		end := start + size
		if end < start || end > len(data) {
			return nil, 0, ErrInvalidRLP
		}
		return &Item{content: data[start:end], raw: data[0:end], encodedLen: end}, end, nil

	case prefix <= 0xf7:
		size := int(prefix - 0xc0)
		end := 1 + size
		if end > len(data) {
			return nil, 0, ErrInvalidRLP
		}
		elems, err := decodeItems(data[1:end])
		if err != nil {
			return nil, 0, err
		}
		return &Item{isList: true, raw: data[0:end], elems: elems, encodedLen: end}, end, nil

	default:
		lenOfLen := int(prefix - 0xf7)
		if 1+lenOfLen > len(data) {
			return nil, 0, ErrInvalidRLP
		}
		size, err := decodeLength(data[1 : 1+lenOfLen])
		if err != nil {
			return nil, 0, err
		}
		start := 1 + lenOfLen
		end := start + size
		if end < start || end > len(data) {
			return nil, 0, ErrInvalidRLP
		}
		elems, err := decodeItems(data[start:end])
		if err != nil {
			return nil, 0, err
		}
		return &Item{isList: true, raw: data[0:end], elems: elems, encodedLen: end}, end, nil
	}
}

// decodeItems decodes a run of back-to-back items filling payload exactly.
func decodeItems(payload []byte) ([]*Item, error) {
	var elems []*Item
	for len(payload) > 0 {
		item, n, err := decodeItem(payload)
		if err != nil {
			return nil, err
		}
		elems = append(elems, item)
		payload = payload[n:]
	}
	return elems, nil
}

func decodeLength(b []byte) (int, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, ErrInvalidRLP
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	if v > 1<<31 {
		return 0, ErrInvalidRLP
	}
	return int(v), nil
}

// IsList reports whether the item is a list rather than a byte string.
func (it *Item) IsList() bool {
	return it != nil && it.isList
}

// EncodedLen returns the number of input bytes this item's own encoding
// occupies, header included. The trie walker treats any reference whose
// EncodedLen is below 32 as an inline child rather than a hash.
func (it *Item) EncodedLen() int {
	if it == nil {
		return 0
	}
	return it.encodedLen
}

// AsList returns the item's child items. It fails if the item is a byte
// string.
func (it *Item) AsList() ([]*Item, error) {
	if it == nil || !it.isList {
		return nil, ErrExpectedList
	}
	return it.elems, nil
}

// AsBytes returns the content of a byte-string item, or the item's own
// original RLP encoding if it is a list. The dual behavior is
// intentional: the walker re-hashes an inline child by asking for the
// exact bytes the parent referenced, and that reference is itself the
// child's RLP list encoding, not a "content" in the byte-string sense.
func (it *Item) AsBytes() []byte {
	if it == nil {
		return nil
	}
	if it.isList {
		return it.raw
	}
	return it.content
}

// AsUint256 interprets a byte-string item's content as a big-endian
// unsigned integer. Leading zeros are accepted; canonicity is not
// enforced at this layer.
func (it *Item) AsUint256() (*uint256.Int, error) {
	b := it.AsBytes()
	if len(b) > 32 {
		return nil, ErrValueTooLarge
	}
	var u uint256.Int
	u.SetBytes(b)
	return &u, nil
}
