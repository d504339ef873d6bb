package blockchain

import (
	"bytes"
	"encoding/binary"
	"testing"

	"tradeledger/types"
)

func TestLengthPrefixes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "empty", size: 0},
		{name: "one byte prefix", size: 127},
		{name: "over a byte", size: 256},
		{name: "over two bytes", size: 1<<16 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bytes.Repeat([]byte{0xAB}, tt.size)

			for name, enc := range map[string][]byte{
				"bytes": encodeBytes(payload, nil),
				"key":   encodeKey(types.PublicKey{Scheme: types.SchemeEd25519, Key: payload}, nil)[1:],
			} {
				n, w := binary.Uvarint(enc)
				if w <= 0 || n != uint64(tt.size) {
					t.Errorf("%s prefix decoded to %d wanted %d", name, n, tt.size)
				}
				if len(enc)-w != tt.size {
					t.Errorf("%s body was %d bytes wanted %d", name, len(enc)-w, tt.size)
				}
			}
		})
	}
}

func TestOversizeKeysDoNotCollide(t *testing.T) {
	long := types.PublicKey{Scheme: types.SchemeSecp256k1, Key: make([]byte, 256)}
	short := types.PublicKey{Scheme: types.SchemeSecp256k1}

	x := NewTransaction(long, short, 1)
	y := NewTransaction(short, short, 1)
	if bytes.HasPrefix(x.Encode(), y.Encode()[:2]) {
		t.Errorf("256-byte key encodes with an empty key's prefix")
	}
}
