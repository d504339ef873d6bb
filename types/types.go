package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Keys

type Scheme byte

const (
	SchemeSecp256k1 Scheme = 0
	SchemeEd25519   Scheme = 1
)

func (s Scheme) String() string {
	switch s {
	case SchemeSecp256k1:
		return "secp256k1"
	case SchemeEd25519:
		return "ed25519"
	default:
		return fmt.Sprintf("scheme(%d)", byte(s))
	}
}

// PublicKey is a serialized public key tagged with the scheme that produced it.
// Secp256k1 keys are stored compressed (33 bytes), Ed25519 keys as 32 bytes.
type PublicKey struct {
	Scheme Scheme
	Key    []byte
}

func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.Scheme == other.Scheme && bytes.Equal(pk.Key, other.Key)
}

// Short is a human friendly prefix of the key, used in logs.
func (pk PublicKey) Short() string {
	if len(pk.Key) <= 4 {
		return hex.EncodeToString(pk.Key)
	}
	return hex.EncodeToString(pk.Key[:4])
}

func (pk PublicKey) String() string {
	return pk.Scheme.String() + ":" + hex.EncodeToString(pk.Key)
}

// Value

// Amount is a fixed-point quantity in base units. One coin is Coin base units.
type Amount uint64

const (
	Coin       Amount = 100_000_000
	DefaultFee Amount = Coin / 10
)

func (a Amount) String() string {
	return fmt.Sprintf("%d.%08d", uint64(a/Coin), uint64(a%Coin))
}
