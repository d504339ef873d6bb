// Package keys is the signing capability used by traders: producing signatures
// with a private key that never leaves its owner and verifying them against a
// serialized public key.
package keys

import (
	"errors"
	"fmt"

	t "tradeledger/types"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

var (
	ErrUnknownScheme = errors.New("unknown signature scheme")
	ErrMalformedKey  = errors.New("malformed public key")
)

// Signer signs 32 byte digests with a private key it owns.
type Signer interface {
	PublicKey() t.PublicKey
	Sign(digest []byte) ([]byte, error)
}

// Verify reports whether sig is a valid signature of digest under pk.
// An invalid or malformed signature is a normal outcome and yields false.
func Verify(pk t.PublicKey, digest []byte, sig []byte) bool {
	switch pk.Scheme {
	case t.SchemeSecp256k1:
		return verifySecp(pk.Key, digest, sig)
	case t.SchemeEd25519:
		return verifyEd(pk.Key, digest, sig)
	default:
		return false
	}
}

// CheckKey decodes pk and reports whether it is usable for verification.
func CheckKey(pk t.PublicKey) error {
	switch pk.Scheme {
	case t.SchemeSecp256k1:
		if _, err := secp256k1.ParsePubKey(pk.Key); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
	case t.SchemeEd25519:
		if _, err := parseEdPoint(pk.Key); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownScheme, pk.Scheme)
	}
	return nil
}

// New creates a signer with a freshly generated key for the given scheme.
func New(scheme t.Scheme) (Signer, error) {
	switch scheme {
	case t.SchemeSecp256k1:
		return NewSecpSigner()
	case t.SchemeEd25519:
		return NewEdSigner(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownScheme, scheme)
	}
}

func verifySecp(key, digest, sig []byte) bool {
	pub, err := secp256k1.ParsePubKey(key)
	if err != nil {
		return false
	}
	parsed, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(digest, pub)
}
