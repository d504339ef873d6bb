package keys

import (
	t "tradeledger/types"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// SecpSigner signs with schnorr signatures over secp256k1.
type SecpSigner struct {
	priv *secp256k1.PrivateKey
	pub  t.PublicKey
}

func NewSecpSigner() (*SecpSigner, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return SecpSignerFromKey(priv), nil
}

func SecpSignerFromKey(priv *secp256k1.PrivateKey) *SecpSigner {
	return &SecpSigner{
		priv: priv,
		pub: t.PublicKey{
			Scheme: t.SchemeSecp256k1,
			Key:    priv.PubKey().SerializeCompressed(),
		},
	}
}

func (s *SecpSigner) PublicKey() t.PublicKey {
	return s.pub
}

// Sign expects a 32 byte digest.
func (s *SecpSigner) Sign(digest []byte) ([]byte, error) {
	sig, err := schnorr.Sign(s.priv, digest)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}
