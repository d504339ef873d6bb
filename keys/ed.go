package keys

import (
	t "tradeledger/types"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
)

var suite suites.Suite = suites.MustFind("Ed25519")

// EdSigner signs with kyber's schnorr signatures over the Ed25519 group.
type EdSigner struct {
	priv kyber.Scalar
	pub  t.PublicKey
}

func NewEdSigner() *EdSigner {
	priv := suite.Scalar().Pick(suite.RandomStream())
	point := suite.Point().Mul(priv, nil)
	// Marshalling a point of the suite's own group cannot fail.
	key, _ := point.MarshalBinary()
	return &EdSigner{
		priv: priv,
		pub:  t.PublicKey{Scheme: t.SchemeEd25519, Key: key},
	}
}

func (s *EdSigner) PublicKey() t.PublicKey {
	return s.pub
}

func (s *EdSigner) Sign(digest []byte) ([]byte, error) {
	return schnorr.Sign(suite, s.priv, digest)
}

func parseEdPoint(key []byte) (kyber.Point, error) {
	point := suite.Point()
	if err := point.UnmarshalBinary(key); err != nil {
		return nil, err
	}
	return point, nil
}

func verifyEd(key, digest, sig []byte) bool {
	point, err := parseEdPoint(key)
	if err != nil {
		return false
	}
	return schnorr.Verify(suite, point, digest, sig) == nil
}
