package blockchain

import (
	"errors"
	"testing"

	"tradeledger/keys"
	"tradeledger/types"
)

func newSigner(tb testing.TB, scheme types.Scheme) keys.Signer {
	signer, err := keys.New(scheme)
	if err != nil {
		tb.Fatalf("could not generate key: %v", err)
	}
	return signer
}

type failingSigner struct {
	keys.Signer
}

func (failingSigner) Sign([]byte) ([]byte, error) {
	return nil, errors.New("hsm unavailable")
}

func TestNewTransaction(t *testing.T) {
	a := newSigner(t, types.SchemeSecp256k1)
	b := newSigner(t, types.SchemeSecp256k1)

	txn := NewTransaction(a.PublicKey(), b.PublicKey(), 100*types.Coin)

	if txn.Fee != types.DefaultFee {
		t.Errorf("fee was incorrect, got %v wanted %v", txn.Fee, types.DefaultFee)
	}
	if txn.Change != 0 {
		t.Errorf("change was incorrect, got %v wanted %v", txn.Change, 0)
	}
	if txn.Amount != 100*types.Coin {
		t.Errorf("amount was incorrect, got %v wanted %v", txn.Amount, 100*types.Coin)
	}
}

func TestSignedTransactionIsValid(t *testing.T) {
	for _, scheme := range []types.Scheme{types.SchemeSecp256k1, types.SchemeEd25519} {
		t.Run(scheme.String(), func(t *testing.T) {
			a := newSigner(t, scheme)
			b := newSigner(t, scheme)

			st, err := NewTransaction(a.PublicKey(), b.PublicKey(), 100*types.Coin).Sign(a)
			if err != nil {
				t.Fatalf("sign failed: %v", err)
			}
			if !st.IsValid() {
				t.Fatalf("freshly signed transaction is invalid")
			}

			empty := *st
			empty.Signature = []byte{}
			if empty.IsValid() {
				t.Errorf("transaction with empty signature is valid")
			}

			arbitrary := *st
			arbitrary.Signature = []byte("definitely not a signature")
			if arbitrary.IsValid() {
				t.Errorf("transaction with arbitrary signature is valid")
			}

			inflated := *st
			inflated.Transaction.Amount = 1_000 * types.Coin
			if inflated.IsValid() {
				t.Errorf("transaction with altered amount is valid")
			}
		})
	}
}

func TestSignedBySomeoneElse(t *testing.T) {
	a := newSigner(t, types.SchemeSecp256k1)
	b := newSigner(t, types.SchemeSecp256k1)

	// B signs a transfer out of A's account.
	st, err := NewTransaction(a.PublicKey(), b.PublicKey(), 5*types.Coin).Sign(b)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if st.IsValid() {
		t.Errorf("transaction signed by the receiver is valid")
	}
}

func TestSignFailure(t *testing.T) {
	a := newSigner(t, types.SchemeSecp256k1)

	_, err := NewTransaction(a.PublicKey(), a.PublicKey(), 1).Sign(failingSigner{a})
	if !errors.Is(err, ErrSign) {
		t.Errorf("got %v wanted %v", err, ErrSign)
	}
}

func TestEncodeIsStable(t *testing.T) {
	a := newSigner(t, types.SchemeSecp256k1)
	b := newSigner(t, types.SchemeEd25519)

	x := NewTransaction(a.PublicKey(), b.PublicKey(), 42)
	y := NewTransaction(a.PublicKey(), b.PublicKey(), 42)

	if x.Digest() != y.Digest() {
		t.Errorf("equal transactions produced different digests")
	}

	y.Fee = 0
	if x.Digest() == y.Digest() {
		t.Errorf("fee is not covered by the digest")
	}
}
