package keys

import (
	"crypto/sha256"
	"errors"
	"testing"

	"tradeledger/types"
)

func newSigners(tb testing.TB) []Signer {
	secp, err := NewSecpSigner()
	if err != nil {
		tb.Fatalf("could not generate secp256k1 key: %v", err)
	}
	return []Signer{secp, NewEdSigner()}
}

func TestSignVerify(t *testing.T) {
	digest := sha256.Sum256([]byte("100 coins from A to B"))

	for _, signer := range newSigners(t) {
		t.Run(signer.PublicKey().Scheme.String(), func(t *testing.T) {
			sig, err := signer.Sign(digest[:])
			if err != nil {
				t.Fatalf("sign failed: %v", err)
			}

			if !Verify(signer.PublicKey(), digest[:], sig) {
				t.Errorf("signature did not verify under its own key")
			}

			other := sha256.Sum256([]byte("1000 coins from A to B"))
			if Verify(signer.PublicKey(), other[:], sig) {
				t.Errorf("signature verified for a different digest")
			}

			if Verify(signer.PublicKey(), digest[:], nil) {
				t.Errorf("empty signature verified")
			}

			garbage := make([]byte, len(sig))
			for i := range garbage {
				garbage[i] = 0xAB
			}
			if Verify(signer.PublicKey(), digest[:], garbage) {
				t.Errorf("arbitrary signature verified")
			}
		})
	}
}

func TestVerifyWrongKey(t *testing.T) {
	digest := sha256.Sum256([]byte("payload"))
	a := newSigners(t)
	b := newSigners(t)

	for i := range a {
		sig, err := a[i].Sign(digest[:])
		if err != nil {
			t.Fatalf("sign failed: %v", err)
		}
		if Verify(b[i].PublicKey(), digest[:], sig) {
			t.Errorf("%v signature verified under a foreign key", a[i].PublicKey().Scheme)
		}
	}

	// Same key bytes presented under the other scheme.
	sig, _ := a[0].Sign(digest[:])
	swapped := types.PublicKey{Scheme: types.SchemeEd25519, Key: a[0].PublicKey().Key}
	if Verify(swapped, digest[:], sig) {
		t.Errorf("secp256k1 signature verified as ed25519")
	}
}

func TestCheckKey(t *testing.T) {
	signers := newSigners(t)

	tests := []struct {
		name    string
		key     types.PublicKey
		wantErr error
	}{
		{name: "secp256k1", key: signers[0].PublicKey()},
		{name: "ed25519", key: signers[1].PublicKey()},
		{name: "truncated secp256k1", key: types.PublicKey{Scheme: types.SchemeSecp256k1, Key: signers[0].PublicKey().Key[:10]}, wantErr: ErrMalformedKey},
		{name: "truncated ed25519", key: types.PublicKey{Scheme: types.SchemeEd25519, Key: []byte{1, 2, 3}}, wantErr: ErrMalformedKey},
		{name: "unknown scheme", key: types.PublicKey{Scheme: 7, Key: []byte{1}}, wantErr: ErrUnknownScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckKey(tt.key)
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v wanted %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, scheme := range []types.Scheme{types.SchemeSecp256k1, types.SchemeEd25519} {
		signer, err := New(scheme)
		if err != nil {
			t.Fatalf("New(%v) failed: %v", scheme, err)
		}
		if signer.PublicKey().Scheme != scheme {
			t.Errorf("got scheme %v wanted %v", signer.PublicKey().Scheme, scheme)
		}
	}

	if _, err := New(9); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("got %v wanted %v", err, ErrUnknownScheme)
	}
}
