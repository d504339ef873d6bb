package types

import "testing"

func TestAmountString(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
	}{
		{amount: 0, want: "0.00000000"},
		{amount: DefaultFee, want: "0.10000000"},
		{amount: 100 * Coin, want: "100.00000000"},
		{amount: Coin + 1, want: "1.00000001"},
	}

	for _, tt := range tests {
		if got := tt.amount.String(); got != tt.want {
			t.Errorf("got %q wanted %q", got, tt.want)
		}
	}
}

func TestPublicKeyEqual(t *testing.T) {
	a := PublicKey{Scheme: SchemeSecp256k1, Key: []byte{1, 2, 3}}

	if !a.Equal(PublicKey{Scheme: SchemeSecp256k1, Key: []byte{1, 2, 3}}) {
		t.Errorf("identical keys are not equal")
	}
	if a.Equal(PublicKey{Scheme: SchemeEd25519, Key: []byte{1, 2, 3}}) {
		t.Errorf("keys of different schemes are equal")
	}
	if a.Equal(PublicKey{Scheme: SchemeSecp256k1, Key: []byte{1, 2, 4}}) {
		t.Errorf("different keys are equal")
	}
	if a.Short() != "010203" {
		t.Errorf("got %q wanted %q", a.Short(), "010203")
	}
}
