package blockchain

import (
	"context"
)

// Target decides whether a block digest is an acceptable proof-of-work.
type Target func(hash [32]byte) bool

// LeadingZeroBytes accepts digests starting with n zero bytes.
func LeadingZeroBytes(n int) Target {
	return func(hash [32]byte) bool {
		if n > len(hash) {
			return false
		}
		for i := 0; i < n; i++ {
			if hash[i] != 0 {
				return false
			}
		}
		return true
	}
}

var DefaultTarget = LeadingZeroBytes(1)

// ctx is only looked at every ctxCheckInterval attempts.
const ctxCheckInterval = 4096

// Mine searches nonces from 0 upward, leaving b.Nonce at the first value whose
// block digest meets target. The search has no bound other than ctx.
func Mine(ctx context.Context, b *Block, target Target) (uint64, error) {
	for nonce := uint64(0); ; nonce++ {
		if nonce%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}

		b.Nonce = nonce
		if target(b.Hash()) {
			return nonce, nil
		}
	}
}
