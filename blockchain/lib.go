package blockchain

import (
	"sync"
	"time"

	"tradeledger/hashtree"
)

const GenesisID = "Genesis"

// Every chain created in this process shares one genesis timestamp, so every
// replica starts from the same genesis hash.
var genesisTime = sync.OnceValue(func() uint64 {
	return uint64(time.Now().Unix())
})

// Genesis returns the fixed first block. It is valid by definition.
func Genesis() *Block {
	return &Block{
		ID:           GenesisID,
		Transactions: hashtree.New[*SignedTransaction](),
		Nonce:        0,
		Timestamp:    genesisTime(),
		PrevHash:     []byte{},
	}
}
