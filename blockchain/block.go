package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"tradeledger/hashtree"

	"github.com/google/uuid"
)

// Block commits a set of signed transactions. Nonce is the only field that
// changes after construction, and only while the block is being mined. Once
// published a block must not be modified.
type Block struct {
	ID           string
	Transactions *hashtree.Tree[*SignedTransaction]
	Nonce        uint64
	Timestamp    uint64
	PrevHash     []byte
}

// NewBlock starts an empty block on top of the block whose hash is prevHash.
func NewBlock(prevHash []byte) *Block {
	return &Block{
		ID:           uuid.NewString(),
		Transactions: hashtree.New[*SignedTransaction](),
		Nonce:        0,
		Timestamp:    uint64(time.Now().Unix()),
		PrevHash:     append([]byte{}, prevHash...),
	}
}

func (b *Block) Add(st *SignedTransaction) {
	b.Transactions.Add(st)
}

func (b *Block) Encode() []byte {
	var data []byte

	data = encodeBytes([]byte(b.ID), data)
	root := b.Transactions.RootHash()
	data = append(data, root[:]...)
	data = binary.LittleEndian.AppendUint64(data, b.Nonce)
	data = binary.LittleEndian.AppendUint64(data, b.Timestamp)
	data = encodeBytes(b.PrevHash, data)

	return data
}

// Hash is the content digest used both for proof-of-work and for the
// PrevHash link of the next block.
func (b *Block) Hash() [32]byte {
	return sha256.Sum256(b.Encode())
}

// IsValid checks the integrity of the transaction tree. Linkage to the
// previous block is a property of the chain, see Chain.Validate.
func (b *Block) IsValid() bool {
	return b.Transactions.IsValid()
}
