package blockchain

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrCorruptTree = errors.New("transaction tree does not match its hashes")
	ErrBrokenLink  = errors.New("previous hash does not match predecessor")
)

// ValidationError names the first block that failed validation.
type ValidationError struct {
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Chain is an ordered list of blocks starting at the genesis block.
// It is not safe for concurrent use; its owner serializes access.
type Chain struct {
	blocks []*Block
}

func NewChain() *Chain {
	return &Chain{blocks: []*Block{Genesis()}}
}

// Add appends b without checking it.
func (c *Chain) Add(b *Block) {
	c.blocks = append(c.blocks, b)
}

// Validate walks the chain from index 1 and stops at the first block whose
// tree is corrupt or whose PrevHash differs from the hash of its predecessor.
// The genesis block is exempt.
func (c *Chain) Validate() error {
	for i := 1; i < len(c.blocks); i++ {
		b := c.blocks[i]
		if !b.IsValid() {
			return &ValidationError{Index: i, Err: ErrCorruptTree}
		}

		prev := c.blocks[i-1].Hash()
		if !bytes.Equal(prev[:], b.PrevHash) {
			return &ValidationError{Index: i, Err: ErrBrokenLink}
		}
	}
	return nil
}

func (c *Chain) IsValid() bool {
	return c.Validate() == nil
}

func (c *Chain) Len() int {
	return len(c.blocks)
}

func (c *Chain) Tip() *Block {
	return c.blocks[len(c.blocks)-1]
}

func (c *Chain) Block(i int) *Block {
	return c.blocks[i]
}

// Blocks returns a copy of the block list.
func (c *Chain) Blocks() []*Block {
	return append([]*Block(nil), c.blocks...)
}
