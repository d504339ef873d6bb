// Package hashtree implements an append-only binary hash tree that commits an
// ordered collection of items to a single root hash.
//
// Leaves all live at the same depth. A branch at height h is full once it
// holds 2^h leaves. New items fill the leftmost free slot; when the whole
// tree is full a new root is grown whose left child is the old root and whose
// right child is a fresh chain of single-child branches ending in the new
// leaf. Existing subtrees are never rebuilt, so their cached hashes are reused
// and an insertion only rehashes the nodes on its own path.
package hashtree

import (
	"crypto/sha256"
)

const HashSize = sha256.Size

// Pad stands in for the hash of a missing child.
var Pad [HashSize]byte

// Item is anything the tree can commit to. Encode must be deterministic.
type Item interface {
	Encode() []byte
}

type node[T Item] interface {
	hash() [HashSize]byte
	full() bool
	size() int
	depth() int
	valid() bool
	collect(out []T) []T
	at(i int) T
}

type leaf[T Item] struct {
	item T
}

type branch[T Item] struct {
	left   node[T]
	right  node[T]
	digest [HashSize]byte
	// height is the distance from this branch down to the leaf level.
	height int
	leaves int
}

type Tree[T Item] struct {
	root *branch[T]
}

// New returns an empty tree. Its root is a childless branch whose hash is
// H(Pad ++ Pad).
func New[T Item]() *Tree[T] {
	root := &branch[T]{height: 1}
	root.rehash()
	return &Tree[T]{root: root}
}

// Add appends item as a new leaf and rehashes every branch between the leaf
// and the root.
func (tr *Tree[T]) Add(item T) {
	if !tr.root.full() {
		tr.root.insert(item)
		return
	}

	root := &branch[T]{
		left:   tr.root,
		right:  newPath(item, tr.root.height),
		height: tr.root.height + 1,
		leaves: tr.root.leaves + 1,
	}
	root.rehash()
	tr.root = root
}

// IsValid recomputes every branch hash from the stored hashes of its children
// and reports whether all of them match their cached values.
func (tr *Tree[T]) IsValid() bool {
	return tr.root.valid()
}

// Size is the total number of nodes, branches and leaves alike.
func (tr *Tree[T]) Size() int {
	return tr.root.size()
}

// Length is the number of leaves.
func (tr *Tree[T]) Length() int {
	return tr.root.leaves
}

// Depth is the longest root-to-leaf distance. An empty tree has depth 0.
func (tr *Tree[T]) Depth() int {
	return tr.root.depth()
}

func (tr *Tree[T]) RootHash() [HashSize]byte {
	return tr.root.digest
}

// Leaves returns the committed items in insertion order.
func (tr *Tree[T]) Leaves() []T {
	return tr.root.collect(make([]T, 0, tr.root.leaves))
}

// Item returns the i-th committed item in insertion order.
func (tr *Tree[T]) Item(i int) (T, bool) {
	if i < 0 || i >= tr.root.leaves {
		var zero T
		return zero, false
	}
	return tr.root.at(i), true
}

// newPath builds a chain of single-child branches of the given height ending
// in a leaf holding item. Height 0 is the leaf itself.
func newPath[T Item](item T, height int) node[T] {
	if height == 0 {
		return &leaf[T]{item: item}
	}
	b := &branch[T]{
		left:   newPath(item, height-1),
		height: height,
		leaves: 1,
	}
	b.rehash()
	return b
}

// insert must only be called on a branch that is not full.
func (b *branch[T]) insert(item T) {
	switch {
	case b.left == nil:
		b.left = newPath(item, b.height-1)
	case !b.left.full():
		b.left.(*branch[T]).insert(item)
	case b.right == nil:
		b.right = newPath(item, b.height-1)
	default:
		b.right.(*branch[T]).insert(item)
	}
	b.leaves++
	b.rehash()
}

func (b *branch[T]) rehash() {
	b.digest = b.compute()
}

func (b *branch[T]) compute() [HashSize]byte {
	l, r := childHash(b.left), childHash(b.right)
	buf := make([]byte, 0, 2*HashSize)
	buf = append(buf, l[:]...)
	buf = append(buf, r[:]...)
	return sha256.Sum256(buf)
}

func childHash[T Item](n node[T]) [HashSize]byte {
	if n == nil {
		return Pad
	}
	return n.hash()
}

func (b *branch[T]) hash() [HashSize]byte {
	return b.digest
}

func (b *branch[T]) full() bool {
	return b.leaves == 1<<b.height
}

func (b *branch[T]) size() int {
	total := 1
	if b.left != nil {
		total += b.left.size()
	}
	if b.right != nil {
		total += b.right.size()
	}
	return total
}

func (b *branch[T]) depth() int {
	d := -1
	if b.left != nil {
		d = b.left.depth()
	}
	if b.right != nil {
		d = max(d, b.right.depth())
	}
	return d + 1
}

func (b *branch[T]) valid() bool {
	if b.compute() != b.digest {
		return false
	}
	if b.left != nil && !b.left.valid() {
		return false
	}
	if b.right != nil && !b.right.valid() {
		return false
	}
	return true
}

func (b *branch[T]) collect(out []T) []T {
	if b.left != nil {
		out = b.left.collect(out)
	}
	if b.right != nil {
		out = b.right.collect(out)
	}
	return out
}

// at walks down by leaf counts; i must be below b.leaves.
func (b *branch[T]) at(i int) T {
	if n := leafCount(b.left); i >= n {
		return b.right.at(i - n)
	}
	return b.left.at(i)
}

func leafCount[T Item](n node[T]) int {
	switch n := n.(type) {
	case nil:
		return 0
	case *branch[T]:
		return n.leaves
	default:
		return 1
	}
}

func (l *leaf[T]) hash() [HashSize]byte {
	return sha256.Sum256(l.item.Encode())
}

func (l *leaf[T]) full() bool          { return true }
func (l *leaf[T]) size() int           { return 1 }
func (l *leaf[T]) depth() int          { return 0 }
func (l *leaf[T]) valid() bool         { return true }
func (l *leaf[T]) collect(out []T) []T { return append(out, l.item) }
func (l *leaf[T]) at(int) T            { return l.item }
