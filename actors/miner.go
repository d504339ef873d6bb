package actors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"tradeledger/blockchain"
	"tradeledger/queue"
)

var ErrDisconnected = errors.New("inbound queue disconnected")

// TipSource supplies the hash a new block is built on.
type TipSource interface {
	TipHash() []byte
}

type genesisSource struct{}

func (genesisSource) TipHash() []byte {
	h := blockchain.Genesis().Hash()
	return h[:]
}

// Miner turns incoming signed transactions into mined blocks and publishes
// them to every registered peer.
type Miner struct {
	settings
	txs  *queue.Queue[*blockchain.SignedTransaction]
	tips TipSource

	mu    sync.Mutex
	peers []queue.Sender[*blockchain.Block]

	// base is the last tip read from tips; pending holds the hashes of
	// blocks published on top of it that tips has not reported yet.
	// Both are owned by the run goroutine.
	base    []byte
	pending [][]byte

	mined atomic.Uint64
	start sync.Once
	done  chan struct{}
	err   error
}

// NewMiner returns a miner building on tips. A nil tips builds on genesis.
func NewMiner(tips TipSource, opts ...Option) *Miner {
	if tips == nil {
		tips = genesisSource{}
	}
	s := apply(opts)
	if s.name == "" {
		s.name = "miner"
	}
	s.logger = s.logger.With(slog.String("actor", "miner"), slog.String("id", s.name))

	return &Miner{
		settings: s,
		txs:      queue.New[*blockchain.SignedTransaction](),
		tips:     tips,
		done:     make(chan struct{}),
	}
}

// Transactions is the handle traders send signed transactions to.
func (m *Miner) Transactions() queue.Sender[*blockchain.SignedTransaction] {
	return m.txs
}

// Register adds a destination for mined blocks.
func (m *Miner) Register(peer queue.Sender[*blockchain.Block]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peers = append(m.peers, peer)
}

func (m *Miner) PeerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.peers)
}

// Mined is the number of blocks published so far.
func (m *Miner) Mined() uint64 {
	return m.mined.Load()
}

// Start runs the mining loop on its own goroutine until the transaction
// queue is closed or ctx is done.
func (m *Miner) Start(ctx context.Context) {
	m.start.Do(func() {
		go m.run(ctx)
	})
}

// Close disconnects the transaction queue, which ends the mining loop once
// the queued transactions are used up.
func (m *Miner) Close() {
	m.txs.Close()
}

func (m *Miner) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the loop has stopped and returns why.
func (m *Miner) Wait() error {
	<-m.done
	return m.err
}

func (m *Miner) run(ctx context.Context) {
	defer close(m.done)
	m.logger.Info("miner started", slog.Int("batch", m.batchSize))

	for {
		block, err := m.round(ctx)
		if err != nil {
			m.stop(err)
			return
		}
		m.publish(block)
	}
}

// parent picks the hash the next block builds on. Until tips reports a
// block this miner published, new blocks extend that block instead of the
// stale tip. A tip the miner never published drops the pending run.
func (m *Miner) parent() []byte {
	tip := m.tips.TipHash()
	i := slices.IndexFunc(m.pending, func(h []byte) bool {
		return bytes.Equal(h, tip)
	})
	switch {
	case i >= 0:
		m.pending = m.pending[i+1:]
		m.base = tip
	case !bytes.Equal(tip, m.base):
		m.pending = nil
		m.base = tip
	}

	if len(m.pending) > 0 {
		return m.pending[len(m.pending)-1]
	}
	return tip
}

func (m *Miner) round(ctx context.Context) (*blockchain.Block, error) {
	batch := make([]*blockchain.SignedTransaction, 0, m.batchSize)
	for len(batch) < m.batchSize {
		st, err := m.txs.Recv(ctx)
		if err != nil {
			return nil, err
		}

		if !st.IsValid() {
			m.logger.Warn("discarding transaction with invalid signature",
				slog.String("sender", st.Transaction.Sender.Short()))
			continue
		}
		m.logger.Debug("received transaction", slog.String("amount", st.Transaction.Amount.String()))
		batch = append(batch, st)
	}

	block := blockchain.NewBlock(m.parent())
	for _, st := range batch {
		block.Add(st)
	}

	m.logger.Debug("mining block", slog.String("block", block.ID), slog.Int("transactions", len(batch)))
	nonce, err := blockchain.Mine(ctx, block, m.target)
	if err != nil {
		return nil, err
	}
	m.logger.Info("solved block", slog.String("block", block.ID), slog.Uint64("nonce", nonce))

	return block, nil
}

func (m *Miner) publish(block *blockchain.Block) {
	m.mu.Lock()
	peers := slices.Clone(m.peers)
	m.mu.Unlock()

	var gone []queue.Sender[*blockchain.Block]
	for _, peer := range peers {
		if err := peer.Send(block); err != nil {
			m.logger.Warn("peer disconnected", slog.String("error", err.Error()))
			gone = append(gone, peer)
		}
	}
	hash := block.Hash()
	m.pending = append(m.pending, hash[:])
	m.mined.Add(1)

	if len(gone) > 0 {
		m.mu.Lock()
		m.peers = slices.DeleteFunc(m.peers, func(p queue.Sender[*blockchain.Block]) bool {
			return slices.Contains(gone, p)
		})
		m.mu.Unlock()
	}
}

func (m *Miner) stop(err error) {
	if errors.Is(err, queue.ErrClosed) {
		m.err = fmt.Errorf("miner %s: %w", m.name, ErrDisconnected)
		m.logger.Error("transaction queue disconnected, miner stopping")
		return
	}
	m.err = err
	m.logger.Info("miner stopped", slog.String("reason", err.Error()))
}
