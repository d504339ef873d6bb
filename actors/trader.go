package actors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"tradeledger/blockchain"
	"tradeledger/keys"
	"tradeledger/queue"
	t "tradeledger/types"
)

// Trader owns a replica of the chain. It signs transfers for its key, sends
// them to known miners, and appends the blocks it receives.
type Trader struct {
	settings
	signer keys.Signer
	inbox  *queue.Queue[*blockchain.Block]

	// mu guards the chain and everything derived from it.
	mu      sync.Mutex
	chain   *blockchain.Chain
	seen    map[string]struct{}
	changed chan struct{}

	regMu  sync.Mutex
	miners []queue.Sender[*blockchain.SignedTransaction]
	peers  []queue.Sender[*blockchain.Block]

	start sync.Once
	done  chan struct{}
	err   error
}

func NewTrader(signer keys.Signer, opts ...Option) *Trader {
	s := apply(opts)
	if s.name == "" {
		s.name = signer.PublicKey().Short()
	}
	s.logger = s.logger.With(slog.String("actor", "trader"), slog.String("id", s.name))

	return &Trader{
		settings: s,
		signer:   signer,
		inbox:    queue.New[*blockchain.Block](),
		chain:    blockchain.NewChain(),
		seen:     make(map[string]struct{}),
		changed:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (tr *Trader) Name() string {
	return tr.name
}

func (tr *Trader) PublicKey() t.PublicKey {
	return tr.signer.PublicKey()
}

// Inbox is the handle miners and peers send blocks to.
func (tr *Trader) Inbox() queue.Sender[*blockchain.Block] {
	return tr.inbox
}

func (tr *Trader) Sign(txn blockchain.Transaction) (*blockchain.SignedTransaction, error) {
	return txn.Sign(tr.signer)
}

// Link registers each trader's inbox with the other.
func (tr *Trader) Link(other *Trader) {
	if other == tr {
		return
	}
	tr.addPeer(other.inbox)
	other.addPeer(tr.inbox)
}

func (tr *Trader) addPeer(peer queue.Sender[*blockchain.Block]) {
	tr.regMu.Lock()
	defer tr.regMu.Unlock()
	tr.peers = append(tr.peers, peer)
}

func (tr *Trader) RegisterMiner(miner queue.Sender[*blockchain.SignedTransaction]) {
	tr.regMu.Lock()
	defer tr.regMu.Unlock()
	tr.miners = append(tr.miners, miner)
}

// Broadcast hands st to every registered miner. Delivery is not
// acknowledged; miners whose queue is closed are forgotten.
func (tr *Trader) Broadcast(st *blockchain.SignedTransaction) {
	tr.regMu.Lock()
	miners := slices.Clone(tr.miners)
	tr.regMu.Unlock()

	var gone []queue.Sender[*blockchain.SignedTransaction]
	for _, miner := range miners {
		if err := miner.Send(st); err != nil {
			tr.logger.Warn("miner disconnected", slog.String("error", err.Error()))
			gone = append(gone, miner)
		}
	}

	if len(gone) > 0 {
		tr.regMu.Lock()
		tr.miners = slices.DeleteFunc(tr.miners, func(m queue.Sender[*blockchain.SignedTransaction]) bool {
			return slices.Contains(gone, m)
		})
		tr.regMu.Unlock()
	}
}

// Transfer signs a payment of amount from this trader to receiver and
// broadcasts it.
func (tr *Trader) Transfer(receiver t.PublicKey, amount t.Amount) (*blockchain.SignedTransaction, error) {
	txn := blockchain.NewTransactionWithFee(tr.PublicKey(), receiver, amount, tr.fee)
	st, err := tr.Sign(txn)
	if err != nil {
		return nil, err
	}

	tr.logger.Info("broadcasting transfer",
		slog.String("to", receiver.Short()),
		slog.String("amount", amount.String()))
	tr.Broadcast(st)
	return st, nil
}

// TipHash is the hash of the last block of the local chain.
func (tr *Trader) TipHash() []byte {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	hash := tr.chain.Tip().Hash()
	return hash[:]
}

func (tr *Trader) ChainLen() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.chain.Len()
}

// Blocks returns a snapshot of the local chain.
func (tr *Trader) Blocks() []*blockchain.Block {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.chain.Blocks()
}

func (tr *Trader) ValidateChain() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.chain.Validate()
}

// AwaitLen blocks until the local chain holds at least n blocks.
func (tr *Trader) AwaitLen(ctx context.Context, n int) error {
	for {
		tr.mu.Lock()
		length, changed := tr.chain.Len(), tr.changed
		tr.mu.Unlock()

		if length >= n {
			return nil
		}

		select {
		case <-changed:
		case <-tr.done:
			if tr.ChainLen() >= n {
				return nil
			}
			if tr.err != nil {
				return tr.err
			}
			return ErrDisconnected
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Start runs the block intake loop on its own goroutine until the inbox is
// closed or ctx is done.
func (tr *Trader) Start(ctx context.Context) {
	tr.start.Do(func() {
		go tr.run(ctx)
	})
}

// Close disconnects the inbox. A trader cannot run without it, so the intake
// loop ends.
func (tr *Trader) Close() {
	tr.inbox.Close()
}

func (tr *Trader) Done() <-chan struct{} {
	return tr.done
}

func (tr *Trader) Wait() error {
	<-tr.done
	return tr.err
}

func (tr *Trader) run(ctx context.Context) {
	defer close(tr.done)
	tr.logger.Info("trader started", slog.String("key", tr.PublicKey().String()))

	for {
		// The chain lock is never held while waiting here.
		block, err := tr.inbox.Recv(ctx)
		if err != nil {
			tr.stop(err)
			return
		}

		if tr.accept(block) && tr.relay {
			tr.forward(block)
		}
	}
}

// accept validates block against the local chain and appends it. It reports
// whether the block was appended.
func (tr *Trader) accept(block *blockchain.Block) bool {
	log := tr.logger.With(slog.String("block", block.ID))

	if !block.IsValid() {
		log.Warn("rejected block", slog.String("reason", blockchain.ErrCorruptTree.Error()))
		return false
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, ok := tr.seen[block.ID]; ok {
		log.Debug("ignoring known block")
		return false
	}

	if tr.strict {
		tip := tr.chain.Tip().Hash()
		if !bytes.Equal(tip[:], block.PrevHash) {
			log.Warn("rejected block", slog.String("reason", blockchain.ErrBrokenLink.Error()))
			return false
		}
		if !tr.target(block.Hash()) {
			log.Warn("rejected block", slog.String("reason", "proof-of-work does not meet target"))
			return false
		}
	}

	tr.chain.Add(block)
	tr.seen[block.ID] = struct{}{}
	close(tr.changed)
	tr.changed = make(chan struct{})

	log.Info("appended block",
		slog.Int("height", tr.chain.Len()-1),
		slog.Int("transactions", block.Transactions.Length()))
	return true
}

func (tr *Trader) forward(block *blockchain.Block) {
	tr.regMu.Lock()
	peers := slices.Clone(tr.peers)
	tr.regMu.Unlock()

	for _, peer := range peers {
		if err := peer.Send(block); err != nil {
			tr.logger.Warn("peer disconnected", slog.String("error", err.Error()))
		}
	}
}

func (tr *Trader) stop(err error) {
	if errors.Is(err, queue.ErrClosed) {
		tr.err = fmt.Errorf("trader %s: %w", tr.name, ErrDisconnected)
		tr.logger.Error("block queue disconnected, trader stopping")
		return
	}
	tr.err = err
	tr.logger.Info("trader stopped", slog.String("reason", err.Error()))
}

// AttachMiner makes m mine for tr: tr's transfers go to m, m builds on tr's
// tip and publishes to tr.
func AttachMiner(tr *Trader, m *Miner) {
	tr.RegisterMiner(m.Transactions())
	m.Register(tr.Inbox())
}
