package actors

import (
	"log/slog"

	"tradeledger/blockchain"
	"tradeledger/config"
	t "tradeledger/types"
)

type settings struct {
	name      string
	logger    *slog.Logger
	batchSize int
	target    blockchain.Target
	strict    bool
	relay     bool
	fee       t.Amount
}

func defaults() settings {
	return settings{
		logger:    slog.Default(),
		batchSize: 1,
		target:    blockchain.DefaultTarget,
		strict:    true,
		relay:     true,
		fee:       t.DefaultFee,
	}
}

// Option configures a Miner or a Trader. Options that do not apply to an
// actor are ignored by it.
type Option func(*settings)

func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithBatchSize sets how many valid transactions a miner waits for before it
// starts mining a block.
func WithBatchSize(n int) Option {
	return func(s *settings) {
		s.batchSize = max(n, 1)
	}
}

// WithTarget sets the proof-of-work predicate. Miners search for it and
// strict traders check it on intake.
func WithTarget(target blockchain.Target) Option {
	return func(s *settings) {
		s.target = target
	}
}

// WithStrict makes a trader reject blocks that do not extend its tip or do
// not meet the proof-of-work target. Without it only the transaction tree is
// checked.
func WithStrict(strict bool) Option {
	return func(s *settings) {
		s.strict = strict
	}
}

// WithRelay makes a trader forward every block it appends to its peers.
func WithRelay(relay bool) Option {
	return func(s *settings) {
		s.relay = relay
	}
}

func WithFee(fee t.Amount) Option {
	return func(s *settings) {
		s.fee = fee
	}
}

func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithBatchSize(cfg.Miner.BatchSize),
		WithTarget(blockchain.LeadingZeroBytes(cfg.Miner.Difficulty)),
		WithStrict(cfg.Trader.Strict),
		WithRelay(cfg.Trader.Relay),
		WithFee(cfg.Transaction.Fee),
	}
}

func apply(opts []Option) settings {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
