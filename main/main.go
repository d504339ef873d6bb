package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"tradeledger/actors"
	"tradeledger/config"
	"tradeledger/keys"
	"tradeledger/logging"
	t "tradeledger/types"

	"github.com/pterm/pterm"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	timeout := flag.Duration("timeout", 30*time.Second, "give up waiting for blocks after this long")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logger := logging.New(level, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := slices.Concat(actors.FromConfig(cfg), []actors.Option{actors.WithLogger(logger)})
	alice := newTrader("alice", t.SchemeSecp256k1, opts)
	bob := newTrader("bob", t.SchemeEd25519, opts)
	miner := actors.NewMiner(alice, slices.Concat(opts, []actors.Option{actors.WithName("alice-miner")})...)

	actors.AttachMiner(alice, miner)
	bob.RegisterMiner(miner.Transactions())
	alice.Link(bob)

	alice.Start(ctx)
	bob.Start(ctx)
	miner.Start(ctx)

	transfers := []struct {
		from   *actors.Trader
		to     *actors.Trader
		amount t.Amount
	}{
		{alice, bob, 100 * t.Coin},
		{bob, alice, 25 * t.Coin},
	}

	for _, tr := range transfers {
		if _, err := tr.from.Transfer(tr.to.PublicKey(), tr.amount); err != nil {
			logger.Error("transfer failed", "error", err)
			os.Exit(1)
		}
	}

	// A trailing partial batch is never mined.
	want := 1 + len(transfers)/cfg.Miner.BatchSize
	if err := bob.AwaitLen(ctx, want); err != nil {
		logger.Error("blocks never arrived", "error", err)
		os.Exit(1)
	}

	for _, tr := range []*actors.Trader{alice, bob} {
		render(tr)
	}
}

func newTrader(name string, scheme t.Scheme, opts []actors.Option) *actors.Trader {
	signer, err := keys.New(scheme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create key for %s: %v\n", name, err)
		os.Exit(1)
	}
	return actors.NewTrader(signer, slices.Concat(opts, []actors.Option{actors.WithName(name)})...)
}

func render(tr *actors.Trader) {
	data := pterm.TableData{{"#", "block", "nonce", "txns", "prev"}}
	for i, b := range tr.Blocks() {
		data = append(data, []string{
			strconv.Itoa(i),
			b.ID,
			strconv.FormatUint(b.Nonce, 10),
			strconv.Itoa(b.Transactions.Length()),
			shortHex(b.PrevHash),
		})
	}

	status := "valid"
	if err := tr.ValidateChain(); err != nil {
		status = err.Error()
	}
	pterm.DefaultSection.Printfln("%s (%s)", tr.Name(), status)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func shortHex(b []byte) string {
	if len(b) > 8 {
		b = b[:8]
	}
	return hex.EncodeToString(b)
}
