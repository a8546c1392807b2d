// Command listener runs the polling half of the pipeline: one goroutine
// per configured filter, each advancing its own cursor and staging raw
// logs for the processor to pick up (spec.md §4.1, §5). Wiring follows
// the teacher's cmd/main.go: load config, dial dependencies, panic on any
// startup failure.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/chainreg"
	"github.com/beescan/indexer/internal/config"
	"github.com/beescan/indexer/internal/listener"
	"github.com/beescan/indexer/internal/lplock"
	"github.com/beescan/indexer/internal/store"
)

func main() {
	log := logrus.NewEntry(logrus.StandardLogger())

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	st, err := store.Open(cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		panic(err)
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		panic(err)
	}

	l := listener.New(client, st, cfg.ChainID, cfg.PollInterval, cfg.RPCDelay, cfg.MaxRetries, log)

	filters := []listener.Filter{
		listener.ByAddress("factory", cfg.Chain.Factory),
		listener.ByTopic("swaps", chainreg.TopicSwap),
		listener.ByTopic("transfers", chainreg.TopicTransfer),
		listener.ByTopic("syncs", chainreg.TopicSync),
		listener.ByTopic("lp_locks", lplock.TopicDeposit),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, f := range filters {
		go l.Run(ctx, f)
	}

	<-ctx.Done()
	log.Info("listener: shutting down")
}
