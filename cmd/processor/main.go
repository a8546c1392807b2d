// Command processor drains the raw-log queue, decodes events, runs the
// business-logic handlers, and recomputes BeeScore after every Swap or
// Transfer (spec.md §4.6). Wiring mirrors cmd/listener and, further back,
// the teacher's cmd/main.go startup idiom.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/config"
	"github.com/beescan/indexer/internal/handlers"
	"github.com/beescan/indexer/internal/processor"
	"github.com/beescan/indexer/internal/pubsub"
	"github.com/beescan/indexer/internal/rpcmeta"
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

	metadata, err := rpcmeta.NewFetcher(client.CallContract, log)
	if err != nil {
		panic(err)
	}

	redisClient := pubsub.NewClient(cfg.RedisURL)
	publisher := pubsub.NewPublisher(redisClient, log)

	hctx := handlers.NewContext(st, metadata, publisher, cfg.Chain.BaseTokens(), cfg.NativeUSD, cfg.WhaleThresholdUSD, log)
	p := processor.New(st, hctx, cfg.PollInterval, cfg.BatchSize, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p.Run(ctx)
	log.Info("processor: shutting down")
}
