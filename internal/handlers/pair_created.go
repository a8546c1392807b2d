package handlers

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/addr"
	"github.com/beescan/indexer/internal/events"
	"github.com/beescan/indexer/internal/pubsub"
	"github.com/beescan/indexer/internal/rpcmeta"
	"github.com/beescan/indexer/internal/store"
)

// HandlePairCreated applies a decoded PairCreated event (spec.md §4.3).
func (c *Context) HandlePairCreated(ctx context.Context, ev *events.PairCreated) error {
	token0, err := addr.Canonicalize(ev.Token0)
	if err != nil {
		return fmt.Errorf("handlers: pair_created: %w", err)
	}
	token1, err := addr.Canonicalize(ev.Token1)
	if err != nil {
		return fmt.Errorf("handlers: pair_created: %w", err)
	}

	var baseTokenIndex int16
	var tokenAddress string
	switch {
	case c.isBaseToken(token0) && !c.isBaseToken(token1):
		baseTokenIndex, tokenAddress = 0, token1
	case c.isBaseToken(token1) && !c.isBaseToken(token0):
		baseTokenIndex, tokenAddress = 1, token0
	default:
		// Neither side is a recognized base token, or both are — a
		// base/base pair carries no memecoin to track either way
		// (spec.md §4.3 step 1: "if neither is a base, ignore").
		c.Log.WithFields(logrus.Fields{"token0": token0, "token1": token1}).Debug("handlers: pair_created: no single base token, skipping")
		return nil
	}

	pairAddress, err := addr.Canonicalize(ev.Pair)
	if err != nil {
		return fmt.Errorf("handlers: pair_created: %w", err)
	}
	factory, err := addr.Canonicalize(ev.Factory)
	if err != nil {
		return fmt.Errorf("handlers: pair_created: %w", err)
	}

	pair := &store.Pair{
		Address:        pairAddress,
		Token0:         token0,
		Token1:         token1,
		Factory:        factory,
		BaseTokenIndex: baseTokenIndex,
		BlockNumber:    int64(ev.BlockNumber),
	}
	if err := c.Store.CreatePairIgnoreConflict(pair); err != nil {
		return err
	}

	var meta rpcmeta.Metadata
	if c.Metadata != nil {
		meta = c.Metadata.Fetch(ctx, common.HexToAddress(tokenAddress))
	}

	tm := store.TokenMetadata{Name: meta.Name, Symbol: meta.Symbol, Decimals: meta.Decimals}
	if meta.TotalSupply != nil {
		d := decimal.NewFromBigInt(meta.TotalSupply, 0)
		tm.TotalSupply = &d
	}

	blockNumber := int64(ev.BlockNumber)
	token, err := c.Store.UpsertTokenWithMetadata(tokenAddress, &pairAddress, &blockNumber, tm)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("New token: %s", displayName(token.Symbol, token.Name, tokenAddress))
	if _, err := c.Store.CreateAlertDeduped(store.NewAlert{
		AlertType:    store.AlertNewToken,
		TokenAddress: tokenAddress,
		TokenSymbol:  token.Symbol,
		Title:        title,
	}); err != nil {
		c.Log.WithFields(logrus.Fields{"token": tokenAddress, "error": err}).Warn("handlers: pair_created: failed to create alert")
	}

	if c.Publisher != nil {
		c.Publisher.PublishNewPair(ctx, pubsub.NewPairPayload{
			Pair:         pairAddress,
			Token0:       token0,
			Token1:       token1,
			Factory:      factory,
			BaseTokenIdx: baseTokenIndex,
			BlockNumber:  int64(ev.BlockNumber),
		})
	}

	return nil
}
