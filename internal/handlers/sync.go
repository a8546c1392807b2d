package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/addr"
	"github.com/beescan/indexer/internal/decimalx"
	"github.com/beescan/indexer/internal/events"
	"github.com/beescan/indexer/internal/store"
)

// HandleSync applies a decoded Sync event (spec.md §4.3).
func (c *Context) HandleSync(ctx context.Context, ev *events.Sync) error {
	pairAddress, err := addr.Canonicalize(ev.Pair)
	if err != nil {
		return fmt.Errorf("handlers: sync: %w", err)
	}
	pair, err := c.Store.GetPairByAddress(pairAddress)
	if err != nil {
		return err
	}
	if pair == nil {
		c.Log.WithFields(logrus.Fields{"pair": pairAddress}).Debug("handlers: sync: unknown pair, skipping")
		return nil
	}

	reserve0 := decimalx.HexToDecimal(ev.Reserve0)
	reserve1 := decimalx.HexToDecimal(ev.Reserve1)
	if err := c.Store.UpdateReserves(pairAddress, reserve0, reserve1); err != nil {
		return err
	}

	tokenAddress := pair.TokenAddress()
	token, err := c.Store.GetTokenByAddress(tokenAddress)
	if err != nil {
		return err
	}
	decimals := defaultDecimals
	if token != nil {
		decimals = int(decimalsOrDefault(token.Decimals))
	}

	var baseReserve, tokenReserve decimal.Decimal
	if pair.BaseTokenIndex == 0 {
		baseReserve, tokenReserve = reserve0, reserve1
	} else {
		baseReserve, tokenReserve = reserve1, reserve0
	}
	baseReserveScaled := decimalx.Scale(baseReserve, defaultDecimals)
	tokenReserveScaled := decimalx.Scale(tokenReserve, uint8(decimals))

	liquidityNative := baseReserveScaled.Mul(decimal.NewFromInt(2))
	liquidityUSD := liquidityNative.Mul(decimal.NewFromFloat(c.NativeUSD))
	priceNative := decimalx.SafeDiv(baseReserveScaled, tokenReserveScaled)
	priceUSD := priceNative.Mul(decimal.NewFromFloat(c.NativeUSD))

	if err := c.Store.UpdateSyncMetrics(tokenAddress, priceUSD, priceNative, liquidityUSD); err != nil {
		return err
	}

	var marketCapUSD decimal.Decimal
	var holderCount int64
	if token != nil {
		holderCount = token.HolderCount
		if token.TotalSupply != nil {
			supplyScaled := decimalx.Scale(*token.TotalSupply, uint8(decimals))
			marketCapUSD = supplyScaled.Mul(priceUSD)
		}
	}

	// Production callers throttle Sync-driven snapshots to one per
	// five-minute bucket per token (spec.md §4.3 step 5); RecordSnapshot
	// enforces this by truncating the timestamp to the bucket start under
	// the (token_address, timestamp) unique key.
	if err := c.Store.RecordSnapshot(store.NewPriceSnapshot{
		TokenAddress: tokenAddress,
		Timestamp:    time.Now().UTC(),
		PriceUSD:     priceUSD,
		PriceNative:  priceNative,
		LiquidityUSD: liquidityUSD,
		MarketCapUSD: marketCapUSD,
		HolderCount:  holderCount,
	}); err != nil {
		c.Log.WithFields(logrus.Fields{"token": tokenAddress, "error": err}).Warn("handlers: sync: failed to record price snapshot")
	}

	return nil
}
