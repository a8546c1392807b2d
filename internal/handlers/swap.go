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
	"github.com/beescan/indexer/internal/pubsub"
	"github.com/beescan/indexer/internal/store"
)

// swapWallet resolves the trader wallet for a Swap, per spec.md §3's
// Swap.wallet: "recipient (to)". This is unconditional regardless of
// trade direction — on a Uniswap-V2-style Swap, sender is typically the
// calling router contract, not the trader, so it is never used here.
func swapWallet(ev *events.Swap) (string, error) {
	return addr.Canonicalize(ev.To)
}

// HandleSwap applies a decoded Swap event (spec.md §4.3).
func (c *Context) HandleSwap(ctx context.Context, ev *events.Swap) error {
	pairAddress, err := addr.Canonicalize(ev.Pair)
	if err != nil {
		return fmt.Errorf("handlers: swap: %w", err)
	}
	pair, err := c.Store.GetPairByAddress(pairAddress)
	if err != nil {
		return err
	}
	if pair == nil {
		c.Log.WithFields(logrus.Fields{"pair": pairAddress}).Debug("handlers: swap: unknown pair, skipping")
		return nil
	}

	amount0In := decimalx.HexToDecimal(ev.Amount0In)
	amount1In := decimalx.HexToDecimal(ev.Amount1In)
	amount0Out := decimalx.HexToDecimal(ev.Amount0Out)
	amount1Out := decimalx.HexToDecimal(ev.Amount1Out)

	var baseIn, baseOut, tokenIn, tokenOut decimal.Decimal
	if pair.BaseTokenIndex == 0 {
		baseIn, baseOut, tokenIn, tokenOut = amount0In, amount0Out, amount1In, amount1Out
	} else {
		baseIn, baseOut, tokenIn, tokenOut = amount1In, amount1Out, amount0In, amount0Out
	}

	// buy ≡ base-in-&-token-out; sell ≡ token-in-&-base-out; all other
	// combinations are ambiguous and skipped (spec.md §4.3 step 2).
	isBuy := baseIn.IsPositive() && tokenOut.IsPositive() && baseOut.IsZero() && tokenIn.IsZero()
	isSell := tokenIn.IsPositive() && baseOut.IsPositive() && tokenOut.IsZero() && baseIn.IsZero()
	if !isBuy && !isSell {
		c.Log.WithFields(logrus.Fields{"pair": pairAddress, "tx": ev.TxHash}).Debug("handlers: swap: ambiguous in/out combination, skipping")
		return nil
	}

	tokenAddress := pair.TokenAddress()
	token, err := c.Store.GetTokenByAddress(tokenAddress)
	if err != nil {
		return err
	}
	var decimals uint8
	if token != nil {
		decimals = decimalsOrDefault(token.Decimals)
	} else {
		decimals = defaultDecimals
	}

	var rawNative, rawTokens decimal.Decimal
	if isBuy {
		rawNative, rawTokens = baseIn, tokenOut
	} else {
		rawNative, rawTokens = baseOut, tokenIn
	}
	amountNative := decimalx.Scale(rawNative, defaultDecimals)
	amountTokens := decimalx.Scale(rawTokens, decimals)
	amountUSD := amountNative.Mul(decimal.NewFromFloat(c.NativeUSD))
	priceUSD := decimalx.SafeDiv(amountUSD, amountTokens)
	isWhale := amountUSD.GreaterThanOrEqual(decimal.NewFromFloat(c.WhaleThresholdUSD))

	tradeType := "sell"
	if isBuy {
		tradeType = "buy"
	}
	wallet, err := swapWallet(ev)
	if err != nil {
		return fmt.Errorf("handlers: swap: %w", err)
	}

	inserted, err := c.Store.InsertSwapIfNew(store.NewSwap{
		TxHash:        ev.TxHash,
		LogIndex:      ev.LogIndex,
		PairAddress:   pairAddress,
		TokenAddress:  tokenAddress,
		WalletAddress: wallet,
		TradeType:     tradeType,
		AmountTokens:  amountTokens,
		AmountNative:  amountNative,
		AmountUSD:     amountUSD,
		PriceUSD:      priceUSD,
		IsWhale:       isWhale,
		BlockNumber:   int64(ev.BlockNumber),
		Timestamp:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if inserted {
		if err := c.Store.IncrementTradeCounters(tokenAddress, isBuy, amountUSD); err != nil {
			c.Log.WithFields(logrus.Fields{"token": tokenAddress, "error": err}).Warn("handlers: swap: failed to increment trade counters")
		}
		if isWhale {
			alertType := store.AlertWhaleBuy
			verb := "bought"
			if !isBuy {
				alertType = store.AlertWhaleSell
				verb = "sold"
			}
			var symbol *string
			if token != nil {
				symbol = token.Symbol
			}
			title := fmt.Sprintf("Whale %s: %s", verb, displayName(symbol, nil, tokenAddress))
			if _, err := c.Store.CreateAlertDeduped(store.NewAlert{
				AlertType:     alertType,
				TokenAddress:  tokenAddress,
				TokenSymbol:   symbol,
				WalletAddress: &wallet,
				Title:         title,
			}); err != nil {
				c.Log.WithFields(logrus.Fields{"token": tokenAddress, "error": err}).Warn("handlers: swap: failed to create whale alert")
			}
		}
	}

	if c.Publisher != nil {
		c.Publisher.PublishSwap(ctx, pubsub.SwapPayload{
			Pair:         pairAddress,
			TokenAddress: tokenAddress,
			Wallet:       wallet,
			TradeType:    tradeType,
			AmountTokens: decimalx.ToHex(amountTokens),
			AmountNative: decimalx.ToHex(amountNative),
			AmountUSD:    decimalx.ToHex(amountUSD),
			IsWhale:      isWhale,
			BlockNumber:  int64(ev.BlockNumber),
			TxHash:       ev.TxHash,
		})
	}

	return nil
}
