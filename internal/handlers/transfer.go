package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/addr"
	"github.com/beescan/indexer/internal/decimalx"
	"github.com/beescan/indexer/internal/events"
	"github.com/beescan/indexer/internal/pubsub"
	"github.com/beescan/indexer/internal/store"
)

// HandleTransfer applies a decoded Transfer event (spec.md §4.3). Holder
// balances are replaced with the transferred amount rather than tracked
// cumulatively — accurate running balances would need an RPC balanceOf
// call per transfer, which the original handler also deferred.
func (c *Context) HandleTransfer(ctx context.Context, ev *events.Transfer) error {
	tokenAddress, err := addr.Canonicalize(ev.Token)
	if err != nil {
		return fmt.Errorf("handlers: transfer: %w", err)
	}
	token, err := c.Store.GetTokenByAddress(tokenAddress)
	if err != nil {
		return err
	}
	if token == nil {
		c.Log.WithFields(logrus.Fields{"token": tokenAddress}).Debug("handlers: transfer: untracked token, skipping")
		return nil
	}

	value := decimalx.HexToDecimal(ev.Value)
	if value.IsZero() {
		return nil
	}

	from, err := addr.Canonicalize(ev.From)
	if err != nil {
		return fmt.Errorf("handlers: transfer: %w", err)
	}
	to, err := addr.Canonicalize(ev.To)
	if err != nil {
		return fmt.Errorf("handlers: transfer: %w", err)
	}

	isMint := addr.IsZero(from)
	isBurn := addr.IsBurn(to)
	blockNumber := int64(ev.BlockNumber)
	isSniperRecipient := !isMint && token.BlockNumber != nil && blockNumber <= *token.BlockNumber+2

	decimals := decimalsOrDefault(token.Decimals)
	amountTokens := decimalx.Scale(value, decimals)
	now := time.Now().UTC()

	var fromIsDev bool
	if !isMint {
		if holder, err := c.Store.FindHolder(tokenAddress, from); err != nil {
			return err
		} else if holder != nil {
			fromIsDev = holder.IsDev
		}

		if err := c.Store.RecordActivity(store.NewWalletActivity{
			TxHash:        ev.TxHash,
			WalletAddress: from,
			TokenAddress:  tokenAddress,
			Action:        "transfer_out",
			AmountTokens:  amountTokens,
			BlockNumber:   blockNumber,
			Timestamp:     now,
		}); err != nil {
			c.Log.WithFields(logrus.Fields{"wallet": from, "error": err}).Warn("handlers: transfer: failed to record outgoing activity")
		}
	}

	if !isBurn {
		if err := c.Store.Upsert(store.NewTokenHolder{
			TokenAddress:  tokenAddress,
			WalletAddress: to,
			Balance:       amountTokens,
			IsSniper:      isSniperRecipient,
			FirstBuyBlock: &blockNumber,
		}); err != nil {
			c.Log.WithFields(logrus.Fields{"wallet": to, "error": err}).Warn("handlers: transfer: failed to upsert token holder")
		}
		if isSniperRecipient {
			if err := c.Store.MarkSniper(tokenAddress, to); err != nil {
				c.Log.WithFields(logrus.Fields{"wallet": to, "error": err}).Warn("handlers: transfer: failed to mark sniper")
			}
		}

		if err := c.Store.RecordActivity(store.NewWalletActivity{
			TxHash:        ev.TxHash,
			WalletAddress: to,
			TokenAddress:  tokenAddress,
			Action:        "transfer_in",
			AmountTokens:  amountTokens,
			BlockNumber:   blockNumber,
			Timestamp:     now,
		}); err != nil {
			c.Log.WithFields(logrus.Fields{"wallet": to, "error": err}).Warn("handlers: transfer: failed to record incoming activity")
		}
	}

	if fromIsDev && !isBurn {
		title := fmt.Sprintf("Dev Sell: %s", displayName(token.Symbol, token.Name, tokenAddress))
		if _, err := c.Store.CreateAlertDeduped(store.NewAlert{
			AlertType:     store.AlertDevSell,
			TokenAddress:  tokenAddress,
			TokenSymbol:   token.Symbol,
			WalletAddress: &from,
			Title:         title,
		}); err != nil {
			c.Log.WithFields(logrus.Fields{"token": tokenAddress, "error": err}).Warn("handlers: transfer: failed to create dev sell alert")
		}
	}

	if c.Publisher != nil {
		c.Publisher.PublishTransfer(ctx, pubsub.TransferPayload{
			Token:       tokenAddress,
			From:        from,
			To:          to,
			Value:       decimalx.ToHex(amountTokens),
			BlockNumber: blockNumber,
			TxHash:      ev.TxHash,
		})
	}

	return nil
}
