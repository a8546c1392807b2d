package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/addr"
	"github.com/beescan/indexer/internal/decimalx"
	"github.com/beescan/indexer/internal/lplock"
	"github.com/beescan/indexer/internal/store"
)

// HandleLpLock applies a decoded liquidity-lock deposit (spec.md §4.3).
// Locked percent isn't computed from the raw amount here — that needs
// the pair's total LP supply via an RPC call the original handler also
// deferred — so a 100% placeholder is recorded until that call is wired
// in.
func (c *Context) HandleLpLock(ctx context.Context, ev *lplock.Event) error {
	pairAddress, err := addr.Canonicalize(ev.LPToken)
	if err != nil {
		return fmt.Errorf("handlers: lp_lock: %w", err)
	}
	pair, err := c.Store.GetPairByAddress(pairAddress)
	if err != nil {
		return err
	}
	if pair == nil {
		c.Log.WithFields(logrus.Fields{"lp_token": pairAddress}).Debug("handlers: lp_lock: unknown LP token, skipping")
		return nil
	}
	tokenAddress := pair.TokenAddress()

	lockerAddress, err := addr.Canonicalize(ev.LockerAddress)
	if err != nil {
		return fmt.Errorf("handlers: lp_lock: %w", err)
	}
	user, err := addr.Canonicalize(ev.User)
	if err != nil {
		return fmt.Errorf("handlers: lp_lock: %w", err)
	}
	lockerName := lplock.LockerName(lockerAddress)

	lockedAmount := decimalx.HexToDecimal(ev.Amount)
	lockDate := time.Unix(decimalx.HexToDecimal(ev.LockDate).IntPart(), 0).UTC()
	unlockDate := time.Unix(decimalx.HexToDecimal(ev.UnlockDate).IntPart(), 0).UTC()

	if err := c.Store.InsertLpLock(&store.LpLock{
		TokenAddress:   tokenAddress,
		PairAddress:    pairAddress,
		LockerContract: lockerAddress,
		LockerName:     lockerName,
		LockedAmount:   lockedAmount,
		LockDate:       lockDate,
		UnlockDate:     unlockDate,
		TxHash:         ev.TxHash,
		BlockNumber:    int64(ev.BlockNumber),
		IsActive:       true,
	}); err != nil {
		return err
	}

	// Locked-percent requires the pair's total LP supply (an RPC call
	// the original handler also deferred); 100 is used as a placeholder
	// until that reconciliation pass is wired in.
	lockedPercent := 100.0
	if err := c.Store.UpdateLPLock(tokenAddress, lockedPercent, unlockDate); err != nil {
		c.Log.WithFields(logrus.Fields{"token": tokenAddress, "error": err}).Warn("handlers: lp_lock: failed to update token lock status")
	}

	token, err := c.Store.GetTokenByAddress(tokenAddress)
	if err != nil {
		return err
	}
	var symbol *string
	if token != nil {
		symbol = token.Symbol
	}
	daysLocked := int(unlockDate.Sub(lockDate).Hours() / 24)
	title := fmt.Sprintf("LP Locked: %s (%d days)", displayName(symbol, nil, tokenAddress), daysLocked)
	if _, err := c.Store.CreateAlertDeduped(store.NewAlert{
		AlertType:     store.AlertLPLocked,
		TokenAddress:  tokenAddress,
		TokenSymbol:   symbol,
		WalletAddress: &user,
		Title:         title,
	}); err != nil {
		c.Log.WithFields(logrus.Fields{"token": tokenAddress, "error": err}).Warn("handlers: lp_lock: failed to create alert")
	}

	return nil
}
