// Package processor drains the raw-log staging queue, decodes each row
// into a typed event, and runs the matching handler (spec.md §4.6).
// Grounded on original_source/processor's batch-drain loop and the
// teacher's cmd/main.go polling-service wiring idiom; the decode/handler
// dispatch itself composes internal/events, internal/lplock, and
// internal/handlers built earlier in this same transformation.
package processor

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/addr"
	"github.com/beescan/indexer/internal/decimalx"
	"github.com/beescan/indexer/internal/events"
	"github.com/beescan/indexer/internal/handlers"
	"github.com/beescan/indexer/internal/lplock"
	"github.com/beescan/indexer/internal/scoring"
	"github.com/beescan/indexer/internal/store"
)

// Processor drains the raw-log queue in FIFO batches, decoding and
// handling each row; a handler or decode failure is logged, never
// retried in place, and never blocks the row's delete (spec.md §4.6's
// "keep the queue draining under partial failure").
type Processor struct {
	Store        *store.Store
	Handlers     *handlers.Context
	PollInterval time.Duration
	BatchSize    int
	Log          *logrus.Entry
}

// New wires a Processor from its dependencies.
func New(st *store.Store, h *handlers.Context, pollInterval time.Duration, batchSize int, log *logrus.Entry) *Processor {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Processor{Store: st, Handlers: h, PollInterval: pollInterval, BatchSize: batchSize, Log: log}
}

// Run drains the queue every PollInterval until ctx is cancelled.
func (p *Processor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := p.Drain(ctx)
		if err != nil {
			p.Log.WithError(err).Error("processor: batch drain failed")
		} else if n > 0 {
			p.Log.WithField("count", n).Info("processor: drained batch")
		}
		if sleepCtx(ctx, p.PollInterval) != nil {
			return
		}
	}
}

// Drain processes up to BatchSize queued rows and returns how many were
// dequeued (decode/handle failures still count — they're logged and
// skipped, not retried).
func (p *Processor) Drain(ctx context.Context) (int, error) {
	rows, err := p.Store.DequeueBatch(p.BatchSize)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		p.processOne(ctx, row)
	}
	return len(rows), nil
}

func (p *Processor) processOne(ctx context.Context, row store.RawLog) {
	log := p.Log.WithFields(logrus.Fields{"log_id": row.ID, "topic": row.Topic0, "tx_hash": row.TxHash, "log_index": row.LogIndex})
	defer func() {
		if err := p.Store.DeleteLog(row.ID); err != nil {
			log.WithError(err).Error("processor: failed to delete raw log")
		}
	}()

	chainLog, err := fromRawLog(row)
	if err != nil {
		log.WithError(err).Warn("processor: malformed raw log, dropping")
		return
	}

	if row.Topic0 == strings.ToLower(lplock.TopicDeposit.Hex()) && lplock.IsLockerContract(row.Address) {
		ev, err := lplock.Decode(chainLog)
		if err != nil {
			log.WithError(err).Warn("processor: failed to decode LpLock event")
			return
		}
		if err := p.Handlers.HandleLpLock(ctx, ev); err != nil {
			log.WithError(err).Error("processor: HandleLpLock failed")
		}
		return
	}

	decoded, err := events.Decode(chainLog)
	if err != nil {
		log.WithError(err).Warn("processor: failed to decode event")
		return
	}

	var tokenAddress string
	switch decoded.Kind {
	case events.KindPairCreated:
		if err := p.Handlers.HandlePairCreated(ctx, decoded.PairCreated); err != nil {
			log.WithError(err).Error("processor: HandlePairCreated failed")
		}
	case events.KindSwap:
		tokenAddress = p.tokenForPair(decoded.Swap.Pair)
		if err := p.Handlers.HandleSwap(ctx, decoded.Swap); err != nil {
			log.WithError(err).Error("processor: HandleSwap failed")
			tokenAddress = ""
		}
	case events.KindTransfer:
		if a, err := addr.Canonicalize(decoded.Transfer.Token); err == nil {
			tokenAddress = a
		}
		if err := p.Handlers.HandleTransfer(ctx, decoded.Transfer); err != nil {
			log.WithError(err).Error("processor: HandleTransfer failed")
			tokenAddress = ""
		}
	case events.KindSync:
		if err := p.Handlers.HandleSync(ctx, decoded.Sync); err != nil {
			log.WithError(err).Error("processor: HandleSync failed")
		}
	}

	if tokenAddress != "" {
		p.rescore(tokenAddress, log)
	}
}

// tokenForPair resolves the non-base token address for a swap's pair, or
// "" if the pair is unknown (mirrors the Swap handler's own skip rule).
func (p *Processor) tokenForPair(pairHex string) string {
	pairAddress, err := addr.Canonicalize(pairHex)
	if err != nil {
		return ""
	}
	pair, err := p.Store.GetPairByAddress(pairAddress)
	if err != nil || pair == nil {
		return ""
	}
	return pair.TokenAddress()
}

// rescore recomputes and persists a token's BeeScore after a Swap or
// Transfer handler succeeds, emitting a high_bee_score alert on the
// 80-point crossing (spec.md §4.4's alert trigger).
func (p *Processor) rescore(tokenAddress string, log *logrus.Entry) {
	token, err := p.Store.GetTokenByAddress(tokenAddress)
	if err != nil || token == nil {
		return
	}
	result := scoring.Calculate(scoring.TokenMetrics{
		LiquidityUSD:       decimalx.ToFloat64(token.LiquidityUSD),
		LPLocked:           token.LPLocked,
		LPLockPercent:      token.LPLockPercent,
		Top10HolderPercent: token.Top10Percent,
		DevHoldingsPercent: token.DevPercent,
		OwnershipRenounced: token.OwnershipRenounced,
		Volume1hUSD:        decimalx.ToFloat64(token.Volume1hUSD),
		Trades1h:           token.Trades1h,
		HolderCount:        token.HolderCount,
		HolderCount1hAgo:   token.HolderCount1hAgo,
		PriceChange1h:      token.PriceChange1h,
		Buys1h:             token.Buys1h,
		Sells1h:            token.Sells1h,
	})

	previous, err := p.Store.UpdateScores(tokenAddress, result.Total, result.Safety, result.Traction)
	if err != nil {
		log.WithError(err).Warn("processor: failed to persist BeeScore")
		return
	}
	if result.Total >= 80 && previous < 80 {
		name := tokenAddress
		if token.Symbol != nil {
			name = *token.Symbol
		}
		title := fmt.Sprintf("High BeeScore: %s (%d)", name, result.Total)
		if _, err := p.Store.CreateAlertDeduped(store.NewAlert{
			AlertType:    store.AlertHighBeeScore,
			TokenAddress: tokenAddress,
			TokenSymbol:  token.Symbol,
			Title:        title,
		}); err != nil {
			log.WithError(err).Warn("processor: failed to create high_bee_score alert")
		}
	}
}

func fromRawLog(row store.RawLog) (types.Log, error) {
	var topicStrs []string
	if err := json.Unmarshal([]byte(row.Topics), &topicStrs); err != nil {
		return types.Log{}, fmt.Errorf("processor: failed to parse topics: %w", err)
	}
	topics := make([]common.Hash, len(topicStrs))
	for i, t := range topicStrs {
		topics[i] = common.HexToHash(t)
	}
	data, err := hex.DecodeString(strings.TrimPrefix(row.Data, "0x"))
	if err != nil {
		return types.Log{}, fmt.Errorf("processor: failed to parse data: %w", err)
	}
	return types.Log{
		Address:     common.HexToAddress(row.Address),
		Topics:      topics,
		Data:        data,
		BlockNumber: uint64(row.BlockNumber),
		TxHash:      common.HexToHash(row.TxHash),
		Index:       row.LogIndex,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
