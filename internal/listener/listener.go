package listener

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/store"
)

// blockRange caps a single tick's block span, small enough that stingy
// public RPCs accept it (spec.md §4.1).
const blockRange = 10

// Listener polls one chain filter at a time and stages matching logs onto
// the raw-log queue, advancing that filter's cursor atomically with the
// insert (spec.md §4.1).
type Listener struct {
	Client       LogFetcher
	Store        *store.Store
	ChainID      int64
	PollInterval time.Duration
	RPCDelay     time.Duration
	MaxRetries   int
	Log          *logrus.Entry
}

// New wires a Listener from its dependencies.
func New(client LogFetcher, st *store.Store, chainID int64, pollInterval, rpcDelay time.Duration, maxRetries int, log *logrus.Entry) *Listener {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Listener{
		Client:       client,
		Store:        st,
		ChainID:      chainID,
		PollInterval: pollInterval,
		RPCDelay:     rpcDelay,
		MaxRetries:   maxRetries,
		Log:          log,
	}
}

// Tick runs one polling iteration for filter: resolve the cursor,
// compute the block range, fetch logs with retry, and persist logs plus
// the advanced cursor in a single transaction (spec.md §4.1's tick
// operation).
func (l *Listener) Tick(ctx context.Context, filter Filter) error {
	key := filter.Key()
	log := l.Log.WithFields(logrus.Fields{"filter": filter.Name, "key": key})

	tip, err := l.Client.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("listener: failed to fetch tip for %s: %w", filter.Name, err)
	}

	startBlock := int64(tip) - blockRange
	if startBlock < 0 {
		startBlock = 0
	}
	cursor, err := l.Store.GetOrInitCursor(key, l.ChainID, startBlock)
	if err != nil {
		return err
	}

	if cursor.LastSyncedBlock >= int64(tip) {
		log.Debug("listener: fully indexed, nothing to do")
		return nil
	}

	fromBlock := cursor.LastSyncedBlock + 1
	toBlock := fromBlock + blockRange
	if toBlock > int64(tip) {
		toBlock = int64(tip)
	}

	query := buildQuery(filter, fromBlock, toBlock)
	logs, err := fetchLogsWithRetry(ctx, l.Client, query, l.RPCDelay, l.MaxRetries)
	if err != nil {
		return err
	}

	rawLogs := make([]store.RawLog, 0, len(logs))
	for _, lg := range logs {
		rawLogs = append(rawLogs, toRawLog(lg))
	}

	if err := l.Store.EnqueueLogs(key, l.ChainID, rawLogs, toBlock); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"count": len(rawLogs), "from": fromBlock, "to": toBlock,
	}).Info("listener: staged logs")
	return nil
}

// Run drives filter's cursor forward forever: a successful tick sleeps
// PollInterval before the next one; a MaxRetriesExceeded tick sleeps a
// fixed recovery interval instead and tries again (spec.md §4.1's
// Initializing → Polling → Backoff → Polling state machine, terminal
// only on ctx cancellation).
func (l *Listener) Run(ctx context.Context, filter Filter) {
	const recoveryInterval = 5 * time.Second
	log := l.Log.WithField("filter", filter.Name)

	for {
		if ctx.Err() != nil {
			return
		}

		err := l.Tick(ctx, filter)
		if err == nil {
			if sleepCtx(ctx, l.PollInterval) != nil {
				return
			}
			continue
		}

		if _, exceeded := err.(*ErrMaxRetriesExceeded); exceeded {
			log.WithError(err).Warn("listener: backing off after repeated rate limiting")
		} else {
			log.WithError(err).Error("listener: tick failed")
		}
		if sleepCtx(ctx, recoveryInterval) != nil {
			return
		}
	}
}

func buildQuery(filter Filter, fromBlock, toBlock int64) ethereum.FilterQuery {
	q := ethereum.FilterQuery{
		FromBlock: big.NewInt(fromBlock),
		ToBlock:   big.NewInt(toBlock),
	}
	if filter.Address != nil {
		q.Addresses = []common.Address{*filter.Address}
	}
	if filter.Topic != nil {
		q.Topics = [][]common.Hash{{*filter.Topic}}
	}
	return q
}

func toRawLog(lg types.Log) store.RawLog {
	topics := make([]string, len(lg.Topics))
	for i, t := range lg.Topics {
		topics[i] = strings.ToLower(t.Hex())
	}
	topicsJSON, _ := json.Marshal(topics)
	var topic0 string
	if len(topics) > 0 {
		topic0 = topics[0]
	}
	return store.RawLog{
		TxHash:      strings.ToLower(lg.TxHash.Hex()),
		LogIndex:    uint(lg.Index),
		Address:     strings.ToLower(lg.Address.Hex()),
		Topic0:      topic0,
		Topics:      string(topicsJSON),
		Data:        "0x" + hex.EncodeToString(lg.Data),
		BlockNumber: int64(lg.BlockNumber),
	}
}
