// Package events decodes raw chain logs into the handful of event families
// the indexer understands (spec.md §4.2). Each decoder is a pure function
// keyed by topic[0]; all integer-bearing fields are carried onward as
// fixed-width hex strings, matching the original Rust decoders'
// vec_to_hex convention — handlers convert to decimal.Decimal only where
// arithmetic is required (spec.md §9's "no premature binary float").
package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/beescan/indexer/internal/chainreg"
)

// DecodeError reports a log that is structurally too short for its event
// family — a Decode-class error per spec.md §7 ("skip the log, continue
// batch").
type DecodeError struct {
	Event  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("events: %s: %s", e.Event, e.Reason)
}

// ErrUnknownTopic is returned by Decode for any topic[0] not in the
// closed registry below.
type ErrUnknownTopic struct {
	Topic string
}

func (e *ErrUnknownTopic) Error() string {
	return fmt.Sprintf("events: unknown topic %s", e.Topic)
}

// hexWord renders a byte slice as a 0x-prefixed lowercase hex string.
func hexWord(b []byte) string {
	return fmt.Sprintf("0x%x", b)
}

// PairCreated is the decoded PairCreated(token0 indexed, token1 indexed,
// pair, index) event (spec.md §4.2).
type PairCreated struct {
	Token0      string
	Token1      string
	Pair        string
	PairIndex   string // hex
	Factory     string
	BlockNumber uint64
	TxHash      string
	LogIndex    uint
}

// Swap is the decoded Swap(sender indexed, amount0In, amount1In,
// amount0Out, amount1Out, to indexed) event.
type Swap struct {
	Pair        string
	Sender      string
	Amount0In   string // hex
	Amount1In   string // hex
	Amount0Out  string // hex
	Amount1Out  string // hex
	To          string
	BlockNumber uint64
	TxHash      string
	LogIndex    uint
}

// Transfer is the decoded Transfer(from indexed, to indexed, value) event.
type Transfer struct {
	Token       string
	From        string
	To          string
	Value       string // hex
	BlockNumber uint64
	TxHash      string
	LogIndex    uint
}

// Sync is the decoded Sync(reserve0, reserve1) event.
type Sync struct {
	Pair        string
	Reserve0    string // hex
	Reserve1    string // hex
	BlockNumber uint64
	TxHash      string
	LogIndex    uint
}

// DecodePairCreated extracts token0/token1 from the indexed topics (last
// 20 bytes of each 32-byte word) and the pair address from data[12:32];
// factory is the log emitter (spec.md §4.2).
func DecodePairCreated(log types.Log) (*PairCreated, error) {
	if len(log.Topics) < 3 {
		return nil, &DecodeError{Event: "PairCreated", Reason: fmt.Sprintf("expected 3 topics, got %d", len(log.Topics))}
	}
	if len(log.Data) < 64 {
		return nil, &DecodeError{Event: "PairCreated", Reason: fmt.Sprintf("expected at least 64 bytes of data, got %d", len(log.Data))}
	}
	return &PairCreated{
		Token0:      hexWord(log.Topics[1][12:32]),
		Token1:      hexWord(log.Topics[2][12:32]),
		Pair:        hexWord(log.Data[12:32]),
		PairIndex:   hexWord(log.Data[32:64]),
		Factory:     log.Address.Hex(),
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
		LogIndex:    log.Index,
	}, nil
}

// DecodeSwap extracts sender/to from the indexed topics and the four
// in/out amounts from four consecutive 32-byte data words; pair is the log
// emitter (spec.md §4.2).
func DecodeSwap(log types.Log) (*Swap, error) {
	if len(log.Topics) < 3 {
		return nil, &DecodeError{Event: "Swap", Reason: fmt.Sprintf("expected 3 topics, got %d", len(log.Topics))}
	}
	if len(log.Data) < 128 {
		return nil, &DecodeError{Event: "Swap", Reason: fmt.Sprintf("expected at least 128 bytes of data, got %d", len(log.Data))}
	}
	return &Swap{
		Pair:        log.Address.Hex(),
		Sender:      hexWord(log.Topics[1][12:32]),
		Amount0In:   hexWord(log.Data[0:32]),
		Amount1In:   hexWord(log.Data[32:64]),
		Amount0Out:  hexWord(log.Data[64:96]),
		Amount1Out:  hexWord(log.Data[96:128]),
		To:          hexWord(log.Topics[2][12:32]),
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
		LogIndex:    log.Index,
	}, nil
}

// DecodeTransfer extracts from/to from the indexed topics and value from a
// single 32-byte data word; token is the log emitter (spec.md §4.2).
func DecodeTransfer(log types.Log) (*Transfer, error) {
	if len(log.Topics) < 3 {
		return nil, &DecodeError{Event: "Transfer", Reason: fmt.Sprintf("expected 3 topics, got %d", len(log.Topics))}
	}
	if len(log.Data) < 32 {
		return nil, &DecodeError{Event: "Transfer", Reason: fmt.Sprintf("expected at least 32 bytes of data, got %d", len(log.Data))}
	}
	return &Transfer{
		Token:       log.Address.Hex(),
		From:        hexWord(log.Topics[1][12:32]),
		To:          hexWord(log.Topics[2][12:32]),
		Value:       hexWord(log.Data[0:32]),
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
		LogIndex:    log.Index,
	}, nil
}

// DecodeSync extracts the two reserve words from data; pair is the log
// emitter (spec.md §4.2). Sync has no indexed parameters.
func DecodeSync(log types.Log) (*Sync, error) {
	if len(log.Data) < 64 {
		return nil, &DecodeError{Event: "Sync", Reason: fmt.Sprintf("expected at least 64 bytes of data, got %d", len(log.Data))}
	}
	return &Sync{
		Pair:        log.Address.Hex(),
		Reserve0:    hexWord(log.Data[0:32]),
		Reserve1:    hexWord(log.Data[32:64]),
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
		LogIndex:    log.Index,
	}, nil
}

// Decoded is the tagged union of every decoded event family, returned by
// Decode alongside the matching Kind (spec.md §9: "a closed registry beats
// a reflective one").
type Decoded struct {
	Kind        Kind
	PairCreated *PairCreated
	Swap        *Swap
	Transfer    *Transfer
	Sync        *Sync
}

// Kind names one of the closed set of recognized event families.
type Kind string

const (
	KindPairCreated Kind = "pair_created"
	KindSwap        Kind = "swap"
	KindTransfer    Kind = "transfer"
	KindSync        Kind = "sync"
)

// Decode dispatches on log.Topics[0] against the chainreg registry and
// returns the matching decoded event, or ErrUnknownTopic for anything
// outside the closed set (LpLock is decoded separately by
// internal/lplock, since it is vendor-specific rather than a single
// fixed topic hash — spec.md §4.2).
func Decode(log types.Log) (*Decoded, error) {
	if len(log.Topics) == 0 {
		return nil, &DecodeError{Event: "unknown", Reason: "log has no topics"}
	}
	switch log.Topics[0] {
	case chainreg.TopicPairCreated:
		e, err := DecodePairCreated(log)
		if err != nil {
			return nil, err
		}
		return &Decoded{Kind: KindPairCreated, PairCreated: e}, nil
	case chainreg.TopicSwap:
		e, err := DecodeSwap(log)
		if err != nil {
			return nil, err
		}
		return &Decoded{Kind: KindSwap, Swap: e}, nil
	case chainreg.TopicTransfer:
		e, err := DecodeTransfer(log)
		if err != nil {
			return nil, err
		}
		return &Decoded{Kind: KindTransfer, Transfer: e}, nil
	case chainreg.TopicSync:
		e, err := DecodeSync(log)
		if err != nil {
			return nil, err
		}
		return &Decoded{Kind: KindSync, Sync: e}, nil
	default:
		return nil, &ErrUnknownTopic{Topic: log.Topics[0].Hex()}
	}
}
