// Package pubsub fans decoded events out to Redis channels (spec.md §4.5),
// grounded on the pack's go-redis/v9 usage
// (go-coffee/crypto-terminal's orderflow package, ethereum/go-ethereum's
// pgeth-monitoring plugin) and logged via logrus as elsewhere in this
// module.
package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Channel names, wire-exact per spec.md §6.
const (
	ChannelNewPair  = "events:new_pair"
	ChannelSwap     = "events:swap"
	ChannelTransfer = "events:transfer"
)

// publisherClient is the subset of *redis.Client's API Publisher needs,
// satisfied by *redis.Client and by test fakes.
type publisherClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher wraps a single multiplexed *redis.Client connection per
// Processor instance (spec.md §5).
type Publisher struct {
	client publisherClient
	log    *logrus.Entry
}

// NewClient builds a *redis.Client from a REDIS_URL-style address, in the
// idiom of the pack's redis.NewClient(&redis.Options{...}) construction.
// A redis:// URL is parsed with redis.ParseURL; anything that does not
// parse as one is used as a plain host:port address.
func NewClient(addr string) *redis.Client {
	if opts, err := redis.ParseURL(addr); err == nil {
		return redis.NewClient(opts)
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

// NewPublisher wraps client for publication. log may be nil, in which
// case the standard logrus logger is used.
func NewPublisher(client publisherClient, log *logrus.Entry) *Publisher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Publisher{client: client, log: log}
}

// NewPairPayload is the canonical snake_case JSON payload for
// events:new_pair.
type NewPairPayload struct {
	Pair          string `json:"pair"`
	Token0        string `json:"token0"`
	Token1        string `json:"token1"`
	Factory       string `json:"factory"`
	BaseTokenIdx  int16  `json:"base_token_index"`
	BlockNumber   int64  `json:"block_number"`
}

// SwapPayload is the canonical snake_case JSON payload for events:swap.
// amount* fields carry 0x-prefixed hex strings, 1e18 fixed-point, built
// with decimalx.ToHex to preserve precision (spec.md §6).
type SwapPayload struct {
	Pair         string `json:"pair"`
	TokenAddress string `json:"token_address"`
	Wallet       string `json:"wallet_address"`
	TradeType    string `json:"trade_type"`
	AmountTokens string `json:"amount_tokens"`
	AmountNative string `json:"amount_native"`
	AmountUSD    string `json:"amount_usd"`
	IsWhale      bool   `json:"is_whale"`
	BlockNumber  int64  `json:"block_number"`
	TxHash       string `json:"tx_hash"`
}

// TransferPayload is the canonical snake_case JSON payload for
// events:transfer. Value is a decimalx.ToHex-encoded, 1e18 fixed-point
// hex string, per spec.md §6.
type TransferPayload struct {
	Token       string `json:"token_address"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	BlockNumber int64  `json:"block_number"`
	TxHash      string `json:"tx_hash"`
}

// PublishNewPair publishes to events:new_pair. Errors are logged and
// never propagated (spec.md §4.5, §7's Publish error class).
func (p *Publisher) PublishNewPair(ctx context.Context, payload NewPairPayload) {
	p.publish(ctx, ChannelNewPair, payload)
}

// PublishSwap publishes to events:swap.
func (p *Publisher) PublishSwap(ctx context.Context, payload SwapPayload) {
	p.publish(ctx, ChannelSwap, payload)
}

// PublishTransfer publishes to events:transfer.
func (p *Publisher) PublishTransfer(ctx context.Context, payload TransferPayload) {
	p.publish(ctx, ChannelTransfer, payload)
}

func (p *Publisher) publish(ctx context.Context, channel string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.WithFields(logrus.Fields{"channel": channel, "error": err}).Error("pubsub: failed to encode payload")
		return
	}
	if err := p.client.Publish(ctx, channel, body).Err(); err != nil {
		p.log.WithFields(logrus.Fields{"channel": channel, "error": err}).Warn("pubsub: failed to publish, continuing")
	}
}
