// Package rpcmeta fetches ERC-20 metadata (name, symbol, decimals,
// totalSupply) over the chain RPC for a freshly-seen token (spec.md §4.3
// PairCreated handler, step 3). It is grounded on the teacher's
// pkg/contractclient ABI-driven Call pattern (pack inputs against a
// go-ethereum accounts/abi.ABI, CallContract, unpack outputs) — the
// teacher's contractclient.go implementation itself wasn't present in the
// retrieval pack, only its test, so this talks to go-ethereum's ABI and
// RPC client directly rather than through that missing type.
package rpcmeta

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// erc20MetadataABI covers the four read-only calls this package makes.
// Kept minimal rather than a full ERC-20 ABI, since that's all a metadata
// fetch needs.
const erc20MetadataABI = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

// CallContractFunc is the subset of ethclient.Client used to make
// eth_call requests, satisfied by *ethclient.Client.
type CallContractFunc func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)

// Metadata is the best-effort result of Fetch — fields are nil when the
// corresponding call failed or returned malformed data.
type Metadata struct {
	Name        *string
	Symbol      *string
	Decimals    *uint8
	TotalSupply *big.Int
}

// Fetcher queries ERC-20 metadata over a chain RPC connection.
type Fetcher struct {
	call CallContractFunc
	abi  abi.ABI
	log  *logrus.Entry
}

// NewFetcher parses the embedded ERC-20 ABI once and wraps call for
// later use.
func NewFetcher(call CallContractFunc, log *logrus.Entry) (*Fetcher, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20MetadataABI))
	if err != nil {
		return nil, fmt.Errorf("rpcmeta: failed to parse ERC-20 ABI: %w", err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Fetcher{call: call, abi: parsed, log: log}, nil
}

// Fetch calls name/symbol/decimals/totalSupply against token, tolerating
// individual field failures (spec.md §4.3: "tolerate individual field
// failures").
func (f *Fetcher) Fetch(ctx context.Context, token common.Address) Metadata {
	var m Metadata

	if name, err := f.callString(ctx, token, "name"); err != nil {
		f.log.WithFields(logrus.Fields{"token": token.Hex(), "field": "name", "error": err}).Warn("rpcmeta: field fetch failed")
	} else {
		m.Name = &name
	}

	if symbol, err := f.callString(ctx, token, "symbol"); err != nil {
		f.log.WithFields(logrus.Fields{"token": token.Hex(), "field": "symbol", "error": err}).Warn("rpcmeta: field fetch failed")
	} else {
		m.Symbol = &symbol
	}

	if decimals, err := f.callUint8(ctx, token, "decimals"); err != nil {
		f.log.WithFields(logrus.Fields{"token": token.Hex(), "field": "decimals", "error": err}).Warn("rpcmeta: field fetch failed")
	} else {
		m.Decimals = &decimals
	}

	if supply, err := f.callBigInt(ctx, token, "totalSupply"); err != nil {
		f.log.WithFields(logrus.Fields{"token": token.Hex(), "field": "totalSupply", "error": err}).Warn("rpcmeta: field fetch failed")
	} else {
		m.TotalSupply = supply
	}

	return m
}

func (f *Fetcher) callRaw(ctx context.Context, token common.Address, method string) ([]byte, error) {
	input, err := f.abi.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	out, err := f.call(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	return out, nil
}

func (f *Fetcher) callString(ctx context.Context, token common.Address, method string) (string, error) {
	raw, err := f.callRaw(ctx, token, method)
	if err != nil {
		return "", err
	}
	results, err := f.abi.Unpack(method, raw)
	if err != nil || len(results) == 0 {
		return "", fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	s, ok := results[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected type for %s: %T", method, results[0])
	}
	return s, nil
}

func (f *Fetcher) callUint8(ctx context.Context, token common.Address, method string) (uint8, error) {
	raw, err := f.callRaw(ctx, token, method)
	if err != nil {
		return 0, err
	}
	results, err := f.abi.Unpack(method, raw)
	if err != nil || len(results) == 0 {
		return 0, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	d, ok := results[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected type for %s: %T", method, results[0])
	}
	return d, nil
}

func (f *Fetcher) callBigInt(ctx context.Context, token common.Address, method string) (*big.Int, error) {
	raw, err := f.callRaw(ctx, token, method)
	if err != nil {
		return nil, err
	}
	results, err := f.abi.Unpack(method, raw)
	if err != nil || len(results) == 0 {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	n, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected type for %s: %T", method, results[0])
	}
	return n, nil
}
