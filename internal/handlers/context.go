// Package handlers applies the decoded event families from internal/events
// to the relational store: one file per event family, sharing the
// read-only Context below (spec.md §4.3's "handlers share a read-only
// HandlerContext").
package handlers

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/beescan/indexer/internal/pubsub"
	"github.com/beescan/indexer/internal/rpcmeta"
	"github.com/beescan/indexer/internal/store"
)

// Context is the shared, immutable dependency set every handler reads
// from — built once at startup and passed by reference, never mutated
// after construction (spec.md §9: "shared mutable state is passed as an
// explicit record, not a global").
type Context struct {
	Store             *store.Store
	Metadata          *rpcmeta.Fetcher
	Publisher         *pubsub.Publisher
	BaseTokens        map[string]bool
	NativeUSD         float64
	WhaleThresholdUSD float64
	Log               *logrus.Entry
}

// NewContext wires the dependencies above into a Context. log may be nil,
// in which case the standard logrus logger is used.
func NewContext(st *store.Store, metadata *rpcmeta.Fetcher, publisher *pubsub.Publisher, baseTokens map[string]bool, nativeUSD, whaleThresholdUSD float64, log *logrus.Entry) *Context {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Context{
		Store:             st,
		Metadata:          metadata,
		Publisher:         publisher,
		BaseTokens:        baseTokens,
		NativeUSD:         nativeUSD,
		WhaleThresholdUSD: whaleThresholdUSD,
		Log:               log,
	}
}

// isBaseToken reports whether address (already canonicalized) is one of
// the chain's known base/quote tokens (spec.md §3's base-token
// invariant).
func (c *Context) isBaseToken(address string) bool {
	return c.BaseTokens[strings.ToLower(address)]
}

const defaultDecimals = 18

func decimalsOrDefault(d *uint8) uint8 {
	if d == nil {
		return defaultDecimals
	}
	return *d
}

func displayName(symbol, name *string, address string) string {
	if symbol != nil && *symbol != "" {
		return *symbol
	}
	if name != nil && *name != "" {
		return *name
	}
	if len(address) > 10 {
		return address[:10]
	}
	return address
}
