// Package chainreg holds the chain-specific defaults referenced in
// spec.md §6: the PancakeSwap factory address, the event topic hashes for
// the decoded families, and the set of recognized base (quote) tokens.
// CHAIN_ID must resolve to an entry here, per spec.md §6's "must exist in
// local chain-registry."
package chainreg

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Event signatures, keccak-hashed at init so the topic constants below are
// always wire-exact against the ABI text rather than hand-copied hex.
var (
	TopicPairCreated = crypto.Keccak256Hash([]byte("PairCreated(address,address,address,uint256)"))
	TopicSwap        = crypto.Keccak256Hash([]byte("Swap(address,uint256,uint256,uint256,uint256,address)"))
	TopicTransfer    = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	TopicSync        = crypto.Keccak256Hash([]byte("Sync(uint112,uint112)"))
)

// Registry is the set of chain-wide defaults for one CHAIN_ID.
type Registry struct {
	ChainID        int64
	Name           string
	Factory        common.Address
	WrappedNative  common.Address
	Stable         common.Address
	NativeUSD      float64 // configured fallback price, overridden by BNB_PRICE_USD
}

// BaseTokens returns the canonical-lowercase set of known base (quote)
// tokens for this chain, per spec.md §3's "base token" invariant.
func (r Registry) BaseTokens() map[string]bool {
	return map[string]bool{
		strings.ToLower(r.WrappedNative.Hex()): true,
		strings.ToLower(r.Stable.Hex()):        true,
	}
}

// BSC is the default BNB Smart Chain registry entry, matching spec.md §6's
// defaults (PancakeSwap V2 factory, WBNB, BUSD).
var BSC = Registry{
	ChainID:       56,
	Name:          "bsc",
	Factory:       common.HexToAddress("0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73"),
	WrappedNative: common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"),
	Stable:        common.HexToAddress("0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56"),
	NativeUSD:     600,
}

var registries = map[int64]Registry{56: BSC}

// Lookup resolves a registered chain by id, or an error satisfying the
// "Configuration" error class of spec.md §7 (abort at startup).
func Lookup(chainID int64) (Registry, error) {
	r, ok := registries[chainID]
	if !ok {
		return Registry{}, fmt.Errorf("chainreg: unknown chain id %d", chainID)
	}
	return r, nil
}
