// Package addr canonicalizes and validates the 20-byte hex chain addresses
// used throughout the indexer.
package addr

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the canonical mint/burn sentinel.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// DeadAddress is the conventional burn address used by BSC memecoins.
const DeadAddress = "0x000000000000000000000000000000000000dead"

// Canonicalize lower-cases a hex address and ensures it carries the 0x
// prefix and the correct length. It does not require the input to already
// be 0x-prefixed.
func Canonicalize(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("addr: invalid address %q", s)
	}
	return strings.ToLower(common.HexToAddress(s).Hex()), nil
}

// FromCommon canonicalizes a go-ethereum common.Address.
func FromCommon(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// IsZero reports whether s is the canonical zero address.
func IsZero(s string) bool {
	return strings.EqualFold(s, ZeroAddress)
}

// IsBurn reports whether s is the zero address or the conventional dead
// address used to mark burned tokens.
func IsBurn(s string) bool {
	return strings.EqualFold(s, ZeroAddress) || strings.EqualFold(s, DeadAddress)
}

// Valid reports whether s is a well-formed 42-char 0x-prefixed lower-hex
// address, per the invariant in spec.md §3.
func Valid(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") || s != strings.ToLower(s) {
		return false
	}
	return common.IsHexAddress(s)
}
