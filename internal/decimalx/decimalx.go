// Package decimalx converts the fixed-width hex integers carried on raw
// chain logs into arbitrary-precision decimals, and back down to float64
// only where the scoring rubrics or presentation layer require a ratio.
package decimalx

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// HexToDecimal parses a 0x-prefixed (or bare) hex integer string into a
// decimal.Decimal. An empty or all-zero string yields zero rather than an
// error, since that's the common case for unset log fields.
func HexToDecimal(hex string) decimal.Decimal {
	h := strings.TrimPrefix(hex, "0x")
	if h == "" || allZero(h) {
		return decimal.Zero
	}
	i, ok := new(big.Int).SetString(h, 16)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(i, 0)
}

func allZero(s string) bool {
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return true
}

// Scale divides a raw on-chain integer amount by 10^decimals, returning the
// human-readable token quantity. decimals defaults to 18 (spec.md §4.3)
// when 0 is passed in as "unknown".
func Scale(raw decimal.Decimal, decimals uint8) decimal.Decimal {
	if decimals == 0 {
		decimals = 18
	}
	divisor := decimal.New(1, int32(decimals))
	return raw.DivRound(divisor, 36)
}

// hexFixedPointScale is the 1e18 fixed-point scale ToHex encodes at,
// matching the EVM's native 18-decimal convention so a fractional
// quantity survives the wire regardless of its originating token's own
// decimals (which may be less than 18).
var hexFixedPointScale = decimal.New(1, 18)

// ToHex renders d as a 0x-prefixed hex string of its 1e18 fixed-point
// integer representation — the pub/sub wire encoding spec.md §6 requires
// for amount* fields, so large or fractional decimal quantities don't
// lose precision passing through a JSON string. Counterpart to
// HexToDecimal, which reads raw on-chain wei integers back off the log;
// ToHex fixes the scale at 18 decimals rather than the token's own
// decimals, so callers never need to know it to decode the field.
func ToHex(d decimal.Decimal) string {
	scaled := d.Mul(hexFixedPointScale).Round(0)
	return fmt.Sprintf("0x%x", scaled.BigInt())
}

// SafeDiv divides a by b, returning zero instead of panicking/NaN when b is
// zero (guards the §4.3 "price=0, no division error" edge case).
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, 36)
}

// ToFloat64 is the single sanctioned drop to binary floating point, used
// only for score thresholds, ratios and presentation per spec.md §9.
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
