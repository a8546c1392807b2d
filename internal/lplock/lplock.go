// Package lplock decodes liquidity-lock deposit events from the handful
// of locker contracts this indexer recognizes (spec.md §4.2: "LpLock is
// decoded separately, since it is vendor-specific rather than a single
// fixed topic hash"). Unicrypt, PinkSale, and Mudra all fork the same
// TokenLocker interface, so one decoder covers all three — each is
// distinguished only by its locker contract address.
package lplock

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Known BSC locker contracts, per the original handler's lockers module.
const (
	Unicrypt = "0xc765bddb93b0d1c1a88282ba0fa6b2d00e3e0c83"
	PinkSale = "0x407993575c91ce7643a4d4ccacc9a98c36ee1bbe"
	Mudra    = "0xae34bd8a0d1153e51a11a59df23598c304dc5abc"
)

// TopicDeposit is keccak256("onDeposit(address,address,uint256,uint256,uint256)"),
// the TokenLocker deposit event shared by Unicrypt-derived lockers.
var TopicDeposit = crypto.Keccak256Hash([]byte("onDeposit(address,address,uint256,uint256,uint256)"))

// IsLockerContract reports whether address (any case) is a recognized
// locker contract.
func IsLockerContract(address string) bool {
	return LockerName(address) != "unknown"
}

// LockerName maps a locker contract address to its display name, per the
// original handler's get_locker_name.
func LockerName(address string) string {
	switch strings.ToLower(address) {
	case Unicrypt:
		return "unicrypt"
	case PinkSale:
		return "pinksale"
	case Mudra:
		return "mudra"
	default:
		return "unknown"
	}
}

// Event is a decoded onDeposit event: the LP token locked, the user who
// locked it, and the lock window.
type Event struct {
	LPToken       string
	User          string
	Amount        string // hex
	LockDate      string // hex unix seconds
	UnlockDate    string // hex unix seconds
	LockerAddress string
	BlockNumber   uint64
	TxHash        string
	LogIndex      uint
}

// Decode parses an onDeposit(lpToken, user, amount, lockDate, unlockDate)
// log — all five fields non-indexed, per the shared TokenLocker ABI.
func Decode(log types.Log) (*Event, error) {
	if len(log.Data) < 160 {
		return nil, fmt.Errorf("lplock: expected at least 160 bytes of data, got %d", len(log.Data))
	}
	return &Event{
		LPToken:       hexWord(log.Data[12:32]),
		User:          hexWord(log.Data[44:64]),
		Amount:        hexWord(log.Data[64:96]),
		LockDate:      hexWord(log.Data[96:128]),
		UnlockDate:    hexWord(log.Data[128:160]),
		LockerAddress: log.Address.Hex(),
		BlockNumber:   log.BlockNumber,
		TxHash:        log.TxHash.Hex(),
		LogIndex:      log.Index,
	}, nil
}

func hexWord(b []byte) string {
	return fmt.Sprintf("0x%x", b)
}
