package rpcmeta

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

func packedResult(t *testing.T, method string, args ...interface{}) []byte {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(erc20MetadataABI))
	if err != nil {
		t.Fatalf("failed to parse ABI: %v", err)
	}
	out, err := parsed.Methods[method].Outputs.Pack(args...)
	if err != nil {
		t.Fatalf("failed to pack %s result: %v", method, err)
	}
	return out
}

func TestFetch_AllFieldsResolve(t *testing.T) {
	token := common.HexToAddress("0xtoken")
	call := func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
		parsed, _ := abi.JSON(strings.NewReader(erc20MetadataABI))
		method, err := parsed.MethodById(msg.Data[:4])
		if err != nil {
			t.Fatalf("unrecognized method selector: %v", err)
		}
		switch method.Name {
		case "name":
			return packedResult(t, "name", "Doge Clone"), nil
		case "symbol":
			return packedResult(t, "symbol", "DOGC"), nil
		case "decimals":
			return packedResult(t, "decimals", uint8(18)), nil
		case "totalSupply":
			return packedResult(t, "totalSupply", big.NewInt(1_000_000)), nil
		}
		return nil, errors.New("unexpected method")
	}

	f, err := NewFetcher(call, nil)
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}
	m := f.Fetch(context.Background(), token)

	if m.Name == nil || *m.Name != "Doge Clone" {
		t.Errorf("name = %v, want Doge Clone", m.Name)
	}
	if m.Symbol == nil || *m.Symbol != "DOGC" {
		t.Errorf("symbol = %v, want DOGC", m.Symbol)
	}
	if m.Decimals == nil || *m.Decimals != 18 {
		t.Errorf("decimals = %v, want 18", m.Decimals)
	}
	if m.TotalSupply == nil || m.TotalSupply.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Errorf("totalSupply = %v, want 1000000", m.TotalSupply)
	}
}

func TestFetch_ToleratesIndividualFieldFailures(t *testing.T) {
	token := common.HexToAddress("0xtoken")
	call := func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
		parsed, _ := abi.JSON(strings.NewReader(erc20MetadataABI))
		method, _ := parsed.MethodById(msg.Data[:4])
		if method.Name == "name" {
			return nil, errors.New("execution reverted")
		}
		if method.Name == "symbol" {
			return packedResult(t, "symbol", "DOGC"), nil
		}
		return nil, errors.New("execution reverted")
	}

	f, err := NewFetcher(call, nil)
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}
	m := f.Fetch(context.Background(), token)

	if m.Name != nil {
		t.Errorf("expected nil Name on RPC failure, got %v", *m.Name)
	}
	if m.Symbol == nil || *m.Symbol != "DOGC" {
		t.Errorf("expected symbol to still resolve despite name failing, got %v", m.Symbol)
	}
	if m.Decimals != nil {
		t.Errorf("expected nil Decimals on RPC failure")
	}
}
