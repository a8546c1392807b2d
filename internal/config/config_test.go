package config

import "testing"

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RPC_URL", "https://rpc.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pass@tcp(127.0.0.1:3306)/beescan")
	t.Setenv("RPC_URL", "https://rpc.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.BatchSize)
	}
	if cfg.MaxRetries != 10 {
		t.Errorf("MaxRetries = %d, want 10", cfg.MaxRetries)
	}
	if cfg.NativeUSD != 600 {
		t.Errorf("NativeUSD = %v, want 600", cfg.NativeUSD)
	}
	if cfg.ChainID != 56 {
		t.Errorf("ChainID = %d, want 56", cfg.ChainID)
	}
}

func TestLoadAppliesAddressOverridesToRegistry(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pass@tcp(127.0.0.1:3306)/beescan")
	t.Setenv("RPC_URL", "https://rpc.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("WBNB_ADDRESS", "0x1111111111111111111111111111111111111111")
	t.Setenv("BUSD_ADDRESS", "0x2222222222222222222222222222222222222222")
	t.Setenv("PANCAKE_FACTORY", "0x3333333333333333333333333333333333333333")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The registry (what handlers.Context.BaseTokens ultimately reads via
	// cfg.Chain.BaseTokens()) must reflect the override, not just the
	// flat Config fields — a mismatch here would mean WBNB_ADDRESS/
	// BUSD_ADDRESS overrides silently don't take effect for base-token
	// classification.
	bases := cfg.Chain.BaseTokens()
	if !bases["0x1111111111111111111111111111111111111111"] {
		t.Errorf("registry.BaseTokens() missing overridden WBNB_ADDRESS: %v", bases)
	}
	if !bases["0x2222222222222222222222222222222222222222"] {
		t.Errorf("registry.BaseTokens() missing overridden BUSD_ADDRESS: %v", bases)
	}
	if cfg.Chain.Factory.Hex() != "0x3333333333333333333333333333333333333333" {
		t.Errorf("registry.Factory = %s, want overridden PANCAKE_FACTORY", cfg.Chain.Factory.Hex())
	}
}

func TestLoadRejectsUnknownChain(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pass@tcp(127.0.0.1:3306)/beescan")
	t.Setenv("RPC_URL", "https://rpc.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CHAIN_ID", "999999")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unregistered chain id")
	}
}
