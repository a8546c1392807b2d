package addr

import "testing"

func TestCanonicalize(t *testing.T) {
	got, err := Canonicalize("0xB31F66AA3C1E785363F0875A1B74E27B85FD66C7"[:42])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0xb31f66aa3c1e785363f0875a1b74e27b85fd66c7" {
		t.Errorf("got %q", got)
	}
}

func TestCanonicalizeInvalid(t *testing.T) {
	if _, err := Canonicalize("not-an-address"); err == nil {
		t.Error("expected error for malformed address")
	}
}

func TestIsBurn(t *testing.T) {
	cases := map[string]bool{
		ZeroAddress: true,
		DeadAddress: true,
		"0x000000000000000000000000000000000000dEaD": true,
		"0xb31f66aa3c1e785363f0875a1b74e27b85fd66c7":  false,
	}
	for in, want := range cases {
		if got := IsBurn(in); got != want {
			t.Errorf("IsBurn(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("0xb31f66aa3c1e785363f0875a1b74e27b85fd66c7") {
		t.Error("expected valid address to pass")
	}
	if Valid("0xb31f66aa3c1e785363f0875a1b74e27b85fd66c") {
		t.Error("expected short address to fail")
	}
}
