package policy

import (
	"testing"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

func TestCheckCommandAllowed(t *testing.T) {
	if err := CheckCommandAllowed(nil, "metadata network"); err != nil {
		t.Fatalf("unexpected error with empty allowlist: %v", err)
	}
	if err := CheckCommandAllowed([]string{"metadata  Network"}, "metadata network"); err != nil {
		t.Fatalf("expected command to be allowed: %v", err)
	}
	if err := CheckCommandAllowed([]string{"tokenlist stats"}, "metadata network"); !clierr.Is(err, clierr.CodeBlocked) {
		t.Fatalf("expected command to be blocked, got %v", err)
	}
}

func TestCheckCommandAllowedGroupPrefix(t *testing.T) {
	if err := CheckCommandAllowed([]string{"tokenlist"}, "tokenlist super-token"); err != nil {
		t.Fatalf("expected group entry to allow subcommand: %v", err)
	}
	if err := CheckCommandAllowed([]string{"token"}, "tokenlist stats"); err == nil {
		t.Fatal("expected partial word not to match")
	}
	if err := CheckCommandAllowed([]string{"abi selectors"}, "abi"); err == nil {
		t.Fatal("expected subcommand entry not to allow its parent")
	}
}
