package resolve

import (
	"encoding/json"
	"strings"
	"testing"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

const erc20ABI = `[
 {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
 {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
 {"type":"error","name":"Unauthorized","inputs":[]},
 {"type":"constructor","inputs":[]}
]`

func loadABI(t *testing.T) ABI {
	t.Helper()
	var a ABI
	if err := json.Unmarshal([]byte(erc20ABI), &a); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return a
}

func TestFragmentCardinality(t *testing.T) {
	a := loadABI(t)

	single, err := Fragment(a, "SuperToken", "TRANSFER")
	if err != nil {
		t.Fatalf("Fragment failed: %v", err)
	}
	buf, _ := json.Marshal(single)
	if !strings.HasPrefix(string(buf), `{"type":"function","name":"transfer"`) {
		t.Fatalf("expected a single object with original key order, got %s", buf)
	}

	many, err := Fragment(a, "SuperToken", "approve")
	if err != nil {
		t.Fatalf("Fragment failed: %v", err)
	}
	list, ok := many.([]json.RawMessage)
	if !ok || len(list) != 2 {
		t.Fatalf("expected both overloads, got %#v", many)
	}
}

func TestFragmentUnknownReportsNamedCount(t *testing.T) {
	_, err := Fragment(loadABI(t), "SuperToken", "mint")
	cErr, ok := clierr.As(err)
	if !ok || cErr.Code != clierr.CodeUnknownFragment {
		t.Fatalf("expected unknown fragment, got %v", err)
	}
	// transfer, approve, Transfer, Unauthorized
	if len(cErr.Hints) != 1 || !strings.Contains(cErr.Hints[0], "has 4 named entries") {
		t.Fatalf("unexpected hints %v", cErr.Hints)
	}
}

func TestSelectors(t *testing.T) {
	got, err := Selectors(loadABI(t))
	if err != nil {
		t.Fatalf("Selectors failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 selectors, got %+v", got)
	}
	if got[0].Signature != "transfer(address,uint256)" || got[0].Selector != "0xa9059cbb" {
		t.Fatalf("unexpected transfer selector %+v", got[0])
	}
	if got[1].Signature != "approve(address,uint256)" || got[1].Selector != "0x095ea7b3" {
		t.Fatalf("unexpected approve selector %+v", got[1])
	}
	if got[3].Type != "event" || got[3].Selector != "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef" {
		t.Fatalf("unexpected event topic %+v", got[3])
	}
	if got[4].Type != "error" || got[4].Signature != "Unauthorized()" || len(got[4].Selector) != 10 {
		t.Fatalf("unexpected error selector %+v", got[4])
	}
}
