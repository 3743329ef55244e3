package format

import (
	"encoding/json"
	"testing"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

func TestAmountCapsDisplayPrecision(t *testing.T) {
	f := New(DefaultDisplayPrecision, DefaultDecimals)
	got, err := f.Amount("1000000000000000000", 18)
	if err != nil {
		t.Fatalf("Amount failed: %v", err)
	}
	if got.Wei != "1000000000000000000" || got.Formatted != "1.00000000" {
		t.Fatalf("unexpected amount: %+v", got)
	}
}

func TestAmountUsesNativePrecisionBelowCap(t *testing.T) {
	f := New(DefaultDisplayPrecision, DefaultDecimals)
	got, err := f.Amount("1234567", 6)
	if err != nil {
		t.Fatalf("Amount failed: %v", err)
	}
	if got.Formatted != "1.234567" {
		t.Fatalf("unexpected formatted value %s", got.Formatted)
	}
	zero, _ := f.Amount("0", 18)
	if zero.Formatted != "0.00000000" || zero.Wei != "0" {
		t.Fatalf("unexpected zero amount %+v", zero)
	}
	none, err := f.Amount("", 18)
	if err != nil || none != nil {
		t.Fatalf("expected nil for absent amount, got %+v err=%v", none, err)
	}
}

func TestAmountIsExactForLargeValues(t *testing.T) {
	f := New(DefaultDisplayPrecision, DefaultDecimals)
	got, err := f.Amount("123456789012345678901234567", 18)
	if err != nil {
		t.Fatalf("Amount failed: %v", err)
	}
	if got.Formatted != "123456789.01234568" {
		t.Fatalf("unexpected formatted value %s", got.Formatted)
	}
}

func TestAmountRejectsMalformed(t *testing.T) {
	f := New(DefaultDisplayPrecision, DefaultDecimals)
	for _, raw := range []string{"abc", "1.5"} {
		if _, err := f.Amount(raw, 18); !clierr.Is(err, clierr.CodeMalformedInput) {
			t.Fatalf("%q: expected malformed input, got %v", raw, err)
		}
	}
	if _, err := f.Amount("1", -1); err == nil {
		t.Fatal("expected error for negative decimals")
	}
}

func TestFlowRatePreservesSign(t *testing.T) {
	f := New(DefaultDisplayPrecision, DefaultDecimals)
	got, err := f.FlowRate("-500000000000000", 18)
	if err != nil {
		t.Fatalf("FlowRate failed: %v", err)
	}
	if got.WeiPerSecond != "-500000000000000" {
		t.Fatalf("raw value changed: %s", got.WeiPerSecond)
	}
	if got.TokensPerSecond != "-0.00050000" {
		t.Fatalf("unexpected per-second %s", got.TokensPerSecond)
	}
	if got.TokensPerMonth != "-1296.0000" {
		t.Fatalf("unexpected per-month %s", got.TokensPerMonth)
	}

	pos, _ := f.FlowRate("385802469135802", 18)
	if pos.TokensPerSecond != "0.00038580" || pos.TokensPerMonth != "1000.0000" {
		t.Fatalf("unexpected positive flow %+v", pos)
	}
}

func TestFlowRateZeroIsNoFlow(t *testing.T) {
	f := New(DefaultDisplayPrecision, DefaultDecimals)
	for _, raw := range []string{"0", ""} {
		got, err := f.FlowRate(raw, 18)
		if err != nil || got != nil {
			t.Fatalf("%q: expected nil flow, got %+v err=%v", raw, got, err)
		}
	}
	buf, _ := json.Marshal(struct {
		NetFlow *FlowRate `json:"netFlow"`
	}{})
	if string(buf) != `{"netFlow":null}` {
		t.Fatalf("expected null flow in JSON, got %s", buf)
	}
}

func TestConfigurableDisplayPrecision(t *testing.T) {
	f := New(2, 18)
	got, _ := f.Amount("1999000000000000000", 18)
	if got.Formatted != "2.00" {
		t.Fatalf("unexpected formatted value %s", got.Formatted)
	}
}

func TestFormatTimestamp(t *testing.T) {
	got, err := FormatTimestamp("1700000000")
	if err != nil {
		t.Fatalf("FormatTimestamp failed: %v", err)
	}
	if got.Unix.String() != "1700000000" || got.ISO != "2023-11-14T22:13:20.000Z" {
		t.Fatalf("unexpected timestamp %+v", got)
	}
	for _, raw := range []string{"", "0"} {
		if ts, err := FormatTimestamp(raw); err != nil || ts != nil {
			t.Fatalf("%q: expected nil timestamp, got %+v err=%v", raw, ts, err)
		}
	}
	if _, err := FormatTimestamp("yesterday"); err == nil {
		t.Fatal("expected error for non-numeric timestamp")
	}
}
