// Package format turns integer wire values (base-unit amounts, flow rates,
// unix timestamps) into display structures that always keep the raw value.
package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

const (
	DefaultDisplayPrecision = 8
	DefaultDecimals         = 18
	// SecondsPerMonth is a fixed 30-day month, not a calendar month.
	SecondsPerMonth  = 2_592_000
	MonthlyPrecision = 4
)

const isoMillis = "2006-01-02T15:04:05.000Z"

type Amount struct {
	Wei       string `json:"wei"`
	Formatted string `json:"formatted"`
}

type FlowRate struct {
	WeiPerSecond    string `json:"wei_per_second"`
	TokensPerSecond string `json:"tokens_per_second"`
	TokensPerMonth  string `json:"tokens_per_month"`
}

type Timestamp struct {
	Unix json.Number `json:"unix"`
	ISO  string      `json:"iso"`
}

// Formatter caps displayed fractional digits at DisplayPrecision and uses
// DefaultDecimals when a token's precision is unknown.
type Formatter struct {
	DisplayPrecision int
	DefaultDecimals  int
}

func New(displayPrecision, defaultDecimals int) Formatter {
	if displayPrecision < 0 {
		displayPrecision = DefaultDisplayPrecision
	}
	if defaultDecimals < 0 {
		defaultDecimals = DefaultDecimals
	}
	return Formatter{DisplayPrecision: displayPrecision, DefaultDecimals: defaultDecimals}
}

// Amount formats a base-unit integer string. An empty raw value yields nil.
func (f Formatter) Amount(raw string, decimals int) (*Amount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := parseInteger(raw)
	if err != nil {
		return nil, err
	}
	places, err := f.places(decimals)
	if err != nil {
		return nil, err
	}
	return &Amount{
		Wei:       raw,
		Formatted: value.Shift(-int32(decimals)).StringFixed(places),
	}, nil
}

// FlowRate formats a signed wei-per-second string. Absent or zero means no flow.
func (f Formatter) FlowRate(raw string, decimals int) (*FlowRate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, nil
	}
	value, err := parseInteger(raw)
	if err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, nil
	}
	places, err := f.places(decimals)
	if err != nil {
		return nil, err
	}
	sign := ""
	if value.IsNegative() {
		sign = "-"
	}
	perSecond := value.Abs().Shift(-int32(decimals))
	perMonth := perSecond.Mul(decimal.NewFromInt(SecondsPerMonth))
	return &FlowRate{
		WeiPerSecond:    raw,
		TokensPerSecond: sign + perSecond.StringFixed(places),
		TokensPerMonth:  sign + perMonth.StringFixed(MonthlyPrecision),
	}, nil
}

// FormatTimestamp renders unix seconds as ISO-8601 UTC. Absent or zero yields nil.
func FormatTimestamp(raw string) (*Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeMalformedInput, fmt.Sprintf("invalid timestamp %q", raw), err)
	}
	if value.IsZero() {
		return nil, nil
	}
	ms := value.Mul(decimal.NewFromInt(1000)).IntPart()
	return &Timestamp{
		Unix: json.Number(raw),
		ISO:  time.UnixMilli(ms).UTC().Format(isoMillis),
	}, nil
}

func (f Formatter) places(decimals int) (int32, error) {
	if decimals < 0 {
		return 0, clierr.New(clierr.CodeMalformedInput, fmt.Sprintf("invalid token decimals %d", decimals))
	}
	if decimals > f.DisplayPrecision {
		return int32(f.DisplayPrecision), nil
	}
	return int32(decimals), nil
}

func parseInteger(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, clierr.Wrap(clierr.CodeMalformedInput, fmt.Sprintf("invalid integer amount %q", raw), err)
	}
	if !value.IsInteger() {
		return decimal.Decimal{}, clierr.New(clierr.CodeMalformedInput, fmt.Sprintf("amount %q is not an integer", raw))
	}
	return value, nil
}
