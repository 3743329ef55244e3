package model

import (
	"encoding/json"
	"time"
)

const EnvelopeVersion = "v1"

// Token classification tags used by the Superfluid token list.
const (
	TagSuperToken = "supertoken"
	TagUnderlying = "underlying"
)

type Envelope struct {
	Version  string       `json:"version"`
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Error    *ErrorBody   `json:"error"`
	Warnings []string     `json:"warnings,omitempty"`
	Meta     EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int      `json:"code"`
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Hints   []string `json:"hints,omitempty"`
}

type EnvelopeMeta struct {
	RequestID string         `json:"request_id"`
	Timestamp time.Time      `json:"timestamp"`
	Command   string         `json:"command"`
	Sources   []SourceStatus `json:"sources,omitempty"`
}

// SourceStatus records where a dataset came from for one invocation.
type SourceStatus struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Origin    string `json:"origin"`
	LatencyMS int64  `json:"latency_ms"`
}

// Network is one entry of the Superfluid networks metadata list. The full
// upstream record is kept verbatim so unknown fields survive re-encoding.
type Network struct {
	ChainID            int64          `json:"chainId"`
	Name               string         `json:"name"`
	ShortName          string         `json:"shortName"`
	HumanReadableName  string         `json:"humanReadableName"`
	IsTestnet          bool           `json:"isTestnet"`
	NativeTokenSymbol  string         `json:"nativeTokenSymbol"`
	NativeTokenWrapper string         `json:"nativeTokenWrapper,omitempty"`
	ContractsV1        map[string]any `json:"contractsV1,omitempty"`
	SubgraphV1         any            `json:"subgraphV1,omitempty"`
	Autowrap           any            `json:"autowrap,omitempty"`

	raw json.RawMessage
}

type networkFields Network

func (n *Network) UnmarshalJSON(buf []byte) error {
	var fields networkFields
	if err := json.Unmarshal(buf, &fields); err != nil {
		return err
	}
	*n = Network(fields)
	n.raw = append(json.RawMessage(nil), buf...)
	return nil
}

func (n Network) MarshalJSON() ([]byte, error) {
	if len(n.raw) > 0 {
		return n.raw, nil
	}
	return json.Marshal(networkFields(n))
}

// ContractAddress returns contractsV1[key] when it is a non-empty string.
func (n Network) ContractAddress(key string) (string, bool) {
	v, ok := n.ContractsV1[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

type NetworkSummary struct {
	Name              string `json:"name"`
	ChainID           int64  `json:"chainId"`
	HumanReadableName string `json:"humanReadableName"`
	IsTestnet         bool   `json:"isTestnet"`
	NativeTokenSymbol string `json:"nativeTokenSymbol"`
}

func (n Network) Summary() NetworkSummary {
	return NetworkSummary{
		Name:              n.Name,
		ChainID:           n.ChainID,
		HumanReadableName: n.HumanReadableName,
		IsTestnet:         n.IsTestnet,
		NativeTokenSymbol: n.NativeTokenSymbol,
	}
}

type TokenList struct {
	Name   string  `json:"name,omitempty"`
	Tokens []Token `json:"tokens"`
}

type Token struct {
	ChainID    int64            `json:"chainId"`
	Address    string           `json:"address"`
	Name       string           `json:"name"`
	Symbol     string           `json:"symbol"`
	Decimals   int              `json:"decimals"`
	LogoURI    string           `json:"logoURI,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
	Extensions *TokenExtensions `json:"extensions,omitempty"`
}

type TokenExtensions struct {
	SuperTokenInfo *SuperTokenInfo `json:"superTokenInfo,omitempty"`
}

type SuperTokenInfo struct {
	Type                   string `json:"type,omitempty"`
	UnderlyingTokenAddress string `json:"underlyingTokenAddress,omitempty"`
}

func (t Token) HasTag(tag string) bool {
	for _, item := range t.Tags {
		if item == tag {
			return true
		}
	}
	return false
}

func (t Token) IsSuperToken() bool { return t.HasTag(TagSuperToken) }

func (t Token) IsUnderlying() bool { return t.HasTag(TagUnderlying) }

func (t Token) SuperInfo() *SuperTokenInfo {
	if t.Extensions == nil {
		return nil
	}
	return t.Extensions.SuperTokenInfo
}

type TokenSummary struct {
	ChainID        int64           `json:"chainId"`
	Address        string          `json:"address"`
	Name           string          `json:"name"`
	Symbol         string          `json:"symbol"`
	Decimals       int             `json:"decimals"`
	Tags           []string        `json:"tags"`
	SuperTokenInfo *SuperTokenInfo `json:"superTokenInfo,omitempty"`
}

func (t Token) Summary() TokenSummary {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TokenSummary{
		ChainID:        t.ChainID,
		Address:        t.Address,
		Name:           t.Name,
		Symbol:         t.Symbol,
		Decimals:       t.Decimals,
		Tags:           tags,
		SuperTokenInfo: t.SuperInfo(),
	}
}

// BalanceSnapshot is the balance API response for one (chain, token, account).
// Numeric fields may arrive as JSON strings or numbers.
type BalanceSnapshot struct {
	Chain              any                 `json:"chain"`
	Account            string              `json:"account"`
	Token              string              `json:"token"`
	ConnectedBalance   *json.Number        `json:"connectedBalance"`
	UnconnectedBalance *json.Number        `json:"unconnectedBalance"`
	ConnectedNetFlow   *json.Number        `json:"connectedNetFlow"`
	Timestamp          *json.Number        `json:"timestamp"`
	MaybeCriticalAt    *json.Number        `json:"maybeCriticalAt"`
	UnderlyingToken    *UnderlyingSnapshot `json:"underlyingToken"`
}

type UnderlyingSnapshot struct {
	Address  string       `json:"address"`
	Decimals *int         `json:"decimals"`
	Balance  *json.Number `json:"balance"`
}
