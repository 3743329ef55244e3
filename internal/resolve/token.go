package resolve

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/model"
)

type TokenFilter int

const (
	AllTokens TokenFilter = iota
	SuperTokens
	UnderlyingTokens
)

func (f TokenFilter) match(t model.Token) bool {
	switch f {
	case SuperTokens:
		return t.IsSuperToken()
	case UnderlyingTokens:
		return t.IsUnderlying()
	default:
		return true
	}
}

func (f TokenFilter) String() string {
	switch f {
	case SuperTokens:
		return "--super"
	case UnderlyingTokens:
		return "--underlying"
	default:
		return ""
	}
}

// Token finds one token on chainID by address or symbol. An address match
// wins over a symbol match.
func Token(tokens []model.Token, chainID int64, query string, filter TokenFilter) (model.Token, error) {
	q := strings.TrimSpace(query)
	candidates := ByChain(tokens, chainID, filter)
	if common.IsHexAddress(q) {
		for _, t := range candidates {
			if strings.EqualFold(t.Address, q) {
				return t, nil
			}
		}
	}
	for _, t := range candidates {
		if strings.EqualFold(t.Symbol, q) {
			return t, nil
		}
	}
	kind := "token"
	if filter == SuperTokens {
		kind = "Super Token"
	}
	return model.Token{}, clierr.New(clierr.CodeUnknownToken, fmt.Sprintf("no %s found on chain %d matching %q", kind, chainID, query))
}

// Underlying is either the paired token record or a placeholder for an
// address the token list does not carry.
type Underlying struct {
	Token   *model.TokenSummary
	Address string
	Note    string
}

const NotInTokenList = "Not in token list"

func (u *Underlying) MarshalJSON() ([]byte, error) {
	if u.Token != nil {
		return json.Marshal(u.Token)
	}
	return json.Marshal(struct {
		Address string `json:"address"`
		Note    string `json:"note"`
	}{u.Address, u.Note})
}

type SuperTokenPair struct {
	SuperToken model.TokenSummary `json:"superToken"`
	Underlying *Underlying        `json:"underlying"`
}

// SuperToken resolves a super token and pairs it with its underlying token.
func SuperToken(tokens []model.Token, chainID int64, query string) (SuperTokenPair, error) {
	st, err := Token(tokens, chainID, query, SuperTokens)
	if err != nil {
		return SuperTokenPair{}, withListHint(err, chainID)
	}
	pair := SuperTokenPair{SuperToken: st.Summary()}
	info := st.SuperInfo()
	if info == nil || info.UnderlyingTokenAddress == "" {
		return pair, nil
	}
	for _, t := range ByChain(tokens, chainID, AllTokens) {
		if strings.EqualFold(t.Address, info.UnderlyingTokenAddress) {
			summary := t.Summary()
			pair.Underlying = &Underlying{Token: &summary}
			return pair, nil
		}
	}
	pair.Underlying = &Underlying{Address: info.UnderlyingTokenAddress, Note: NotInTokenList}
	return pair, nil
}

// ByAddress returns every listing of address across chains.
func ByAddress(tokens []model.Token, address string) ([]model.Token, error) {
	out := []model.Token{}
	for _, t := range tokens {
		if strings.EqualFold(t.Address, strings.TrimSpace(address)) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, clierr.New(clierr.CodeUnknownToken, fmt.Sprintf("no token found with address %s", address))
	}
	return out, nil
}

func ByChain(tokens []model.Token, chainID int64, filter TokenFilter) []model.Token {
	out := []model.Token{}
	for _, t := range tokens {
		if t.ChainID == chainID && filter.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// ListChain is ByChain for user-facing listings, where no match is an error.
func ListChain(tokens []model.Token, chainID int64, filter TokenFilter) ([]model.Token, error) {
	out := ByChain(tokens, chainID, filter)
	if len(out) == 0 {
		msg := fmt.Sprintf("no tokens found on chain %d", chainID)
		if filter != AllTokens {
			msg += " with filter " + filter.String()
		}
		return nil, clierr.New(clierr.CodeUnknownToken, msg)
	}
	return out, nil
}

// BySymbol matches symbol case-insensitively; chainID 0 means any chain.
func BySymbol(tokens []model.Token, symbol string, chainID int64) ([]model.Token, error) {
	out := []model.Token{}
	for _, t := range tokens {
		if !strings.EqualFold(t.Symbol, strings.TrimSpace(symbol)) {
			continue
		}
		if chainID != 0 && t.ChainID != chainID {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, clierr.New(clierr.CodeUnknownToken, fmt.Sprintf("no token found with symbol %q", symbol))
	}
	return out, nil
}

func Summaries(tokens []model.Token) []model.TokenSummary {
	out := make([]model.TokenSummary, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Summary())
	}
	return out
}

type ChainStats struct {
	ChainID     int64 `json:"chainId"`
	Total       int   `json:"total"`
	SuperTokens int   `json:"superTokens"`
	Underlying  int   `json:"underlying"`
}

type TokenStats struct {
	TotalTokens      int          `json:"totalTokens"`
	SuperTokens      int          `json:"superTokens"`
	UnderlyingTokens int          `json:"underlyingTokens"`
	Chains           []ChainStats `json:"chains"`
}

func Stats(tokens []model.Token) TokenStats {
	stats := TokenStats{TotalTokens: len(tokens), Chains: []ChainStats{}}
	perChain := map[int64]*ChainStats{}
	for _, t := range tokens {
		cs, ok := perChain[t.ChainID]
		if !ok {
			cs = &ChainStats{ChainID: t.ChainID}
			perChain[t.ChainID] = cs
		}
		cs.Total++
		if t.IsSuperToken() {
			stats.SuperTokens++
			cs.SuperTokens++
		}
		if t.IsUnderlying() {
			stats.UnderlyingTokens++
			cs.Underlying++
		}
	}
	for _, cs := range perChain {
		stats.Chains = append(stats.Chains, *cs)
	}
	sort.Slice(stats.Chains, func(i, j int) bool { return stats.Chains[i].ChainID < stats.Chains[j].ChainID })
	return stats
}

// withListHint points at the listing command for the chain's super tokens.
func withListHint(err error, chainID int64) error {
	if cErr, ok := clierr.As(err); ok {
		cErr.WithHints(fmt.Sprintf(`Use "superfluid tokenlist by-chain %d --super" to see available tokens.`, chainID))
	}
	return err
}

// BalanceToken resolves the token argument of a balance query. Symbols must
// name a listed super token; addresses are used as given and only enriched
// with metadata when listed.
func BalanceToken(tokens []model.Token, chainID int64, query string) (address string, meta *model.Token, err error) {
	q := strings.TrimSpace(query)
	if !strings.HasPrefix(q, "0x") {
		t, err := Token(tokens, chainID, q, SuperTokens)
		if err != nil {
			return "", nil, withListHint(err, chainID)
		}
		return t.Address, &t, nil
	}
	if !common.IsHexAddress(q) {
		return "", nil, clierr.New(clierr.CodeMalformedInput, fmt.Sprintf("invalid token address %q", query))
	}
	if t, err := Token(tokens, chainID, q, SuperTokens); err == nil {
		return q, &t, nil
	}
	return q, nil, nil
}
