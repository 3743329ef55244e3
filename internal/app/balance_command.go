package app

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/format"
	"github.com/ggonzalez94/superfluid-cli/internal/model"
	"github.com/ggonzalez94/superfluid-cli/internal/resolve"
)

type balanceResult struct {
	Chain           any               `json:"chain"`
	Account         string            `json:"account"`
	SuperToken      superTokenMeta    `json:"superToken"`
	Balance         balancePair       `json:"balance"`
	NetFlow         *format.FlowRate  `json:"netFlow"`
	Timestamp       *format.Timestamp `json:"timestamp"`
	MaybeCriticalAt *format.Timestamp `json:"maybeCriticalAt"`
	UnderlyingToken *underlyingResult `json:"underlyingToken"`
}

type superTokenMeta struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol,omitempty"`
	Name     string `json:"name,omitempty"`
	Decimals *int   `json:"decimals,omitempty"`
	Type     string `json:"type,omitempty"`
}

type balancePair struct {
	Connected   *format.Amount `json:"connected"`
	Unconnected *format.Amount `json:"unconnected"`
}

type underlyingResult struct {
	Address  string         `json:"address"`
	Decimals *int           `json:"decimals,omitempty"`
	Balance  *format.Amount `json:"balance"`
}

func (s *runtimeState) newBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <chain-id> <token-symbol-or-address> <account>",
		Short: "Real-time Super Token balance",
		Long: "Query the Super API for an account's real-time Super Token balance, net flow\n" +
			"and critical date. Symbols are resolved to Super Tokens via the token list.",
		Example: "  superfluid balance 8453 USDCx 0xYourAddress\n" +
			"  superfluid balance 10 0x1efF3Dd78F4A14aBfa9Fa66579bD3Ce9E1B30529 0xYourAddress",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := parseChainID(args[0])
			if err != nil {
				return err
			}
			account := args[2]
			if !common.IsHexAddress(account) {
				return clierr.New(clierr.CodeMalformedInput, fmt.Sprintf("invalid account address %q", account))
			}
			tokens, err := s.loadTokens(cmd.Context())
			if err != nil {
				return err
			}
			tokenAddress, meta, err := resolve.BalanceToken(tokens, chainID, args[1])
			if err != nil {
				return err
			}
			s.logger.Debug("querying balance",
				zap.Int64("chain_id", chainID),
				zap.String("token", tokenAddress),
				zap.Bool("listed", meta != nil),
			)
			snapshot, err := s.balances.Balance(cmd.Context(), chainID, tokenAddress, account)
			if err != nil {
				return err
			}
			result, err := s.formatBalance(snapshot, meta)
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, result)
		},
	}
}

func (s *runtimeState) formatBalance(snap model.BalanceSnapshot, meta *model.Token) (balanceResult, error) {
	decimals := s.formatter.DefaultDecimals
	superToken := superTokenMeta{Address: snap.Token}
	if meta != nil {
		decimals = meta.Decimals
		d := meta.Decimals
		superToken.Symbol = meta.Symbol
		superToken.Name = meta.Name
		superToken.Decimals = &d
		if info := meta.SuperInfo(); info != nil {
			superToken.Type = info.Type
		}
	}

	var err error
	result := balanceResult{Chain: snap.Chain, Account: snap.Account, SuperToken: superToken}
	if result.Balance.Connected, err = s.formatter.Amount(numberString(snap.ConnectedBalance), decimals); err != nil {
		return balanceResult{}, err
	}
	if result.Balance.Unconnected, err = s.formatter.Amount(numberString(snap.UnconnectedBalance), decimals); err != nil {
		return balanceResult{}, err
	}
	if result.NetFlow, err = s.formatter.FlowRate(numberString(snap.ConnectedNetFlow), decimals); err != nil {
		return balanceResult{}, err
	}
	if result.Timestamp, err = format.FormatTimestamp(numberString(snap.Timestamp)); err != nil {
		return balanceResult{}, err
	}
	if result.MaybeCriticalAt, err = format.FormatTimestamp(numberString(snap.MaybeCriticalAt)); err != nil {
		return balanceResult{}, err
	}

	if u := snap.UnderlyingToken; u != nil {
		underlyingDecimals := s.formatter.DefaultDecimals
		if u.Decimals != nil {
			underlyingDecimals = *u.Decimals
		}
		balance, err := s.formatter.Amount(numberString(u.Balance), underlyingDecimals)
		if err != nil {
			return balanceResult{}, err
		}
		result.UnderlyingToken = &underlyingResult{Address: u.Address, Decimals: u.Decimals, Balance: balance}
	}
	return result, nil
}

func numberString(n *json.Number) string {
	if n == nil {
		return ""
	}
	return n.String()
}
