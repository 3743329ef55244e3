package app

import (
	"github.com/spf13/cobra"

	"github.com/ggonzalez94/superfluid-cli/internal/resolve"
)

func (s *runtimeState) newTokenListCommand() *cobra.Command {
	root := newGroupCommand("tokenlist", "Superfluid token list lookups")

	root.AddCommand(&cobra.Command{
		Use:     "by-address <address>",
		Short:   "Find token(s) by contract address across all chains",
		Example: "  superfluid tokenlist by-address 0x4ac8bD1bDaE47beeF2D1c6Aa62229509b962Aa0d",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := s.loadTokens(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := resolve.ByAddress(tokens, args[0])
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, resolve.Summaries(matches))
		},
	})

	var superOnly, underlyingOnly bool
	byChain := &cobra.Command{
		Use:     "by-chain <chain-id>",
		Short:   "List tokens on a network",
		Example: "  superfluid tokenlist by-chain 10 --super",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := parseChainID(args[0])
			if err != nil {
				return err
			}
			filter := resolve.AllTokens
			switch {
			case superOnly:
				filter = resolve.SuperTokens
			case underlyingOnly:
				filter = resolve.UnderlyingTokens
			}
			tokens, err := s.loadTokens(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := resolve.ListChain(tokens, chainID, filter)
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, resolve.Summaries(matches))
		},
	}
	byChain.Flags().BoolVar(&superOnly, "super", false, "Only Super Tokens")
	byChain.Flags().BoolVar(&underlyingOnly, "underlying", false, "Only underlying tokens")
	byChain.MarkFlagsMutuallyExclusive("super", "underlying")
	root.AddCommand(byChain)

	var symbolChain string
	bySymbol := &cobra.Command{
		Use:     "by-symbol <symbol>",
		Short:   "Find token(s) by symbol",
		Example: "  superfluid tokenlist by-symbol USDCx --chain-id 10",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var chainID int64
			if symbolChain != "" {
				id, err := parseChainID(symbolChain)
				if err != nil {
					return err
				}
				chainID = id
			}
			tokens, err := s.loadTokens(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := resolve.BySymbol(tokens, args[0], chainID)
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, resolve.Summaries(matches))
		},
	}
	bySymbol.Flags().StringVar(&symbolChain, "chain-id", "", "Restrict to one chain id")
	root.AddCommand(bySymbol)

	root.AddCommand(&cobra.Command{
		Use:     "super-token <chain-id> <symbol-or-address>",
		Short:   "Find a Super Token and its underlying token",
		Example: "  superfluid tokenlist super-token 10 USDCx",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := parseChainID(args[0])
			if err != nil {
				return err
			}
			tokens, err := s.loadTokens(cmd.Context())
			if err != nil {
				return err
			}
			pair, err := resolve.SuperToken(tokens, chainID, args[1])
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, pair)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Summary stats of the token list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := s.loadTokens(cmd.Context())
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, resolve.Stats(tokens))
		},
	})

	return root
}
