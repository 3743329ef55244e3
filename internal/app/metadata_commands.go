package app

import (
	"github.com/spf13/cobra"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/model"
	"github.com/ggonzalez94/superfluid-cli/internal/registry"
	"github.com/ggonzalez94/superfluid-cli/internal/resolve"
)

func (s *runtimeState) newMetadataCommand() *cobra.Command {
	root := newGroupCommand("metadata", "Network metadata: chains, contract addresses, subgraphs")

	var mainnets, testnets bool
	networks := &cobra.Command{
		Use:   "networks",
		Short: "List all networks (summary)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := resolve.AllNetworks
			switch {
			case mainnets:
				filter = resolve.Mainnets
			case testnets:
				filter = resolve.Testnets
			}
			list, err := s.loadNetworks(cmd.Context())
			if err != nil {
				return err
			}
			items := []model.NetworkSummary{}
			for _, n := range resolve.FilterNetworks(list, filter) {
				items = append(items, n.Summary())
			}
			return s.emitSuccess(cmd, items)
		},
	}
	networks.Flags().BoolVar(&mainnets, "mainnets", false, "Only mainnets")
	networks.Flags().BoolVar(&testnets, "testnets", false, "Only testnets")
	networks.MarkFlagsMutuallyExclusive("mainnets", "testnets")
	root.AddCommand(networks)

	root.AddCommand(&cobra.Command{
		Use:     "network <chain-id-or-name>",
		Short:   "Full metadata for a network",
		Example: "  superfluid metadata network 10\n  superfluid metadata network base-mainnet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := s.network(cmd, args[0])
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, n)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "contracts <chain-id-or-name>",
		Short: "All contract addresses for a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := s.network(cmd, args[0])
			if err != nil {
				return err
			}
			data := networkHeader(n)
			if n.NativeTokenWrapper != "" {
				data.set("nativeTokenWrapper", n.NativeTokenWrapper)
			}
			return s.emitSuccess(cmd, data.merge(n.ContractsV1))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:     "contract <chain-id-or-name> <key>",
		Short:   "Single contract address",
		Example: "  superfluid metadata contract optimism-mainnet host",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := s.network(cmd, args[0])
			if err != nil {
				return err
			}
			addr, err := resolve.ContractAddress(n, args[1])
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, networkHeader(n).set(args[1], addr))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "subgraph <chain-id-or-name>",
		Short: "Subgraph endpoint info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := s.network(cmd, args[0])
			if err != nil {
				return err
			}
			data := networkHeader(n).
				set("protocol", registry.SubgraphURL(s.settings.SubgraphBaseURL, n.Name, "protocol-v1")).
				set("subgraphV1", n.SubgraphV1)
			return s.emitSuccess(cmd, data)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "automation <chain-id-or-name>",
		Short: "Automation contracts and subgraphs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := s.network(cmd, args[0])
			if err != nil {
				return err
			}
			base := s.settings.SubgraphBaseURL
			data := networkHeader(n).
				set("vestingScheduler", optionalAddress(n, "vestingScheduler")).
				set("flowScheduler", optionalAddress(n, "flowScheduler")).
				set("autowrap", n.Autowrap).
				set("subgraphs", newObject().
					set("vestingScheduler", registry.SubgraphURL(base, n.Name, "vesting-scheduler")).
					set("flowScheduler", registry.SubgraphURL(base, n.Name, "flow-scheduler")).
					set("autoWrap", registry.SubgraphURL(base, n.Name, "auto-wrap")))
			return s.emitSuccess(cmd, data)
		},
	})

	return root
}

func (s *runtimeState) network(cmd *cobra.Command, query string) (model.Network, error) {
	if query == "" {
		return model.Network{}, clierr.New(clierr.CodeMalformedInput, "network is required")
	}
	list, err := s.loadNetworks(cmd.Context())
	if err != nil {
		return model.Network{}, err
	}
	return resolve.Network(list, query)
}

func networkHeader(n model.Network) *object {
	return newObject().set("network", n.Name).set("chainId", n.ChainID)
}

// optionalAddress yields nil rather than an empty string for a missing role.
func optionalAddress(n model.Network, key string) any {
	if addr, ok := n.ContractAddress(key); ok {
		return addr
	}
	return nil
}
