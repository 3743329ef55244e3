package app

import (
	"github.com/spf13/cobra"

	"github.com/ggonzalez94/superfluid-cli/internal/registry"
	"github.com/ggonzalez94/superfluid-cli/internal/resolve"
)

type contractListing struct {
	Contract  string `json:"contract"`
	SDKImport string `json:"sdkImport"`
	SDKExport string `json:"sdkExport"`
}

type contractABI struct {
	contractListing
	ABI resolve.ABI `json:"abi"`
}

type contractSelectors struct {
	Contract  string             `json:"contract"`
	Selectors []resolve.Selector `json:"selectors"`
}

func listing(c registry.Contract) contractListing {
	return contractListing{Contract: c.Name, SDKImport: c.SDKImport(), SDKExport: c.Export}
}

func (s *runtimeState) newABICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abi <contract> [fragment]",
		Short: "Contract ABIs from @sfpro/sdk",
		Long: "Print the JSON ABI of a Superfluid contract, or the fragments of one\n" +
			"function, event or error. Contract and fragment names are case-insensitive\n" +
			"and contracts accept short aliases (cfa, gda, host, ...).",
		Example: "  superfluid abi CFAv1Forwarder\n" +
			"  superfluid abi cfa createFlow\n" +
			"  superfluid abi list",
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			c, err := resolve.Contract(args[0])
			if err != nil {
				return err
			}
			abi, err := s.loadABI(cmd.Context(), c)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				fragment, err := resolve.Fragment(abi, c.Name, args[1])
				if err != nil {
					return err
				}
				return s.emitSuccess(cmd, fragment)
			}
			return s.emitSuccess(cmd, contractABI{contractListing: listing(c), ABI: abi})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List available contracts with SDK import info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := []contractListing{}
			for _, c := range registry.Contracts() {
				items = append(items, listing(c))
			}
			return s.emitSuccess(cmd, items)
		},
	}

	aliases := &cobra.Command{
		Use:   "aliases",
		Short: "List contract name aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := newObject()
			for _, alias := range registry.AliasNames() {
				name, _ := registry.Alias(alias)
				data.set(alias, name)
			}
			return s.emitSuccess(cmd, data)
		},
	}

	selectors := &cobra.Command{
		Use:   "selectors <contract>",
		Short: "Function selectors, event topics and error selectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolve.Contract(args[0])
			if err != nil {
				return err
			}
			abi, err := s.loadABI(cmd.Context(), c)
			if err != nil {
				return err
			}
			items, err := resolve.Selectors(abi)
			if err != nil {
				return err
			}
			return s.emitSuccess(cmd, contractSelectors{Contract: c.Name, Selectors: items})
		},
	}

	cmd.AddCommand(list, aliases, selectors)
	return cmd
}
