package resolve

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/model"
)

const nativeTokenWrapperKey = "nativeTokenWrapper"

type NetworkFilter int

const (
	AllNetworks NetworkFilter = iota
	Mainnets
	Testnets
)

// Network matches an integer query by chain id and anything else by name or
// short name.
func Network(networks []model.Network, query string) (model.Network, error) {
	q := strings.TrimSpace(query)
	if id, err := strconv.ParseInt(q, 10, 64); err == nil {
		for _, n := range networks {
			if n.ChainID == id {
				return n, nil
			}
		}
	} else {
		for _, n := range networks {
			if strings.EqualFold(n.Name, q) || (n.ShortName != "" && strings.EqualFold(n.ShortName, q)) {
				return n, nil
			}
		}
	}

	known := make([]string, 0, len(networks))
	for _, n := range networks {
		known = append(known, fmt.Sprintf("%s (%d)", n.Name, n.ChainID))
	}
	return model.Network{}, clierr.New(clierr.CodeUnknownNetwork, fmt.Sprintf("network not found for %q", query)).
		WithHints("Available: " + strings.Join(known, ", "))
}

func FilterNetworks(networks []model.Network, filter NetworkFilter) []model.Network {
	out := make([]model.Network, 0, len(networks))
	for _, n := range networks {
		switch {
		case filter == Mainnets && n.IsTestnet:
			continue
		case filter == Testnets && !n.IsTestnet:
			continue
		}
		out = append(out, n)
	}
	return out
}

// ContractAddress looks up a contract role on n. The nativeTokenWrapper role
// falls back to the network-level field.
func ContractAddress(n model.Network, key string) (string, error) {
	if addr, ok := n.ContractAddress(key); ok {
		return addr, nil
	}
	if key == nativeTokenWrapperKey && n.NativeTokenWrapper != "" {
		return n.NativeTokenWrapper, nil
	}
	keys := make([]string, 0, len(n.ContractsV1)+1)
	for k := range n.ContractsV1 {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	keys = append(keys, nativeTokenWrapperKey)
	return "", clierr.New(clierr.CodeUnknownContractRole, fmt.Sprintf("key %q not found on %s", key, n.Name)).
		WithHints("Available: " + strings.Join(keys, ", "))
}
