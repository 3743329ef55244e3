package registry

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultABIBaseURL        = "https://cdn.jsdelivr.net/npm/@sfpro/sdk/dist/abi"
	DefaultNetworksURL       = "https://cdn.jsdelivr.net/npm/@superfluid-finance/metadata/networks.json"
	DefaultTokenListURL      = "https://cdn.jsdelivr.net/npm/@superfluid-finance/tokenlist/dist/superfluid.extended.tokenlist.json"
	DefaultBalanceAPIURL     = "https://superapi.kazpi.com/super-token-balance"
	DefaultSubgraphEndpoints = "https://subgraph-endpoints.superfluid.dev"
)

// ABIModuleURL locates the bundle for a module family. ext is "js" for the
// published ES modules or "json" for a pure-data mirror.
func ABIModuleURL(base, module, ext string) string {
	base = strings.TrimRight(base, "/")
	if module == ModuleMain {
		return fmt.Sprintf("%s/generated.%s", base, ext)
	}
	return fmt.Sprintf("%s/%s/generated.%s", base, module, ext)
}

// ABICacheKey names the cache file for a module family.
func ABICacheKey(module, ext string) string {
	if ext == "js" {
		ext = "mjs"
	}
	return fmt.Sprintf("abi-%s.%s", module, ext)
}

// SubgraphURL builds the hosted subgraph endpoint for a network and subgraph.
func SubgraphURL(base, network, subgraph string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), url.PathEscape(network), subgraph)
}
