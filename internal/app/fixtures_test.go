package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
)

const (
	testAccount = "0x1234567890abcdef1234567890abcdef12345678"
	testUSDCx   = "0x35CCe2A1F5C7d39c66d5b5f4e0b1Ec3B05C5AbCd"
	testUSDC    = "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"
)

const networksJSON = `[
 {"name":"optimism-mainnet","shortName":"optimism","chainId":10,"humanReadableName":"Optimism","isTestnet":false,"nativeTokenSymbol":"ETH","nativeTokenWrapper":"0x4ac8bD1bDaE47beeF2D1c6Aa62229509b962Aa0d","contractsV1":{"host":"0x567c4B141ED61923967cA25Ef4906C8781069a10","cfaV1":"0x204C6f131bb7F258b2Ea1593f5309911d8E458eD","vestingScheduler":"0x65377d4dfE9c01639A41952B5083D58964782892"},"subgraphV1":{"cliName":"optimism-mainnet"},"autowrap":{"manager":"0x1fA76f2Cd0C3fe6c399A80111408d9C42C0CAC23"}},
 {"name":"base-mainnet","shortName":"base","chainId":8453,"humanReadableName":"Base","isTestnet":false,"nativeTokenSymbol":"ETH","contractsV1":{"host":"0x4C073B3baB6d8826b8C5b229f3cfdC1eC6E47E74"}},
 {"name":"optimism-sepolia","shortName":"opsepolia","chainId":11155420,"humanReadableName":"Optimism Sepolia","isTestnet":true,"nativeTokenSymbol":"ETH","contractsV1":{}}
]`

const tokenListJSON = `{"name":"Superfluid Extended","tokens":[
 {"chainId":10,"address":"` + testUSDCx + `","name":"Super USD Coin","symbol":"USDCx","decimals":18,"tags":["supertoken"],"extensions":{"superTokenInfo":{"type":"Wrapper","underlyingTokenAddress":"` + testUSDC + `"}}},
 {"chainId":10,"address":"` + testUSDC + `","name":"USD Coin","symbol":"USDC","decimals":6,"tags":["underlying"]},
 {"chainId":8453,"address":"0xD04383398dD2426297da660F9CCA3d439AF9ce1b","name":"Super USD Coin","symbol":"USDCx","decimals":18,"tags":["supertoken"],"extensions":{"superTokenInfo":{"type":"Wrapper","underlyingTokenAddress":"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"}}}
]}`

const mainModuleJS = `const transferFragment = {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]};
export const superTokenAbi = [transferFragment, {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}];
const cfaForwarder = [
  {"type":"function","name":"createFlow","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"sender","type":"address"},{"name":"receiver","type":"address"},{"name":"flowrate","type":"int96"},{"name":"userData","type":"bytes"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"setFlowrate","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"receiver","type":"address"},{"name":"flowrate","type":"int96"}],"outputs":[{"name":"","type":"bool"}]}
];
export { cfaForwarder as cfaForwarderAbi };
export const gdaForwarderAbi = [];
`

const coreModuleJS = `export const cfaAbi = [{"type":"function","name":"getFlowrate","stateMutability":"view","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"int96"}]}];
export const hostAbi = [];
`

const balanceJSON = `{"chain":"optimism-mainnet","account":"` + testAccount + `","token":"` + testUSDCx + `",
 "connectedBalance":"1000000000000000000","unconnectedBalance":"0","connectedNetFlow":"-500000000000000",
 "timestamp":1700000000,"maybeCriticalAt":"0",
 "underlyingToken":{"address":"` + testUSDC + `","decimals":6,"balance":"2500000"}}`

type cdn struct {
	srv      *httptest.Server
	cacheDir string
	down     atomic.Bool
	hits     atomic.Int32
}

// newCDN serves every remote dataset and points the CLI at it through SF_*
// variables. Config and cache live under a fresh temp dir.
func newCDN(t *testing.T) *cdn {
	t.Helper()
	c := &cdn{}
	routes := map[string]struct {
		body        string
		contentType string
	}{
		"/networks.json":               {networksJSON, "application/json"},
		"/tokenlist.json":              {tokenListJSON, "application/json"},
		"/abi/generated.js":            {mainModuleJS, "application/javascript"},
		"/abi/core/generated.js":       {coreModuleJS, "application/javascript"},
		"/abi/automation/generated.js": {"export const flowSchedulerAbi = [];", "application/javascript"},
		"/balance":                     {balanceJSON, "application/json"},
	}
	c.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.hits.Add(1)
		if c.down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		route, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", route.contentType)
		_, _ = w.Write([]byte(route.body))
	}))
	t.Cleanup(c.srv.Close)

	tmp := t.TempDir()
	c.cacheDir = filepath.Join(tmp, "cache")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "xdg-cache"))
	t.Setenv("SF_CACHE_DIR", c.cacheDir)
	t.Setenv("SF_NETWORKS_URL", c.srv.URL+"/networks.json")
	t.Setenv("SF_TOKENLIST_URL", c.srv.URL+"/tokenlist.json")
	t.Setenv("SF_ABI_BASE_URL", c.srv.URL+"/abi")
	t.Setenv("SF_BALANCE_API_URL", c.srv.URL+"/balance")
	t.Setenv("SF_SUBGRAPH_BASE_URL", "https://subgraphs.test")
	return c
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := NewRunnerWithWriters(&stdout, &stderr).Run(args)
	return code, stdout.String(), stderr.String()
}
