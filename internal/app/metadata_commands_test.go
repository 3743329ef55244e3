package app

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMetadataNetworks(t *testing.T) {
	newCDN(t)
	code, stdout, _ := run("metadata", "networks", "--testnets")
	if code != 0 {
		t.Fatalf("networks failed")
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(stdout), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0]["name"] != "optimism-sepolia" || items[0]["isTestnet"] != true {
		t.Fatalf("unexpected testnets %v", items)
	}
	if _, ok := items[0]["contractsV1"]; ok {
		t.Fatalf("expected summary fields only, got %v", items[0])
	}
}

func TestMetadataNetworkByIDOrName(t *testing.T) {
	newCDN(t)
	_, byID, _ := run("metadata", "network", "10")
	_, byName, _ := run("metadata", "network", "optimism-mainnet")
	if byID == "" || byID != byName {
		t.Fatalf("expected identical records:\n%s\n---\n%s", byID, byName)
	}
	if !strings.Contains(byID, `"subgraphV1"`) {
		t.Fatalf("expected full upstream record, got %s", byID)
	}
}

func TestMetadataContracts(t *testing.T) {
	newCDN(t)
	code, stdout, _ := run("metadata", "contracts", "optimism")
	if code != 0 {
		t.Fatalf("contracts failed")
	}
	want := "{\n  \"network\": \"optimism-mainnet\",\n  \"chainId\": 10,\n  \"nativeTokenWrapper\": \"0x4ac8bD1bDaE47beeF2D1c6Aa62229509b962Aa0d\",\n  \"cfaV1\":"
	if !strings.HasPrefix(stdout, want) {
		t.Fatalf("unexpected contracts output %s", stdout)
	}

	code, stdout, _ = run("metadata", "contract", "10", "nativeTokenWrapper")
	if code != 0 || !strings.Contains(stdout, `"nativeTokenWrapper": "0x4ac8bD1bDaE47beeF2D1c6Aa62229509b962Aa0d"`) {
		t.Fatalf("unexpected contract output %q", stdout)
	}

	code, _, stderr := run("metadata", "contract", "base-mainnet", "cfaV1")
	if code != 1 || !strings.Contains(stderr, "Available: host, nativeTokenWrapper") {
		t.Fatalf("expected unknown role diagnostic, stderr=%q", stderr)
	}
}

func TestMetadataSubgraphAndAutomation(t *testing.T) {
	newCDN(t)
	code, stdout, _ := run("metadata", "subgraph", "8453")
	if code != 0 {
		t.Fatalf("subgraph failed")
	}
	var sub map[string]any
	_ = json.Unmarshal([]byte(stdout), &sub)
	if sub["protocol"] != "https://subgraphs.test/base-mainnet/protocol-v1" || sub["subgraphV1"] != nil {
		t.Fatalf("unexpected subgraph output %v", sub)
	}

	code, stdout, _ = run("metadata", "automation", "10")
	if code != 0 {
		t.Fatalf("automation failed")
	}
	var auto struct {
		VestingScheduler any            `json:"vestingScheduler"`
		FlowScheduler    any            `json:"flowScheduler"`
		Autowrap         map[string]any `json:"autowrap"`
		Subgraphs        map[string]string
	}
	if err := json.Unmarshal([]byte(stdout), &auto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if auto.VestingScheduler != "0x65377d4dfE9c01639A41952B5083D58964782892" || auto.FlowScheduler != nil {
		t.Fatalf("unexpected schedulers %+v", auto)
	}
	if auto.Autowrap["manager"] == nil || auto.Subgraphs["autoWrap"] != "https://subgraphs.test/optimism-mainnet/auto-wrap" {
		t.Fatalf("unexpected automation output %s", stdout)
	}
}
