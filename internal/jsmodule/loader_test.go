package jsmodule

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

const generatedBundle = `
export const cfaForwarderAbi = [
  { type: 'function', name: 'createFlow', stateMutability: 'nonpayable', inputs: [{ name: 'token', internalType: 'contract ISuperToken', type: 'address' }], outputs: [{ name: '', internalType: 'bool', type: 'bool' }] },
  { type: 'event', name: 'FlowUpdated', inputs: [] },
];
export const superTokenAbi = [{ type: 'function', name: 'transfer', inputs: [], outputs: [] }];
//# sourceMappingURL=generated.js.map
`

func TestLoadExportConstDeclarations(t *testing.T) {
	exports, err := New().Load([]byte(generatedBundle))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	var abi []map[string]any
	if err := json.Unmarshal(exports["cfaForwarderAbi"], &abi); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(abi) != 2 || abi[0]["name"] != "createFlow" {
		t.Fatalf("unexpected abi: %#v", abi)
	}
	if !strings.HasPrefix(string(exports["cfaForwarderAbi"]), `[{"type":"function","name":"createFlow"`) {
		t.Fatalf("expected key order preserved, got %s", exports["cfaForwarderAbi"])
	}
}

func TestLoadExportList(t *testing.T) {
	src := `const a = [{name:"x"}]; const b = 1; function f() {}
export { a as hostAbi, b, f };`
	exports, err := New().Load([]byte(src))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(exports["hostAbi"]) != `[{"name":"x"}]` || string(exports["b"]) != "1" {
		t.Fatalf("unexpected exports: %v", exports)
	}
	if _, ok := exports["f"]; ok {
		t.Fatal("expected function export to be skipped")
	}
}

func TestLoadRejectsImportsAndEmptyModules(t *testing.T) {
	if _, err := New().Load([]byte(`import fs from "fs"; export const a = 1;`)); err == nil {
		t.Fatal("expected import to be rejected")
	}
	if _, err := New().Load([]byte(`const a = 1;`)); err == nil {
		t.Fatal("expected error for module without exports")
	}
	if _, err := New().Load([]byte(`<html>not found</html>`)); err == nil {
		t.Fatal("expected error for non-module payload")
	}
}

func TestLoadHasNoHostBindings(t *testing.T) {
	if _, err := New().Load([]byte(`export const a = require("fs");`)); err == nil {
		t.Fatal("expected require to be undefined in the sandbox")
	}
}

func TestLoadInterruptsRunawayModule(t *testing.T) {
	l := &Loader{budget: 50 * time.Millisecond}
	if _, err := l.Load([]byte(`while (true) {} export const a = 1;`)); err == nil {
		t.Fatal("expected runaway module to be interrupted")
	}
}
