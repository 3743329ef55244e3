// Package jsmodule evaluates ES module payloads (the ABI bundles published on
// the CDN) inside an isolated goja runtime and returns their exports as JSON.
// The runtime has no require, filesystem, network or process bindings.
package jsmodule

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"
)

const DefaultBudget = 5 * time.Second

var (
	identPattern      = `[A-Za-z_$][\w$]*`
	exportDeclPattern = regexp.MustCompile(`\bexport\s+(?:const|let|var)\s+(` + identPattern + `)`)
	exportListPattern = regexp.MustCompile(`\bexport\s*\{([^}]*)\}\s*;?`)
	exportDefault     = regexp.MustCompile(`\bexport\s+default\s+`)
	importPattern     = regexp.MustCompile(`(?m)^\s*import\s*[\w${*"']`)
	validIdent        = regexp.MustCompile(`^` + identPattern + `$`)
)

const defaultBinding = "__module_default__"

type Loader struct {
	budget time.Duration
}

func New() *Loader {
	return &Loader{budget: DefaultBudget}
}

// Load evaluates src and returns every JSON-serializable export keyed by its
// exported name. Exports that serialize to undefined (functions) are skipped.
func (l *Loader) Load(src []byte) (map[string]json.RawMessage, error) {
	script, bindings, err := rewrite(string(src))
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return nil, fmt.Errorf("module has no exports")
	}

	vm := goja.New()
	timer := time.AfterFunc(l.budget, func() {
		vm.Interrupt("module evaluation exceeded time budget")
	})
	defer timer.Stop()

	if _, err := vm.RunScript("module.js", script); err != nil {
		return nil, fmt.Errorf("evaluate module: %w", err)
	}

	stringify, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		return nil, fmt.Errorf("JSON.stringify unavailable in module runtime")
	}

	out := make(map[string]json.RawMessage, len(bindings))
	for exported, local := range bindings {
		value, err := vm.RunString(local)
		if err != nil {
			return nil, fmt.Errorf("read export %s: %w", exported, err)
		}
		encoded, err := stringify(goja.Undefined(), value)
		if err != nil {
			return nil, fmt.Errorf("serialize export %s: %w", exported, err)
		}
		if encoded == nil || goja.IsUndefined(encoded) || goja.IsNull(encoded) {
			continue
		}
		out[exported] = json.RawMessage(encoded.String())
	}
	return out, nil
}

// rewrite turns module syntax into a plain script and returns the
// exported-name -> local-binding map.
func rewrite(src string) (string, map[string]string, error) {
	if importPattern.MatchString(src) {
		return "", nil, fmt.Errorf("module imports are not supported")
	}
	bindings := map[string]string{}

	for _, m := range exportDeclPattern.FindAllStringSubmatch(src, -1) {
		bindings[m[1]] = m[1]
	}
	src = exportDeclPattern.ReplaceAllString(src, "var $1")

	var listErr error
	src = exportListPattern.ReplaceAllStringFunc(src, func(stmt string) string {
		inner := exportListPattern.FindStringSubmatch(stmt)[1]
		for _, item := range strings.Split(inner, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			local, exported := item, item
			if parts := strings.Fields(item); len(parts) == 3 && parts[1] == "as" {
				local, exported = parts[0], parts[2]
			}
			if !validIdent.MatchString(local) || !validIdent.MatchString(exported) {
				listErr = fmt.Errorf("unsupported export clause %q", item)
				continue
			}
			bindings[exported] = local
		}
		return ""
	})
	if listErr != nil {
		return "", nil, listErr
	}

	if exportDefault.MatchString(src) {
		src = exportDefault.ReplaceAllString(src, "var "+defaultBinding+" = ")
		bindings["default"] = defaultBinding
	}
	return src, bindings, nil
}
