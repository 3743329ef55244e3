// Package resolve maps user-supplied identifiers onto records of explicitly
// passed datasets. Functions here never fetch; callers load the dataset first.
package resolve

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/registry"
)

const maxSuggestions = 3

// Contract resolves a canonical name or alias, case-insensitively.
func Contract(query string) (registry.Contract, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return registry.Contract{}, clierr.New(clierr.CodeMalformedInput, "contract name is required")
	}
	for _, c := range registry.Contracts() {
		if strings.EqualFold(c.Name, q) {
			return c, nil
		}
	}
	if name, ok := registry.Alias(strings.ToLower(q)); ok {
		c, _ := registry.ContractByName(name)
		return c, nil
	}
	if name, reason, ok := registry.Unsupported(q); ok {
		return registry.Contract{}, clierr.New(
			clierr.CodeUnknownContract,
			fmt.Sprintf("%s is not available in @sfpro/sdk (%s)", name, reason),
		).WithHints(fmt.Sprintf("Refer to the Rich ABI YAML: references/contracts/%s.rich-abi.yaml", name))
	}

	err := clierr.New(clierr.CodeUnknownContract, fmt.Sprintf("unknown contract %q", query))
	if suggestions := suggestContracts(q); len(suggestions) > 0 {
		err.WithHints("Did you mean: " + strings.Join(suggestions, ", ") + "?")
	}
	return registry.Contract{}, err.WithHints(`Run "superfluid abi list" to see available contracts.`)
}

func suggestContracts(query string) []string {
	candidates := make([]string, 0, len(registry.Contracts()))
	for _, c := range registry.Contracts() {
		candidates = append(candidates, c.Name)
	}
	// Aliases are matched against the lowered query but reported by canonical name.
	aliasNames := registry.AliasNames()

	seen := map[string]bool{}
	out := []string{}
	add := func(name string) {
		if !seen[name] && len(out) < maxSuggestions {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, m := range fuzzy.Find(query, candidates) {
		add(m.Str)
	}
	for _, m := range fuzzy.Find(strings.ToLower(query), aliasNames) {
		name, _ := registry.Alias(m.Str)
		add(name)
	}
	return out
}
