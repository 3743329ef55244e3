package policy

import (
	"fmt"
	"strings"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

// CheckCommandAllowed enforces the --enable-commands allow-list. An entry
// naming a group ("metadata") allows every command below it.
func CheckCommandAllowed(allowlist []string, commandPath string) error {
	if len(allowlist) == 0 {
		return nil
	}
	normPath := normalize(commandPath)
	for _, allowed := range allowlist {
		entry := normalize(allowed)
		if entry == "" {
			continue
		}
		if entry == normPath || strings.HasPrefix(normPath, entry+" ") {
			return nil
		}
	}
	return clierr.New(clierr.CodeBlocked, fmt.Sprintf("command %q blocked by --enable-commands policy", normPath)).
		WithHints("Allowed: " + strings.Join(allowlist, ", "))
}

func normalize(v string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(v)))
	return strings.Join(parts, " ")
}
