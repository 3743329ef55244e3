package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

// ABI keeps each entry verbatim so key order survives re-encoding.
type ABI []json.RawMessage

type fragmentHeader struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

func header(entry json.RawMessage) fragmentHeader {
	var h fragmentHeader
	_ = json.Unmarshal(entry, &h)
	return h
}

// NamedEntries counts distinct non-empty entry names.
func (a ABI) NamedEntries() int {
	seen := map[string]bool{}
	for _, entry := range a {
		if name := header(entry).Name; name != "" {
			seen[name] = true
		}
	}
	return len(seen)
}

// Fragment returns the single entry named name, or every entry when the name
// is overloaded. The result is a json.RawMessage or a []json.RawMessage.
func Fragment(a ABI, contract, name string) (any, error) {
	matches := []json.RawMessage{}
	for _, entry := range a {
		if strings.EqualFold(header(entry).Name, name) {
			matches = append(matches, entry)
		}
	}
	switch len(matches) {
	case 0:
		return nil, clierr.New(clierr.CodeUnknownFragment, fmt.Sprintf("no ABI entry named %q in %s", name, contract)).
			WithHints(fmt.Sprintf("Names are case-insensitive. The ABI has %d named entries.", a.NamedEntries()))
	case 1:
		return matches[0], nil
	default:
		return matches, nil
	}
}

type Selector struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Selector  string `json:"selector"`
}

// Selectors lists function selectors, event topics and error selectors in
// ABI order. Overloads appear once per signature.
func Selectors(a ABI) ([]Selector, error) {
	out := []Selector{}
	for _, entry := range a {
		h := header(entry)
		if h.Name == "" {
			continue
		}
		parsed, err := abi.JSON(strings.NewReader("[" + string(entry) + "]"))
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeInternal, fmt.Sprintf("parse abi entry %q", h.Name), err)
		}
		for _, m := range parsed.Methods {
			out = append(out, Selector{Type: "function", Name: m.RawName, Signature: m.Sig, Selector: hexutil.Encode(m.ID)})
		}
		for _, ev := range parsed.Events {
			out = append(out, Selector{Type: "event", Name: ev.RawName, Signature: ev.Sig, Selector: ev.ID.Hex()})
		}
		for _, e := range parsed.Errors {
			out = append(out, Selector{Type: "error", Name: e.Name, Signature: e.Sig, Selector: hexutil.Encode(e.ID[:4])})
		}
	}
	return out, nil
}
