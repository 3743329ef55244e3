package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ggonzalez94/superfluid-cli/internal/config"
	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/fetch"
	"github.com/ggonzalez94/superfluid-cli/internal/model"
	"github.com/ggonzalez94/superfluid-cli/internal/registry"
	"github.com/ggonzalez94/superfluid-cli/internal/resolve"
)

const (
	networksCacheKey  = "networks.json"
	tokenListCacheKey = "tokenlist.json"
)

// datasets holds what one invocation has loaded; each is fetched at most once.
type datasets struct {
	networks []model.Network
	tokens   []model.Token
	modules  map[string]map[string]json.RawMessage
}

func (s *runtimeState) networkSource() fetch.DataSource {
	return fetch.DataSource{Name: "network metadata", URL: s.settings.NetworksURL, CacheKey: networksCacheKey, Format: fetch.FormatJSON}
}

func (s *runtimeState) tokenListSource() fetch.DataSource {
	return fetch.DataSource{Name: "token list", URL: s.settings.TokenListURL, CacheKey: tokenListCacheKey, Format: fetch.FormatJSON}
}

func (s *runtimeState) abiSource(module string) fetch.DataSource {
	ext := s.settings.ABIFormat
	src := fetch.DataSource{
		Name:     fmt.Sprintf("ABI module %q", module),
		URL:      registry.ABIModuleURL(s.settings.ABIBaseURL, module, ext),
		CacheKey: registry.ABICacheKey(module, ext),
		Format:   fetch.FormatJSON,
	}
	if ext == config.ABIFormatModule {
		src.Format = fetch.FormatModule
	}
	return src
}

func (s *runtimeState) record(res fetch.Result) {
	s.sources = append(s.sources, model.SourceStatus{
		Name:      res.Source.Name,
		URL:       res.Source.URL,
		Origin:    string(res.Origin),
		LatencyMS: res.Latency.Milliseconds(),
	})
}

func (s *runtimeState) loadNetworks(ctx context.Context) ([]model.Network, error) {
	if s.data.networks != nil {
		return s.data.networks, nil
	}
	networks, res, err := fetch.Resolve(ctx, s.resolver, s.networkSource(), decodeNetworks)
	if err != nil {
		return nil, err
	}
	s.record(res)
	s.data.networks = networks
	return networks, nil
}

func (s *runtimeState) loadTokens(ctx context.Context) ([]model.Token, error) {
	if s.data.tokens != nil {
		return s.data.tokens, nil
	}
	tokens, res, err := fetch.Resolve(ctx, s.resolver, s.tokenListSource(), decodeTokens)
	if err != nil {
		return nil, err
	}
	s.record(res)
	s.data.tokens = tokens
	return tokens, nil
}

// loadABI returns the ABI exported for c by its module family.
func (s *runtimeState) loadABI(ctx context.Context, c registry.Contract) (resolve.ABI, error) {
	exports, ok := s.data.modules[c.Module]
	if !ok {
		var (
			res fetch.Result
			err error
		)
		exports, res, err = fetch.Resolve(ctx, s.resolver, s.abiSource(c.Module), fetch.JSON[map[string]json.RawMessage]())
		if err != nil {
			return nil, err
		}
		s.record(res)
		if s.data.modules == nil {
			s.data.modules = map[string]map[string]json.RawMessage{}
		}
		s.data.modules[c.Module] = exports
	}

	raw, ok := exports[c.Export]
	if !ok {
		return nil, clierr.New(clierr.CodeUnknownContract,
			fmt.Sprintf("export %q not found in SDK module %q", c.Export, c.SDKImport()))
	}
	var abi resolve.ABI
	if err := json.Unmarshal(raw, &abi); err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, fmt.Sprintf("export %q is not an ABI array", c.Export), err)
	}
	return abi, nil
}

func decodeNetworks(doc []byte) ([]model.Network, error) {
	var networks []model.Network
	if err := json.Unmarshal(doc, &networks); err != nil {
		return nil, err
	}
	if networks == nil {
		return nil, errors.New("network list is null")
	}
	return networks, nil
}

func decodeTokens(doc []byte) ([]model.Token, error) {
	var list model.TokenList
	if err := json.Unmarshal(doc, &list); err != nil {
		return nil, err
	}
	if list.Tokens == nil {
		return nil, errors.New("token list has no tokens array")
	}
	return list.Tokens, nil
}
