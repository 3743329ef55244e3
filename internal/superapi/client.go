// Package superapi queries the real-time super token balance endpoint.
package superapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
	"github.com/ggonzalez94/superfluid-cli/internal/httpx"
	"github.com/ggonzalez94/superfluid-cli/internal/model"
)

type Client struct {
	http    *httpx.Client
	baseURL string
}

func New(httpClient *httpx.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: baseURL}
}

// URL builds the request locator for one (chain, token, account) triple.
func (c *Client) URL(chainID int64, token, account string) string {
	params := url.Values{}
	params.Set("chain", strconv.FormatInt(chainID, 10))
	params.Set("token", token)
	params.Set("account", account)
	return c.baseURL + "?" + params.Encode()
}

// Balance fetches a fresh snapshot. Responses are never cached.
func (c *Client) Balance(ctx context.Context, chainID int64, token, account string) (model.BalanceSnapshot, error) {
	endpoint := c.URL(chainID, token, account)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.BalanceSnapshot{}, clierr.Wrap(clierr.CodeInternal, "build balance request", err)
	}

	var snapshot model.BalanceSnapshot
	if err := c.http.DoJSON(req, &snapshot); err != nil {
		var statusErr *httpx.StatusError
		if errors.As(err, &statusErr) {
			msg := fmt.Sprintf("Super API returned HTTP %d", statusErr.StatusCode)
			if body := statusErr.Excerpt(); body != "" {
				msg += ": " + body
			}
			return model.BalanceSnapshot{}, clierr.Wrap(clierr.CodeUpstreamHTTP, msg, nil).WithHints("URL: " + endpoint)
		}
		if cErr, ok := clierr.As(err); ok {
			return model.BalanceSnapshot{}, cErr.WithHints("URL: " + endpoint)
		}
		return model.BalanceSnapshot{}, clierr.Wrap(clierr.CodeUpstreamHTTP, "balance request failed", err).WithHints("URL: " + endpoint)
	}
	return snapshot, nil
}
