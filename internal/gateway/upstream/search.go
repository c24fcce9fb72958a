package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/micropay-labs/api-gateway/internal/gateway/types"
	"github.com/tidwall/gjson"
)

// Search queries the web search provider and returns the raw JSON body.
// A missing API key is not validated client-side: the request goes out
// anyway and the provider's rejection surfaces as an upstream error.
func (c *Client) Search(ctx context.Context, query string, count int) ([]byte, error) {
	searchURL, err := url.Parse(c.cfg.SearchHost + "/res/v1/web/search")
	if err != nil {
		return nil, &types.UpstreamError{
			Target:  types.TargetSearch,
			Code:    "BAD_HOST",
			Message: "invalid search host",
			Err:     err,
		}
	}

	values := searchURL.Query()
	values.Set("q", query)
	values.Set("count", strconv.Itoa(count))
	searchURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.cfg.SearchAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{
			Target:  types.TargetSearch,
			Code:    "REQUEST_FAILED",
			Message: "failed to reach search provider",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.UpstreamError{
			Target:  types.TargetSearch,
			Code:    "READ_FAILED",
			Message: "failed to read search response",
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.UpstreamError{
			Target:  types.TargetSearch,
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: string(body),
		}
	}

	if !gjson.ValidBytes(body) {
		return nil, &types.UpstreamError{
			Target:  types.TargetSearch,
			Code:    "INVALID_RESPONSE",
			Message: "search provider returned a non-JSON body",
			Err:     types.ErrNotJSON,
		}
	}

	return body, nil
}
