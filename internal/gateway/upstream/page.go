package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/micropay-labs/api-gateway/internal/gateway/types"
)

// FetchPage retrieves the target URL as raw text, regardless of content
// type. The URL is fetched exactly as supplied; there is no scheme or
// private-network validation (known gap, kept deliberately).
func (c *Client) FetchPage(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &types.UpstreamError{
			Target:  types.TargetPage,
			Code:    "BAD_URL",
			Message: "invalid target URL",
			Err:     err,
		}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &types.UpstreamError{
			Target:  types.TargetPage,
			Code:    "REQUEST_FAILED",
			Message: "failed to fetch target URL",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &types.UpstreamError{
			Target:  types.TargetPage,
			Code:    "READ_FAILED",
			Message: "failed to read page body",
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &types.UpstreamError{
			Target:  types.TargetPage,
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: fmt.Sprintf("target returned %s", resp.Status),
		}
	}

	return string(body), nil
}
