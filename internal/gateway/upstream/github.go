package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/micropay-labs/api-gateway/internal/gateway/types"
)

// Repo fetches repository metadata for "owner/name".
func (c *Client) Repo(ctx context.Context, repo string) ([]byte, error) {
	return c.github(ctx, fmt.Sprintf("%s/repos/%s", c.cfg.GitHubHost, repo))
}

// Languages fetches the language histogram for "owner/name".
func (c *Client) Languages(ctx context.Context, repo string) ([]byte, error) {
	return c.github(ctx, fmt.Sprintf("%s/repos/%s/languages", c.cfg.GitHubHost, repo))
}

// RecentCommits fetches the most recent commits for "owner/name".
func (c *Client) RecentCommits(ctx context.Context, repo string) ([]byte, error) {
	return c.github(ctx, fmt.Sprintf("%s/repos/%s/commits?per_page=%d", c.cfg.GitHubHost, repo, c.cfg.CommitLimit))
}

// github issues one unauthenticated GitHub REST call. The body is
// returned even on a non-2xx status: GitHub's error JSON (for example
// {"message":"Not Found"}) flows through to the shaper undistinguished
// from a valid result. Only network-level failures produce an error.
func (c *Client) github(ctx context.Context, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{
			Target:  types.TargetGitHub,
			Code:    "REQUEST_FAILED",
			Message: "failed to reach GitHub",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.UpstreamError{
			Target:  types.TargetGitHub,
			Code:    "READ_FAILED",
			Message: "failed to read GitHub response",
			Err:     err,
		}
	}

	return body, nil
}
