package biz

import (
	"context"
	"strings"
	"sync"

	"github.com/micropay-labs/api-gateway/internal/gateway/shaper"
	"github.com/micropay-labs/api-gateway/internal/gateway/types"
	"github.com/micropay-labs/api-gateway/internal/pkg/logger"
	"go.uber.org/zap"
)

// DefaultSearchCount is used when the caller omits or mangles count.
const DefaultSearchCount = 5

// Upstream abstracts the outbound calls so handlers can be tested
// against a stub.
type Upstream interface {
	Search(ctx context.Context, query string, count int) ([]byte, error)
	FetchPage(ctx context.Context, target string) (string, error)
	Repo(ctx context.Context, repo string) ([]byte, error)
	Languages(ctx context.Context, repo string) ([]byte, error)
	RecentCommits(ctx context.Context, repo string) ([]byte, error)
}

// GatewayUseCase orchestrates upstream calls and response shaping.
type GatewayUseCase struct {
	upstream Upstream
	logger   *logger.Logger
}

// NewGatewayUseCase creates a gateway use case.
func NewGatewayUseCase(upstream Upstream, logger *logger.Logger) *GatewayUseCase {
	return &GatewayUseCase{
		upstream: upstream,
		logger:   logger,
	}
}

// Search proxies a web search and shapes the provider's reply.
func (uc *GatewayUseCase) Search(ctx context.Context, query string, count int) (types.SearchResponse, error) {
	if count <= 0 {
		count = DefaultSearchCount
	}

	raw, err := uc.upstream.Search(ctx, query, count)
	if err != nil {
		return types.SearchResponse{}, err
	}

	return shaper.ShapeSearch(raw, query), nil
}

// Fetch retrieves the target URL and shapes its text content.
func (uc *GatewayUseCase) Fetch(ctx context.Context, target string) (types.ExtractedPage, error) {
	raw, err := uc.upstream.FetchPage(ctx, target)
	if err != nil {
		return types.ExtractedPage{}, err
	}

	return shaper.ShapeExtract(target, raw), nil
}

// Analyze runs the three GitHub sub-calls concurrently and merges them.
// The sub-calls are independent: a network-level failure of any one
// fails the request, while an error-shaped body flows into the shaper
// untouched.
func (uc *GatewayUseCase) Analyze(ctx context.Context, repo string) (types.RepoAnalysis, error) {
	if err := validateRepo(repo); err != nil {
		return types.RepoAnalysis{}, err
	}

	var (
		wg         sync.WaitGroup
		repoRaw    []byte
		langRaw    []byte
		commitsRaw []byte
		repoErr    error
		langErr    error
		commitsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		repoRaw, repoErr = uc.upstream.Repo(ctx, repo)
	}()
	go func() {
		defer wg.Done()
		langRaw, langErr = uc.upstream.Languages(ctx, repo)
	}()
	go func() {
		defer wg.Done()
		commitsRaw, commitsErr = uc.upstream.RecentCommits(ctx, repo)
	}()
	wg.Wait()

	for _, err := range []error{repoErr, langErr, commitsErr} {
		if err != nil {
			uc.logger.Warn("github sub-call failed",
				zap.String("repo", repo),
				zap.Error(err))
			return types.RepoAnalysis{}, err
		}
	}

	return shaper.ShapeRepoAnalysis(repoRaw, langRaw, commitsRaw)
}

func validateRepo(repo string) error {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return types.ErrBadRepoFormat
	}
	return nil
}
