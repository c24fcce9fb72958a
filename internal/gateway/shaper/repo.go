package shaper

import (
	"strings"

	"github.com/micropay-labs/api-gateway/internal/gateway/types"
	"github.com/tidwall/gjson"
)

const shortSHALen = 7

// ShapeRepoAnalysis merges the three raw GitHub bodies into one analysis.
// Metadata and language fields are read leniently: absent fields become
// zero values, so an error-shaped body (e.g. {"message":"Not Found"})
// produces an empty section rather than a failure. Only a commits body
// that is not a JSON array fails the whole analysis.
func ShapeRepoAnalysis(repoRaw, langRaw, commitsRaw []byte) (types.RepoAnalysis, error) {
	commits := gjson.ParseBytes(commitsRaw)
	if !commits.IsArray() {
		return types.RepoAnalysis{}, types.ErrCommitsNotList
	}

	entries := commits.Array()
	shaped := make([]types.CommitInfo, 0, len(entries))
	for _, entry := range entries {
		sha := entry.Get("sha").String()
		if len(sha) > shortSHALen {
			sha = sha[:shortSHALen]
		}
		message := entry.Get("commit.message").String()
		if i := strings.IndexByte(message, '\n'); i >= 0 {
			message = message[:i]
		}
		shaped = append(shaped, types.CommitInfo{
			SHA:     sha,
			Message: message,
			Author:  entry.Get("commit.author.name").String(),
			Date:    entry.Get("commit.author.date").String(),
		})
	}

	repo := gjson.ParseBytes(repoRaw)
	info := types.RepoInfo{
		Name:          repo.Get("name").String(),
		FullName:      repo.Get("full_name").String(),
		Description:   repo.Get("description").String(),
		Stars:         repo.Get("stargazers_count").Int(),
		Forks:         repo.Get("forks_count").Int(),
		OpenIssues:    repo.Get("open_issues_count").Int(),
		Watchers:      repo.Get("watchers_count").Int(),
		DefaultBranch: repo.Get("default_branch").String(),
		Language:      repo.Get("language").String(),
		CreatedAt:     repo.Get("created_at").String(),
		UpdatedAt:     repo.Get("updated_at").String(),
	}

	languages := make(map[string]int64)
	gjson.ParseBytes(langRaw).ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			languages[key.String()] = value.Int()
		}
		return true
	})

	return types.RepoAnalysis{
		Repo:          info,
		Languages:     languages,
		RecentCommits: shaped,
	}, nil
}
