package types

// SearchResult represents a single shaped search result
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchResponse represents the public search reply
type SearchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// ExtractedPage represents the public fetch reply
type ExtractedPage struct {
	URL       string `json:"url"`
	Extracted string `json:"extracted"`
	Truncated bool   `json:"truncated"`
}

// RepoInfo carries repository metadata passed through from the upstream.
// Fields absent in the upstream body (including error-shaped bodies like
// {"message":"Not Found"}) come back as zero values.
type RepoInfo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Stars         int64  `json:"stars"`
	Forks         int64  `json:"forks"`
	OpenIssues    int64  `json:"open_issues"`
	Watchers      int64  `json:"watchers"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// CommitInfo represents a single shaped commit
type CommitInfo struct {
	SHA     string `json:"sha"`     // first 7 characters
	Message string `json:"message"` // first line only
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// RepoAnalysis aggregates the three GitHub sub-calls
type RepoAnalysis struct {
	Repo          RepoInfo         `json:"repo"`
	Languages     map[string]int64 `json:"languages"`
	RecentCommits []CommitInfo     `json:"recent_commits"`
}
