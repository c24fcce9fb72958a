package shaper

import (
	"github.com/micropay-labs/api-gateway/internal/gateway/types"
	"github.com/tidwall/gjson"
)

// ShapeSearch maps the raw provider body onto the public search reply.
// An absent web.results path yields an empty result list, not an error.
func ShapeSearch(raw []byte, query string) types.SearchResponse {
	entries := gjson.GetBytes(raw, "web.results").Array()

	results := make([]types.SearchResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, types.SearchResult{
			Title:   entry.Get("title").String(),
			URL:     entry.Get("url").String(),
			Snippet: entry.Get("description").String(),
		})
	}

	return types.SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	}
}
