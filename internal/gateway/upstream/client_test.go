package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/micropay-labs/api-gateway/internal/gateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	var gotHeader http.Header
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer ts.Close()

	client := NewClient(Config{SearchHost: ts.URL, SearchAPIKey: "test-key"})

	body, err := client.Search(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.JSONEq(t, `{"web":{"results":[]}}`, string(body))
	assert.Equal(t, "test-key", gotHeader.Get("X-Subscription-Token"))
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
	assert.Contains(t, gotQuery, "q=golang")
	assert.Contains(t, gotQuery, "count=5")
}

func TestClient_Search_MissingKeyStillSent(t *testing.T) {
	var called bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"missing token"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{SearchHost: ts.URL})

	_, err := client.Search(context.Background(), "q", 5)
	assert.True(t, called, "request must go out even without a key")

	var upstreamErr *types.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, types.TargetSearch, upstreamErr.Target)
	assert.Equal(t, "HTTP_401", upstreamErr.Code)
}

func TestClient_Search_NonJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	client := NewClient(Config{SearchHost: ts.URL})

	_, err := client.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, types.ErrNotJSON)
}

func TestClient_FetchPage(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("<p>raw page</p>"))
	}))
	defer ts.Close()

	client := NewClient(Config{UserAgent: "gateway-test/1.0"})

	body, err := client.FetchPage(context.Background(), ts.URL)
	require.NoError(t, err)
	// Body is consumed as text regardless of content type.
	assert.Equal(t, "<p>raw page</p>", body)
	assert.Equal(t, "gateway-test/1.0", gotUA)
}

func TestClient_FetchPage_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(Config{})

	_, err := client.FetchPage(context.Background(), ts.URL)
	var upstreamErr *types.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, types.TargetPage, upstreamErr.Target)
}

func TestClient_GitHub_Paths(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.String())
		assert.Equal(t, "gateway-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewClient(Config{GitHubHost: ts.URL, UserAgent: "gateway-test/1.0", CommitLimit: 5})
	ctx := context.Background()

	_, err := client.Repo(ctx, "gin-gonic/gin")
	require.NoError(t, err)
	_, err = client.Languages(ctx, "gin-gonic/gin")
	require.NoError(t, err)
	_, err = client.RecentCommits(ctx, "gin-gonic/gin")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/repos/gin-gonic/gin",
		"/repos/gin-gonic/gin/languages",
		"/repos/gin-gonic/gin/commits?per_page=5",
	}, paths)
}

func TestClient_GitHub_ErrorBodyPassesThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{GitHubHost: ts.URL})

	// The 404 body comes back without an error; the shaper decides
	// what to make of it.
	body, err := client.Repo(context.Background(), "nobody/nothing")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Not Found"}`, string(body))
}
