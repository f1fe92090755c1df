package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"deeperweave/internal/config"
	"deeperweave/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestClient(baseURL string) *Client {
	return NewClient(&config.TMDBConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Timeout:    5,
		MaxRetries: 3,
		RetryDelay: 0,
		Language:   "zh-CN",
	}, nil)
}

func TestGetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "zh-CN", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":603,"title":"黑客帝国","release_date":"1999-03-30","original_language":"en"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	details, err := client.GetMovie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, int64(603), details.ID)
	assert.Equal(t, "黑客帝国", details.Title)
	assert.Equal(t, "1999-03-30", details.ReleaseDate)
}

func TestGetMovieNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetMovie(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"id":1399,"name":"权力的游戏","first_air_date":"2011-04-17"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	details, err := client.GetTV(context.Background(), 1399)
	require.NoError(t, err)
	assert.Equal(t, "权力的游戏", details.Name)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetMovie(context.Background(), 603)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetMovie(context.Background(), 603)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSearchMulti(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "matrix", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 603, "media_type": "movie", "title": "The Matrix"},
				{"id": 2975, "media_type": "person", "name": "Laurence Fishburne"}
			],
			"total_pages": 1,
			"total_results": 2
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.SearchMulti(context.Background(), "matrix", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalResults)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "movie", resp.Results[0].MediaType)
}

func TestContextCancelStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&config.TMDBConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Timeout:    5,
		MaxRetries: 5,
		RetryDelay: 10,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetMovie(ctx, 603)
	assert.ErrorIs(t, err, context.Canceled)
}
