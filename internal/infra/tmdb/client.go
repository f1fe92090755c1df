package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"deeperweave/internal/config"
	"deeperweave/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	movieCachePrefix  = "tmdb:movie:"
	tvCachePrefix     = "tmdb:tv:"
	searchCachePrefix = "tmdb:search:"

	maxResponseSize = 5 * 1024 * 1024
)

// ErrNotFound 外部元数据源中不存在该资源
var ErrNotFound = errors.New("元数据源中不存在该资源")

// Client 外部影视元数据客户端（Redis 缓存 + 重试）
// 详情缓存 24h、搜索缓存 4h，均按资源 ID / 查询词作 key
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	redis      *redis.Client
	detailTTL  time.Duration
	searchTTL  time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewClient 按配置创建客户端；redisClient 可为 nil（只降级为无缓存，不报错）
func NewClient(cfg *config.TMDBConfig, redisClient *redis.Client) *Client {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 3
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		redis:      redisClient,
		detailTTL:  cfg.DetailTTL(),
		searchTTL:  cfg.SearchTTL(),
		maxRetries: maxRetries,
		retryDelay: cfg.RetryDelayDuration(),
	}
}

// GetMovie 获取电影详情（缓存优先）
func (c *Client) GetMovie(ctx context.Context, id int64) (*MovieDetails, error) {
	cacheKey := movieCachePrefix + strconv.FormatInt(id, 10)

	var details MovieDetails
	if c.readCache(ctx, cacheKey, &details) {
		return &details, nil
	}

	endpoint := fmt.Sprintf("%s/movie/%d", c.baseURL, id)
	body, err := c.makeRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("unmarshal movie details: %w", err)
	}

	c.writeCache(ctx, cacheKey, &details, c.detailTTL)
	return &details, nil
}

// GetTV 获取剧集详情（缓存优先）
func (c *Client) GetTV(ctx context.Context, id int64) (*TVDetails, error) {
	cacheKey := tvCachePrefix + strconv.FormatInt(id, 10)

	var details TVDetails
	if c.readCache(ctx, cacheKey, &details) {
		return &details, nil
	}

	endpoint := fmt.Sprintf("%s/tv/%d", c.baseURL, id)
	body, err := c.makeRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("unmarshal tv details: %w", err)
	}

	c.writeCache(ctx, cacheKey, &details, c.detailTTL)
	return &details, nil
}

// SearchMulti 搜索电影与剧集（缓存优先，缓存 key 含查询词和页码）
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*SearchResponse, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("%s%s:%d", searchCachePrefix, query, page)

	var result SearchResponse
	if c.readCache(ctx, cacheKey, &result) {
		return &result, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	endpoint := c.baseURL + "/search/multi"
	body, err := c.makeRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	c.writeCache(ctx, cacheKey, &result, c.searchTTL)
	return &result, nil
}

// makeRequest 发起 HTTP 请求，5xx 与网络错误重试，404 直接返回 ErrNotFound
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	requestURL := endpoint + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request metadata source: %w", err)
			logger.Warn("TMDB request failed, retrying",
				zap.String("url", endpoint),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return nil, ErrNotFound
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("metadata source returned status %d", resp.StatusCode)
			// 4xx（404 除外）重试没有意义
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			logger.Warn("TMDB returned error status, retrying",
				zap.String("url", endpoint),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response body: %w", err)
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("tmdb request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// readCache 读取缓存，命中返回 true；缓存故障只记日志不影响主流程
func (c *Client) readCache(ctx context.Context, key string, dest interface{}) bool {
	if c.redis == nil {
		return false
	}

	cached, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read metadata cache", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		logger.Warn("Failed to unmarshal cached metadata", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// writeCache 写入缓存，失败只记日志
func (c *Client) writeCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.redis == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to marshal metadata for caching", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Warn("Failed to write metadata cache", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateMovie 删除指定电影的详情缓存
func (c *Client) InvalidateMovie(ctx context.Context, id int64) {
	if c.redis == nil {
		return
	}
	c.redis.Del(ctx, movieCachePrefix+strconv.FormatInt(id, 10))
}

// InvalidateTV 删除指定剧集的详情缓存
func (c *Client) InvalidateTV(ctx context.Context, id int64) {
	if c.redis == nil {
		return
	}
	c.redis.Del(ctx, tvCachePrefix+strconv.FormatInt(id, 10))
}
