package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultGammaBaseURL = "https://gamma-api.polymarket.com"
	defaultClobBaseURL  = "https://clob.polymarket.com"

	defaultHTTPTimeout = 15 * time.Second
	marketCacheTTL     = 5 * time.Minute

	// 每次刷新缓存时向 Gamma 请求的市场数下限，
	// 保证小 limit 的调用方不会把缓存填成小池子
	marketFetchPoolSize = 100

	// Gamma 公共接口的限速预算（次/秒）
	requestsPerSecond = 5
)

// Config 数据源配置
type Config struct {
	GammaBaseURL string `json:"gamma_base_url"`
	ClobBaseURL  string `json:"clob_base_url"`
}

// Client Polymarket 数据客户端
// Gamma API 用于市场发现，CLOB API 用于单个 token 的中间价
type Client struct {
	gammaBaseURL string
	clobBaseURL  string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger

	mu         sync.Mutex
	cache      []Market
	cacheLimit int
	cacheTime  time.Time
}

// NewClient 创建数据客户端
func NewClient(conf Config, logger *zap.Logger) *Client {
	gammaBase := conf.GammaBaseURL
	if gammaBase == "" {
		gammaBase = defaultGammaBaseURL
	}
	clobBase := conf.ClobBaseURL
	if clobBase == "" {
		clobBase = defaultClobBaseURL
	}

	return &Client{
		gammaBaseURL: gammaBase,
		clobBaseURL:  clobBase,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		limiter:      rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:       logger,
	}
}

// gammaMarket Gamma API 的原始市场结构
// outcomePrices 和 clobTokenIds 可能是字符串化的 JSON 数组
type gammaMarket struct {
	ID            string          `json:"id"`
	Question      string          `json:"question"`
	OutcomePrices json.RawMessage `json:"outcomePrices"`
	ClobTokenIDs  json.RawMessage `json:"clobTokenIds"`
	VolumeNum     float64         `json:"volumeNum"`
	Volume        string          `json:"volume"`
	EndDateISO    string          `json:"endDateIso"`
	EndDate       string          `json:"endDate"`
}

// ListMarkets 获取活跃市场（按成交量降序），结果缓存 5 分钟
//
// 缓存按固定池子大小抓取后各调用方自行截断，
// 避免小 limit 的首个调用方让后续大 limit 的调用只拿到小池子。
func (c *Client) ListMarkets(ctx context.Context, limit int) ([]Market, error) {
	fetchLimit := marketFetchPoolSize
	if limit > fetchLimit {
		fetchLimit = limit
	}

	c.mu.Lock()
	if len(c.cache) > 0 && time.Since(c.cacheTime) < marketCacheTTL {
		// 缓存覆盖本次请求：抓取量不小于 limit，或上游市场总数已抓完
		if limit <= c.cacheLimit || len(c.cache) < c.cacheLimit {
			cached := truncateMarkets(c.cache, limit)
			c.mu.Unlock()
			return cached, nil
		}
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("closed", "false")
	query.Set("limit", strconv.Itoa(fetchLimit))
	query.Set("order", "volume")
	query.Set("ascending", "false")

	endpoint := fmt.Sprintf("%s/markets?%s", c.gammaBaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch markets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gamma api returned %d: %s", resp.StatusCode, string(body))
	}

	var raw []gammaMarket
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode markets: %w", err)
	}

	markets := make([]Market, 0, len(raw))
	for i := range raw {
		m, ok := convertMarket(&raw[i])
		if !ok {
			continue
		}
		markets = append(markets, m)
	}

	c.mu.Lock()
	c.cache = markets
	c.cacheLimit = fetchLimit
	c.cacheTime = time.Now()
	c.mu.Unlock()

	c.logger.Debug("markets refreshed", zap.Int("count", len(markets)))

	return truncateMarkets(markets, limit), nil
}

// GetPrice 获取指定 token 的 CLOB 中间价
func (c *Client) GetPrice(ctx context.Context, tokenID string) (float64, error) {
	if tokenID == "" {
		return 0, fmt.Errorf("token id is empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	endpoint := fmt.Sprintf("%s/midpoint?token_id=%s", c.clobBaseURL, url.QueryEscape(tokenID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch midpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("clob api returned %d", resp.StatusCode)
	}

	var payload struct {
		Mid json.Number `json:"mid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode midpoint: %w", err)
	}

	mid, err := payload.Mid.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid midpoint %q: %w", payload.Mid.String(), err)
	}
	if mid <= 0 || mid >= 1 {
		return 0, fmt.Errorf("midpoint %v out of range", mid)
	}

	return mid, nil
}

// convertMarket 把 Gamma 原始结构转换为通用市场类型
// 价格或 token 解析失败的市场直接丢弃
func convertMarket(g *gammaMarket) (Market, bool) {
	prices := parseStringArray(g.OutcomePrices)
	tokens := parseStringArray(g.ClobTokenIDs)
	if len(prices) < 2 || len(tokens) < 2 {
		return Market{}, false
	}

	yesPrice, err1 := strconv.ParseFloat(prices[0], 64)
	noPrice, err2 := strconv.ParseFloat(prices[1], 64)
	if err1 != nil || err2 != nil {
		return Market{}, false
	}

	volume := g.VolumeNum
	if volume == 0 && g.Volume != "" {
		volume, _ = strconv.ParseFloat(g.Volume, 64)
	}

	return Market{
		ID:         g.ID,
		Question:   g.Question,
		YesPrice:   yesPrice,
		NoPrice:    noPrice,
		Volume:     volume,
		ResolvesAt: parseEndDate(g.EndDateISO, g.EndDate),
		YesTokenID: tokens[0],
		NoTokenID:  tokens[1],
	}, true
}

// parseStringArray 解析可能被字符串化的 JSON 数组字段
func parseStringArray(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var direct []string
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct
	}

	var wrapped string
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}

	var nested []string
	if err := json.Unmarshal([]byte(wrapped), &nested); err != nil {
		return nil
	}
	return nested
}

// parseEndDate 解析结算时间，两个字段都无法解析时返回零值
func parseEndDate(candidates ...string) time.Time {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02"}
	for _, s := range candidates {
		if s == "" {
			continue
		}
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

func truncateMarkets(markets []Market, limit int) []Market {
	if limit <= 0 || limit >= len(markets) {
		out := make([]Market, len(markets))
		copy(out, markets)
		return out
	}
	out := make([]Market, limit)
	copy(out, markets[:limit])
	return out
}
