// Package research 封装 Tavily 搜索 API，为深度研究提供网络情报
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	defaultMaxResults = 5
)

// Config Tavily 配置
type Config struct {
	APIKey     string `json:"api_key"`
	BaseURL    string `json:"base_url"`    // 测试用，默认官方地址
	MaxResults int    `json:"max_results"` // 默认5
}

// Result 一条搜索结果
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Client Tavily 搜索客户端
type Client struct {
	conf   Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient 创建搜索客户端
func NewClient(conf Config, logger *zap.Logger) *Client {
	if conf.BaseURL == "" {
		conf.BaseURL = defaultBaseURL
	}
	if conf.MaxResults <= 0 {
		conf.MaxResults = defaultMaxResults
	}
	return &Client{
		conf:   conf,
		http:   &http.Client{Timeout: 20 * time.Second},
		logger: logger,
	}
}

// Enabled 是否配置了 API key
func (c *Client) Enabled() bool {
	return c.conf.APIKey != ""
}

// Search 执行一次搜索，返回摘要结果
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if !c.Enabled() {
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"api_key":      c.conf.APIKey,
		"query":        query,
		"max_results":  c.conf.MaxResults,
		"search_depth": "basic",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.conf.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search returned %d", resp.StatusCode)
	}

	var payload struct {
		Results []Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	c.logger.Debug("tavily search completed",
		zap.String("query", query),
		zap.Int("results", len(payload.Results)))

	return payload.Results, nil
}

// Digest 将搜索结果拼成给模型看的纯文本摘要
func Digest(results []Result) string {
	if len(results) == 0 {
		return "No external research available."
	}

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] %s\n%s\n", i+1, r.Title, r.Content)
	}
	return sb.String()
}
