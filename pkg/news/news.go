// Package news 聚合多个 RSS 源和 CryptoPanic 的新闻头条，带去重
package news

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 10 * time.Second

	// 去重哈希缓存的重置周期，过期后旧头条可以被重新分析
	processedResetInterval = time.Hour
)

// DefaultFeeds 默认的 RSS 源
var DefaultFeeds = map[string]string{
	"google_world":    "https://news.google.com/rss/topics/CAAqJggKIiBDQkFTRWdvSUwyMHZNRGx1YlY4U0FtVnVHZ0pWVXlnQVAB",
	"google_politics": "https://news.google.com/rss/topics/CAAqIQgKIhtDQkFTRGdvSUwyMHZNRFZ4ZERBU0FtVnVLQUFQAQ",
	"google_business": "https://news.google.com/rss/topics/CAAqJggKIiBDQkFTRWdvSUwyMHZNRGx6TVdZU0FtVnVHZ0pWVXlnQVAB",
	"google_sports":   "https://news.google.com/rss/topics/CAAqJggKIiBDQkFTRWdvSUwyMHZNRFp1ZEdvU0FtVnVHZ0pWVXlnQVAB",
	"google_crypto":   "https://news.google.com/rss/search?q=cryptocurrency+OR+bitcoin+OR+ethereum&hl=en-US&gl=US&ceid=US:en",
}

// Config 新闻源配置
type Config struct {
	Feeds           map[string]string `json:"feeds"`             // 名称 -> RSS 地址，空时使用默认源
	CryptoPanicKey  string            `json:"crypto_panic_key"`  // 可选，为空时跳过 CryptoPanic
	MaxPerSource    int               `json:"max_per_source"`    // 每个源最多取多少条，默认10
	CryptoPanicBase string            `json:"crypto_panic_base"` // 测试用，默认官方地址
}

// Item 一条新闻头条
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Hash        string    `json:"hash"` // 标题归一化后的去重哈希
}

// Fetcher 新闻聚合器
type Fetcher struct {
	conf   Config
	parser *gofeed.Parser
	http   *http.Client
	logger *zap.Logger

	mu        sync.Mutex
	processed map[string]struct{}
	lastReset time.Time
}

// NewFetcher 创建新闻聚合器
func NewFetcher(conf Config, logger *zap.Logger) *Fetcher {
	if len(conf.Feeds) == 0 {
		conf.Feeds = DefaultFeeds
	}
	if conf.MaxPerSource <= 0 {
		conf.MaxPerSource = 10
	}
	if conf.CryptoPanicBase == "" {
		conf.CryptoPanicBase = "https://cryptopanic.com/api/v1/posts/"
	}

	return &Fetcher{
		conf:      conf,
		parser:    gofeed.NewParser(),
		http:      &http.Client{Timeout: defaultHTTPTimeout},
		logger:    logger,
		processed: make(map[string]struct{}),
		lastReset: time.Now(),
	}
}

// Headlines 抓取所有源，去重后按时间倒序返回
//
// 单个源失败只记日志，不影响其他源。已标记处理过的头条被过滤掉。
func (f *Fetcher) Headlines(ctx context.Context) ([]Item, error) {
	f.maybeResetProcessed()

	var all []Item
	for source, feedURL := range f.conf.Feeds {
		items, err := f.fetchFeed(ctx, source, feedURL)
		if err != nil {
			f.logger.Warn("rss feed failed",
				zap.String("source", source),
				zap.Error(err))
			continue
		}
		all = append(all, items...)
	}

	if f.conf.CryptoPanicKey != "" {
		items, err := f.fetchCryptoPanic(ctx)
		if err != nil {
			f.logger.Warn("cryptopanic fetch failed", zap.Error(err))
		} else {
			all = append(all, items...)
		}
	}

	unique := f.dedupe(all)

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	return unique, nil
}

// MarkProcessed 标记头条已被分析，避免重复触发
func (f *Fetcher) MarkProcessed(hash string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed[hash] = struct{}{}
}

func (f *Fetcher) fetchFeed(ctx context.Context, source, feedURL string) ([]Item, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, f.conf.MaxPerSource)
	for _, entry := range feed.Items {
		if len(items) >= f.conf.MaxPerSource {
			break
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		published := time.Time{}
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		}

		items = append(items, Item{
			Title:       title,
			Link:        entry.Link,
			Source:      source,
			PublishedAt: published,
			Hash:        TitleHash(title),
		})
	}

	return items, nil
}

func (f *Fetcher) fetchCryptoPanic(ctx context.Context) ([]Item, error) {
	query := url.Values{}
	query.Set("auth_token", f.conf.CryptoPanicKey)
	query.Set("filter", "hot")
	query.Set("kind", "news")
	query.Set("public", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.conf.CryptoPanicBase+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cryptopanic returned %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Title       string    `json:"title"`
			URL         string    `json:"url"`
			PublishedAt time.Time `json:"published_at"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	items := make([]Item, 0, f.conf.MaxPerSource)
	for _, post := range payload.Results {
		if len(items) >= f.conf.MaxPerSource {
			break
		}

		title := strings.TrimSpace(post.Title)
		if title == "" {
			continue
		}

		items = append(items, Item{
			Title:       title,
			Link:        post.URL,
			Source:      "cryptopanic",
			PublishedAt: post.PublishedAt,
			Hash:        TitleHash(title),
		})
	}

	return items, nil
}

// dedupe 按哈希去重，同时过滤已处理过的头条
func (f *Fetcher) dedupe(items []Item) []Item {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]struct{}, len(items))
	unique := make([]Item, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Hash]; ok {
			continue
		}
		if _, ok := f.processed[item.Hash]; ok {
			continue
		}
		seen[item.Hash] = struct{}{}
		unique = append(unique, item)
	}

	return unique
}

func (f *Fetcher) maybeResetProcessed() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if time.Since(f.lastReset) > processedResetInterval {
		f.processed = make(map[string]struct{})
		f.lastReset = time.Now()
	}
}

// TitleHash 计算标题的去重哈希（小写归一化后取 md5 前12位）
func TitleHash(title string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])[:12]
}
