package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseStringArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain array", `["0.6","0.4"]`, []string{"0.6", "0.4"}},
		{"stringified array", `"[\"0.6\", \"0.4\"]"`, []string{"0.6", "0.4"}},
		{"empty", ``, nil},
		{"garbage", `"not json"`, nil},
		{"number", `42`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseStringArray(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertMarket(t *testing.T) {
	g := &gammaMarket{
		ID:            "0x01",
		Question:      "Will it happen?",
		OutcomePrices: json.RawMessage(`"[\"0.62\", \"0.38\"]"`),
		ClobTokenIDs:  json.RawMessage(`"[\"tok-yes\", \"tok-no\"]"`),
		VolumeNum:     123456.78,
		EndDateISO:    "2025-12-31",
	}

	m, ok := convertMarket(g)
	require.True(t, ok)
	assert.Equal(t, "0x01", m.ID)
	assert.InDelta(t, 0.62, m.YesPrice, 1e-9)
	assert.InDelta(t, 0.38, m.NoPrice, 1e-9)
	assert.Equal(t, "tok-yes", m.TokenID(SideYes))
	assert.Equal(t, "tok-no", m.TokenID(SideNo))
	assert.Equal(t, 2025, m.ResolvesAt.Year())
}

func TestConvertMarketRejectsIncomplete(t *testing.T) {
	g := &gammaMarket{
		ID:            "0x02",
		OutcomePrices: json.RawMessage(`["0.5"]`),
		ClobTokenIDs:  json.RawMessage(`["tok"]`),
	}
	_, ok := convertMarket(g)
	assert.False(t, ok)
}

func TestGetPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/midpoint", r.URL.Path)
		assert.Equal(t, "tok-yes", r.URL.Query().Get("token_id"))
		_, _ = w.Write([]byte(`{"mid":"0.55"}`))
	}))
	defer server.Close()

	client := NewClient(Config{ClobBaseURL: server.URL}, zaptest.NewLogger(t))

	price, err := client.GetPrice(context.Background(), "tok-yes")
	require.NoError(t, err)
	assert.InDelta(t, 0.55, price, 1e-9)
}

func TestGetPriceRejectsOutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mid":"0"}`))
	}))
	defer server.Close()

	client := NewClient(Config{ClobBaseURL: server.URL}, zaptest.NewLogger(t))

	_, err := client.GetPrice(context.Background(), "tok")
	assert.Error(t, err)
}

func TestListMarketsUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[{
			"id": "0x01",
			"question": "Will it happen?",
			"outcomePrices": "[\"0.62\", \"0.38\"]",
			"clobTokenIds": "[\"tok-yes\", \"tok-no\"]",
			"volumeNum": 1000
		}]`))
	}))
	defer server.Close()

	client := NewClient(Config{GammaBaseURL: server.URL}, zaptest.NewLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, err := client.ListMarkets(ctx, 10)
	require.NoError(t, err)
	second, err := client.ListMarkets(ctx, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second call should be served from cache")
}

func TestListMarketsCachePoolCoversLargerLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		markets := make([]map[string]any, 0, limit)
		for i := 0; i < limit; i++ {
			markets = append(markets, map[string]any{
				"id":            fmt.Sprintf("0x%03d", i),
				"question":      fmt.Sprintf("Market %d?", i),
				"outcomePrices": `["0.60", "0.40"]`,
				"clobTokenIds":  fmt.Sprintf(`["tok-%d-yes", "tok-%d-no"]`, i, i),
				"volumeNum":     1000.0,
			})
		}
		_ = json.NewEncoder(w).Encode(markets)
	}))
	defer server.Close()

	client := NewClient(Config{GammaBaseURL: server.URL}, zaptest.NewLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 小 limit 先到，缓存依旧按完整池子抓取
	small, err := client.ListMarkets(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, small, 50)

	large, err := client.ListMarkets(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, large, 100)
	assert.Equal(t, 1, calls, "pool-sized fetch should cover both limits")

	// 超过池子大小的请求需要重新抓取
	larger, err := client.ListMarkets(ctx, 120)
	require.NoError(t, err)
	assert.Len(t, larger, 120)
	assert.Equal(t, 2, calls)
}
