package config

import (
	"time"

	"github.com/dushixiang/augury/pkg/llm"
)

type Config struct {
	Telegram   TelegramConf   `json:"telegram"`
	Polymarket PolymarketConf `json:"polymarket"`
	News       NewsConf       `json:"news"`
	Research   ResearchConf   `json:"research"`
	Engine     EngineConf     `json:"engine"`
	LLM        llm.Config     `json:"llm"`
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

type PolymarketConf struct {
	GammaBaseURL string `json:"gamma_base_url"` // 市场发现接口地址，默认官方 Gamma API
	ClobBaseURL  string `json:"clob_base_url"`  // 价格接口地址，默认官方 CLOB API
}

type NewsConf struct {
	Feeds          map[string]string `json:"feeds"`            // RSS 源，空时使用内置默认
	CryptoPanicKey string            `json:"crypto_panic_key"` // 可选
	MaxPerSource   int               `json:"max_per_source"`   // 每个源最多取多少条
}

type ResearchConf struct {
	TavilyKey  string `json:"tavily_key"`  // 可选，为空时跳过外部搜索
	MaxResults int    `json:"max_results"` // 每次搜索结果数，默认5
}

type EngineConf struct {
	AutoStart          bool          `json:"auto_start"`          // 启动进程时是否自动启动引擎
	SniperInterval     time.Duration `json:"sniper_interval"`     // 快速策略周期，默认30s
	ResearcherInterval time.Duration `json:"researcher_interval"` // 深度策略周期，默认10m
	MonitorInterval    time.Duration `json:"monitor_interval"`    // 价格监控周期，默认1m
}
