package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/dushixiang/augury/internal/config"
	"github.com/dushixiang/augury/internal/service"
	"github.com/dushixiang/augury/internal/telegram"
	"github.com/dushixiang/augury/pkg/llm"
	"github.com/dushixiang/augury/pkg/news"
	"github.com/dushixiang/augury/pkg/polymarket"
	"github.com/dushixiang/augury/pkg/research"

	"go.uber.org/zap"
)

const telegramHTTPTimeout = 10 * time.Second

// provideMarketClient provides Polymarket client
func provideMarketClient(conf *config.Config, logger *zap.Logger) *polymarket.Client {
	return polymarket.NewClient(polymarket.Config{
		GammaBaseURL: conf.Polymarket.GammaBaseURL,
		ClobBaseURL:  conf.Polymarket.ClobBaseURL,
	}, logger)
}

// provideNewsFetcher provides news aggregator
func provideNewsFetcher(conf *config.Config, logger *zap.Logger) *news.Fetcher {
	return news.NewFetcher(news.Config{
		Feeds:          conf.News.Feeds,
		CryptoPanicKey: conf.News.CryptoPanicKey,
		MaxPerSource:   conf.News.MaxPerSource,
	}, logger)
}

// provideResearchClient provides Tavily search client
func provideResearchClient(conf *config.Config, logger *zap.Logger) *research.Client {
	if conf.Research.TavilyKey == "" {
		logger.Warn("Tavily API key not configured; researcher will run without external research")
	}
	return research.NewClient(research.Config{
		APIKey:     conf.Research.TavilyKey,
		MaxResults: conf.Research.MaxResults,
	}, logger)
}

// provideLLMConfig provides LLM config section
func provideLLMConfig(conf *config.Config) llm.Config {
	return conf.LLM
}

// provideLLMClient provides LLM client by configured provider
func provideLLMClient(conf *config.Config, logger *zap.Logger) (llm.Client, error) {
	if conf.LLM.Provider == llm.ProviderGemini {
		client, err := llm.NewGeminiClient(context.Background(), conf.LLM, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("LLM client initialized",
			zap.String("provider", llm.ProviderGemini),
			zap.String("fast_model", conf.LLM.FastModel),
			zap.String("deep_model", conf.LLM.DeepModel),
		)
		return client, nil
	}

	client, err := llm.NewOpenAIClient(conf.LLM, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("LLM client initialized",
		zap.String("provider", llm.ProviderOpenAI),
		zap.String("fast_model", conf.LLM.FastModel),
		zap.String("deep_model", conf.LLM.DeepModel),
	)
	return client, nil
}

// provideEngineConf provides scheduler intervals
func provideEngineConf(conf *config.Config) service.EngineConf {
	return service.EngineConf{
		SniperInterval:     conf.Engine.SniperInterval,
		ResearcherInterval: conf.Engine.ResearcherInterval,
		MonitorInterval:    conf.Engine.MonitorInterval,
	}
}

// provideTelegram provides telegram instance
func provideTelegram(logger *zap.Logger, conf *config.Config) *telegram.Telegram {
	if !conf.Telegram.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: telegramHTTPTimeout}

	tg, err := telegram.NewTelegram(logger, telegram.Settings{
		Token:  conf.Telegram.Token,
		ChatID: conf.Telegram.ChatID,
		Client: httpClient,
	})
	if err != nil {
		logger.Error("failed to init telegram", zap.Error(err))
		return nil
	}

	return tg
}

// provideNotifier provides trade notifier
func provideNotifier(tg *telegram.Telegram) service.Notifier {
	if tg == nil {
		return service.NewNoopNotifier()
	}
	return tg
}
