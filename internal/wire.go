//go:build wireinject
// +build wireinject

package internal

import (
	"github.com/dushixiang/augury/internal/config"
	"github.com/dushixiang/augury/internal/handler"
	"github.com/dushixiang/augury/internal/service"
	"github.com/dushixiang/augury/pkg/news"
	"github.com/dushixiang/augury/pkg/polymarket"
	"github.com/dushixiang/augury/pkg/research"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	handlerSet = wire.NewSet(
		handler.NewEngineHandler,
	)

	engineSet = wire.NewSet(
		provideMarketClient,
		wire.Bind(new(service.MarketProvider), new(*polymarket.Client)),
		provideNewsFetcher,
		wire.Bind(new(service.NewsSource), new(*news.Fetcher)),
		provideResearchClient,
		wire.Bind(new(service.ResearchProvider), new(*research.Client)),
		provideLLMClient,
		provideLLMConfig,
		provideEngineConf,
		provideNotifier,
		service.NewOracleService,
		wire.Bind(new(service.Oracle), new(*service.OracleService)),
		service.NewLogService,
		service.NewSettingsService,
		service.NewLedgerService,
		service.NewSniperService,
		service.NewResearcherService,
		service.NewMonitorService,
		service.NewEngine,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		engineSet,
		provideTelegram,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}
