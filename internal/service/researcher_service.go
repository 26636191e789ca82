package service

import (
	"context"
	"time"

	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/pkg/polymarket"
	"github.com/dushixiang/augury/pkg/quant"
	"github.com/dushixiang/augury/pkg/research"
	"go.uber.org/zap"
)

const (
	researcherMarketPoolSize = 50
	researcherMaxCandidates  = 10
	researcherAnalyzeTop     = 3

	// 持仓收益率超过该值时止盈
	takeProfitROIPercent = 20.0
)

// ResearchProvider 外部研究接口
type ResearchProvider interface {
	Enabled() bool
	Search(ctx context.Context, query string) ([]research.Result, error)
}

// ResearcherService 深度策略：高成交量市场的研究型价值交易
type ResearcherService struct {
	logger *zap.Logger

	markets   MarketProvider
	research  ResearchProvider
	oracle    Oracle
	settings  *SettingsService
	ledger    *LedgerService
	engineLog *LogService
	notifier  Notifier
}

// NewResearcherService 创建深度策略服务
func NewResearcherService(
	markets MarketProvider,
	researchProvider ResearchProvider,
	oracle Oracle,
	settings *SettingsService,
	ledger *LedgerService,
	engineLog *LogService,
	notifier Notifier,
	logger *zap.Logger,
) *ResearcherService {
	return &ResearcherService{
		logger:    logger,
		markets:   markets,
		research:  researchProvider,
		oracle:    oracle,
		settings:  settings,
		ledger:    ledger,
		engineLog: engineLog,
		notifier:  notifier,
	}
}

// RunCycle 执行一轮深度策略
func (s *ResearcherService) RunCycle(ctx context.Context) error {
	markets, err := s.markets.ListMarkets(ctx, researcherMarketPoolSize)
	if err != nil {
		return err
	}

	openMarketIDs, err := s.ledger.FindOpenMarketIDs(ctx)
	if err != nil {
		return err
	}

	// 只研究尚无持仓的市场
	candidates := make([]polymarket.Market, 0, researcherMaxCandidates)
	for _, market := range markets {
		if _, ok := openMarketIDs[market.ID]; ok {
			continue
		}
		candidates = append(candidates, market)
		if len(candidates) == researcherMaxCandidates {
			break
		}
	}

	analyze := candidates
	if len(analyze) > researcherAnalyzeTop {
		analyze = analyze[:researcherAnalyzeTop]
	}

	tradesMade := 0
	for _, market := range analyze {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		opened, err := s.analyze(ctx, market)
		if err != nil {
			s.logger.Warn("researcher analysis failed",
				zap.String("market", market.Question),
				zap.Error(err))
			continue
		}
		if opened {
			tradesMade++
		}
	}

	// 无论是否有新候选，都要扫描持仓的止盈机会
	if err := s.scanTakeProfit(ctx); err != nil {
		s.logger.Warn("take profit scan failed", zap.Error(err))
	}

	s.engineLog.Info(ctx, models.StrategyResearcher,
		"researcher cycle complete: %d markets analyzed, %d trades", len(analyze), tradesMade)
	return nil
}

func (s *ResearcherService) analyze(ctx context.Context, market polymarket.Market) (bool, error) {
	// 结算期过远的市场在外部搜索和模型调用前就排除
	settings := s.settings.Get()
	if !quant.WithinHorizon(market.ResolvesAt, settings.MaxDays, time.Now()) {
		s.logger.Debug("market beyond horizon",
			zap.String("market", market.Question),
			zap.Int("max_days", settings.MaxDays))
		return false, nil
	}

	var digest string
	if s.research.Enabled() {
		results, err := s.research.Search(ctx, market.Question)
		if err != nil {
			return false, err
		}
		if len(results) == 0 {
			return false, nil
		}
		digest = research.Digest(results)
	} else {
		digest = research.Digest(nil)
	}

	verdict, err := s.oracle.DeepJudge(ctx, market, digest)
	if err != nil {
		return false, err
	}

	portfolio, err := s.ledger.Portfolio(ctx)
	if err != nil {
		return false, err
	}

	plan, reason := planTrade(settings, market, verdict, portfolio.Balance, time.Now())
	if plan == nil {
		s.logger.Debug("researcher signal rejected",
			zap.String("market", market.Question),
			zap.String("reason", reason))
		return false, nil
	}

	trade, err := s.ledger.OpenTrade(ctx, OpenTradeRequest{
		MarketID:       market.ID,
		MarketQuestion: market.Question,
		Side:           plan.Side.String(),
		EntryPrice:     plan.EntryPrice,
		Size:           plan.Size,
		Strategy:       models.StrategyResearcher,
		Confidence:     verdict.Confidence,
		Edge:           plan.Edge,
		Mode:           settings.Mode,
		Reasoning:      verdict.Reasoning,
		TokenID:        plan.TokenID,
		Sources:        []string{market.Question},
	})
	if err != nil {
		return false, err
	}

	s.engineLog.Info(ctx, models.StrategyResearcher,
		"opened %s $%.2f on %q (edge %.1f, confidence %.0f)",
		trade.Side, trade.Size, trade.MarketQuestion, trade.Edge, trade.Confidence)
	s.notifier.NotifyTradeOpened(trade)
	return true, nil
}

// scanTakeProfit 对收益率达标的持仓按当前价平仓
func (s *ResearcherService) scanTakeProfit(ctx context.Context) error {
	openTrades, err := s.ledger.FindOpenTrades(ctx)
	if err != nil {
		return err
	}

	for i := range openTrades {
		trade := &openTrades[i]
		roi := trade.ROIPercent()
		if roi <= takeProfitROIPercent {
			continue
		}

		closed, err := s.ledger.CloseTrade(ctx, trade.ID, trade.CurrentPrice, "take profit")
		if err != nil {
			s.logger.Warn("failed to close position",
				zap.String("trade_id", trade.ID),
				zap.Error(err))
			continue
		}

		s.engineLog.Info(ctx, models.StrategyResearcher,
			"closed %q for +%.1f%% profit ($%.2f)", closed.MarketQuestion, roi, closed.Pnl)
		s.notifier.NotifyTradeClosed(closed)
	}
	return nil
}
