package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/pkg/news"
	"github.com/dushixiang/augury/pkg/polymarket"
	"github.com/dushixiang/augury/pkg/quant"
	"go.uber.org/zap"
)

const (
	sniperHeadlinesPerCycle  = 5
	sniperMarketsPerHeadline = 2
	sniperMarketPoolSize     = 100
	sniperMaxKeywords        = 5
)

// 标题关键词提取时丢弃的常见词
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an the and or but in on at to for of " +
			"with by from as is was are were been be have " +
			"has had do does did will would could should may " +
			"might must shall can need dare ought used it its " +
			"this that these those i you he she we they what " +
			"which who whom whose where when why how all each " +
			"every both few more most other some such no nor " +
			"not only own same so than too very just also " +
			"now here there then once again further still already " +
			"new says said after before over under between into " +
			"through during above below up down out off about " +
			"against report reports according news update updates") {
		stopWords[w] = struct{}{}
	}
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// NewsSource 新闻来源接口
type NewsSource interface {
	Headlines(ctx context.Context) ([]news.Item, error)
	MarkProcessed(hash string)
}

// MarketProvider 市场数据接口
type MarketProvider interface {
	ListMarkets(ctx context.Context, limit int) ([]polymarket.Market, error)
	GetPrice(ctx context.Context, tokenID string) (float64, error)
}

// SniperService 快速策略：突发新闻驱动的短线交易
type SniperService struct {
	logger *zap.Logger

	newsSource NewsSource
	markets    MarketProvider
	oracle     Oracle
	settings   *SettingsService
	ledger     *LedgerService
	engineLog  *LogService
	notifier   Notifier
}

// NewSniperService 创建快速策略服务
func NewSniperService(
	newsSource NewsSource,
	markets MarketProvider,
	oracle Oracle,
	settings *SettingsService,
	ledger *LedgerService,
	engineLog *LogService,
	notifier Notifier,
	logger *zap.Logger,
) *SniperService {
	return &SniperService{
		logger:     logger,
		newsSource: newsSource,
		markets:    markets,
		oracle:     oracle,
		settings:   settings,
		ledger:     ledger,
		engineLog:  engineLog,
		notifier:   notifier,
	}
}

// RunCycle 执行一轮快速策略
func (s *SniperService) RunCycle(ctx context.Context) error {
	headlines, err := s.newsSource.Headlines(ctx)
	if err != nil {
		return err
	}
	if len(headlines) == 0 {
		s.logger.Debug("no new headlines")
		return nil
	}

	markets, err := s.markets.ListMarkets(ctx, sniperMarketPoolSize)
	if err != nil {
		return err
	}
	if len(markets) == 0 {
		s.engineLog.Warn(ctx, models.StrategySniper, "no markets available")
		return nil
	}

	if len(headlines) > sniperHeadlinesPerCycle {
		headlines = headlines[:sniperHeadlinesPerCycle]
	}

	tradesMade := 0
	for _, headline := range headlines {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		matched := MatchHeadline(headline.Title, markets)
		if len(matched) > sniperMarketsPerHeadline {
			matched = matched[:sniperMarketsPerHeadline]
		}

		for _, market := range matched {
			// 单个市场失败不影响同轮其他市场
			opened, err := s.evaluate(ctx, headline, market)
			if err != nil {
				s.logger.Warn("sniper evaluation failed",
					zap.String("market", market.Question),
					zap.Error(err))
				continue
			}
			if opened {
				tradesMade++
			}
		}

		s.newsSource.MarkProcessed(headline.Hash)
	}

	s.engineLog.Info(ctx, models.StrategySniper,
		"sniper cycle complete: %d headlines, %d trades", len(headlines), tradesMade)
	return nil
}

func (s *SniperService) evaluate(ctx context.Context, headline news.Item, market polymarket.Market) (bool, error) {
	// 结算期过远的市场在调用模型前就排除，不浪费推理额度
	settings := s.settings.Get()
	if !quant.WithinHorizon(market.ResolvesAt, settings.MaxDays, time.Now()) {
		s.logger.Debug("market beyond horizon",
			zap.String("market", market.Question),
			zap.Int("max_days", settings.MaxDays))
		return false, nil
	}

	exists, err := s.ledger.ExistsOpenTradeByMarket(ctx, market.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	verdict, err := s.oracle.QuickJudge(ctx, headline.Title, market)
	if err != nil {
		return false, err
	}

	portfolio, err := s.ledger.Portfolio(ctx)
	if err != nil {
		return false, err
	}

	plan, reason := planTrade(settings, market, verdict, portfolio.Balance, time.Now())
	if plan == nil {
		s.logger.Debug("sniper signal rejected",
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
		Strategy:       models.StrategySniper,
		Confidence:     verdict.Confidence,
		Edge:           plan.Edge,
		Mode:           settings.Mode,
		Reasoning:      verdict.Reasoning,
		TokenID:        plan.TokenID,
		Sources:        []string{headline.Title},
	})
	if err != nil {
		return false, err
	}

	s.engineLog.Info(ctx, models.StrategySniper,
		"opened %s $%.2f on %q (edge %.1f, confidence %.0f)",
		trade.Side, trade.Size, trade.MarketQuestion, trade.Edge, trade.Confidence)
	s.notifier.NotifyTradeOpened(trade)
	return true, nil
}

// MatchHeadline 按关键词重合度为标题匹配市场
//
// 得分相同的市场按成交量优先。
func MatchHeadline(headline string, markets []polymarket.Market) []polymarket.Market {
	keywords := ExtractKeywords(headline)
	if len(keywords) == 0 {
		return nil
	}

	type scored struct {
		score  int
		market polymarket.Market
	}
	var candidates []scored
	for _, market := range markets {
		question := strings.ToLower(market.Question)
		score := 0
		for _, kw := range keywords {
			if strings.Contains(question, kw) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{score: score, market: market})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].market.Volume > candidates[j].market.Volume
	})

	matched := make([]polymarket.Market, 0, len(candidates))
	for _, c := range candidates {
		matched = append(matched, c.market)
	}
	return matched
}

// ExtractKeywords 提取标题关键词，丢弃常见词，最多5个
func ExtractKeywords(headline string) []string {
	words := wordPattern.FindAllString(strings.ToLower(headline), -1)
	keywords := make([]string, 0, sniperMaxKeywords)
	for _, w := range words {
		if _, ok := stopWords[w]; ok {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == sniperMaxKeywords {
			break
		}
	}
	return keywords
}
