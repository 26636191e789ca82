package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/internal/repo"
	"github.com/dushixiang/augury/internal/xe"
	"github.com/dushixiang/augury/pkg/quant"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultInitialBalance = 100.0

// LedgerService 模拟账本服务，管理资金和仓位
//
// 所有资金变更串行执行，余额扣减和交易写入在同一事务内完成。
type LedgerService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TradeRepo

	portfolioRepo *repo.PortfolioRepo

	// 互斥锁保证开平仓串行，余额判断不会基于过期值
	mu sync.Mutex
}

// NewLedgerService 创建账本服务
func NewLedgerService(db *gorm.DB, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		logger:        logger,
		Service:       orz.NewService(db),
		TradeRepo:     repo.NewTradeRepo(db),
		portfolioRepo: repo.NewPortfolioRepo(db),
	}
}

// Init 初始化资金账户，不存在时以默认资金创建
func (s *LedgerService) Init(ctx context.Context) error {
	_, err := s.portfolioRepo.FindFirst(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	portfolio := &models.Portfolio{
		ID:             ulid.Make().String(),
		Balance:        defaultInitialBalance,
		InitialBalance: defaultInitialBalance,
	}
	if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
		return err
	}

	s.logger.Info("initialized paper portfolio",
		zap.Float64("balance", portfolio.Balance))
	return nil
}

// OpenTradeRequest 开仓请求
type OpenTradeRequest struct {
	MarketID       string
	MarketQuestion string
	Side           string
	EntryPrice     float64
	Size           float64
	Strategy       string
	Confidence     float64
	Edge           float64
	Mode           string
	Reasoning      string
	TokenID        string
	Sources        []string
}

// OpenTrade 开仓：扣减余额并写入交易记录
func (s *LedgerService) OpenTrade(ctx context.Context, req OpenTradeRequest) (*models.Trade, error) {
	if req.Size < quant.MinTradeUSD || req.EntryPrice <= 0 || req.EntryPrice >= 1 {
		return nil, xe.ErrInvalidParams
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var trade *models.Trade
	err := s.Transaction(ctx, func(ctx context.Context) error {
		portfolio, err := s.portfolioRepo.FindFirst(ctx)
		if err != nil {
			return err
		}
		if portfolio.Balance < req.Size {
			return xe.ErrInsufficientBalance
		}

		portfolio.Balance -= req.Size
		if err := s.portfolioRepo.Save(ctx, &portfolio); err != nil {
			return err
		}

		trade = &models.Trade{
			ID:             ulid.Make().String(),
			MarketID:       req.MarketID,
			MarketQuestion: req.MarketQuestion,
			Side:           req.Side,
			EntryPrice:     req.EntryPrice,
			CurrentPrice:   req.EntryPrice,
			Size:           req.Size,
			Shares:         req.Size / req.EntryPrice,
			Status:         models.TradeStatusOpen,
			Strategy:       req.Strategy,
			Confidence:     req.Confidence,
			Edge:           req.Edge,
			Mode:           req.Mode,
			Reasoning:      req.Reasoning,
			TokenID:        req.TokenID,
			Sources:        req.Sources,
			OpenedAt:       time.Now(),
		}
		return s.TradeRepo.Create(ctx, trade)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trade opened",
		zap.String("trade_id", trade.ID),
		zap.String("market", trade.MarketQuestion),
		zap.String("side", trade.Side),
		zap.Float64("size", trade.Size),
		zap.Float64("entry_price", trade.EntryPrice),
		zap.String("strategy", trade.Strategy),
	)
	return trade, nil
}

// CloseTrade 平仓：按离场价结算，回笼资金并记录已实现盈亏
func (s *LedgerService) CloseTrade(ctx context.Context, tradeID string, exitPrice float64, reason string) (*models.Trade, error) {
	if exitPrice < 0 || exitPrice > 1 {
		return nil, xe.ErrInvalidParams
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var trade models.Trade
	err := s.Transaction(ctx, func(ctx context.Context) error {
		var err error
		trade, err = s.TradeRepo.FindById(ctx, tradeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return xe.ErrTradeNotFound
			}
			return err
		}
		if trade.Status != models.TradeStatusOpen {
			return xe.ErrTradeAlreadyClosed
		}

		proceeds := trade.Shares * exitPrice
		pnl := proceeds - trade.Size
		now := time.Now()

		trade.Status = models.TradeStatusClosed
		trade.CurrentPrice = exitPrice
		trade.Pnl = pnl
		trade.ClosedAt = &now
		trade.CloseReason = reason
		if err := s.TradeRepo.Save(ctx, &trade); err != nil {
			return err
		}

		portfolio, err := s.portfolioRepo.FindFirst(ctx)
		if err != nil {
			return err
		}
		portfolio.Balance += proceeds
		portfolio.TotalPnl += pnl
		return s.portfolioRepo.Save(ctx, &portfolio)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trade closed",
		zap.String("trade_id", trade.ID),
		zap.String("market", trade.MarketQuestion),
		zap.Float64("exit_price", exitPrice),
		zap.Float64("pnl", trade.Pnl),
		zap.String("reason", reason),
	)
	return &trade, nil
}

// UpdatePrice 更新某笔持仓的最新价格
func (s *LedgerService) UpdatePrice(ctx context.Context, tradeID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trade, err := s.TradeRepo.FindById(ctx, tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xe.ErrTradeNotFound
		}
		return err
	}
	if trade.Status != models.TradeStatusOpen {
		return nil
	}

	trade.CurrentPrice = price
	trade.Pnl = trade.UnrealizedPnl()
	return s.TradeRepo.Save(ctx, &trade)
}

// Portfolio 获取资金账户
func (s *LedgerService) Portfolio(ctx context.Context) (models.Portfolio, error) {
	return s.portfolioRepo.FindFirst(ctx)
}

// PortfolioView 资金账户视图，含持仓市值
type PortfolioView struct {
	Balance        float64 `json:"balance"`
	InitialBalance float64 `json:"initial_balance"`
	TotalPnl       float64 `json:"total_pnl"`
	PositionsValue float64 `json:"positions_value"`
	Equity         float64 `json:"equity"`
	ReturnPercent  float64 `json:"return_percent"`
	OpenPositions  int     `json:"open_positions"`
}

// View 计算账户整体视图
func (s *LedgerService) View(ctx context.Context) (PortfolioView, error) {
	portfolio, err := s.portfolioRepo.FindFirst(ctx)
	if err != nil {
		return PortfolioView{}, err
	}
	openTrades, err := s.TradeRepo.FindOpenTrades(ctx)
	if err != nil {
		return PortfolioView{}, err
	}

	positionsValue := 0.0
	for i := range openTrades {
		positionsValue += openTrades[i].BookValue()
	}

	equity := portfolio.Balance + positionsValue
	returnPercent := 0.0
	if portfolio.InitialBalance > 0 {
		returnPercent = (equity - portfolio.InitialBalance) / portfolio.InitialBalance * 100
	}

	return PortfolioView{
		Balance:        portfolio.Balance,
		InitialBalance: portfolio.InitialBalance,
		TotalPnl:       portfolio.TotalPnl,
		PositionsValue: positionsValue,
		Equity:         equity,
		ReturnPercent:  returnPercent,
		OpenPositions:  len(openTrades),
	}, nil
}

// Stats 交易统计
type Stats struct {
	TotalTrades   int64   `json:"total_trades"`
	OpenTrades    int     `json:"open_trades"`
	Wins          int64   `json:"wins"`
	Losses        int64   `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	TotalPnl      float64 `json:"total_pnl"`
	Equity        float64 `json:"equity"`
	ReturnPercent float64 `json:"return_percent"`
}

// Statistics 计算交易统计
func (s *LedgerService) Statistics(ctx context.Context) (Stats, error) {
	view, err := s.View(ctx)
	if err != nil {
		return Stats{}, err
	}
	wins, losses, err := s.TradeRepo.CountClosedByOutcome(ctx)
	if err != nil {
		return Stats{}, err
	}

	winRate := 0.0
	if wins+losses > 0 {
		winRate = float64(wins) / float64(wins+losses) * 100
	}

	return Stats{
		TotalTrades:   wins + losses + int64(view.OpenPositions),
		OpenTrades:    view.OpenPositions,
		Wins:          wins,
		Losses:        losses,
		WinRate:       winRate,
		TotalPnl:      view.TotalPnl,
		Equity:        view.Equity,
		ReturnPercent: view.ReturnPercent,
	}, nil
}
