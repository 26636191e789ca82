package service

import (
	"context"
	"time"

	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/internal/repo"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MonitorService 持仓监控：刷新价格并记录权益快照
type MonitorService struct {
	logger *zap.Logger

	*orz.Service

	snapshotRepo *repo.AccountSnapshotRepo
	markets      MarketProvider
	ledger       *LedgerService
}

// NewMonitorService 创建监控服务
func NewMonitorService(db *gorm.DB, markets MarketProvider, ledger *LedgerService, logger *zap.Logger) *MonitorService {
	return &MonitorService{
		logger:       logger,
		Service:      orz.NewService(db),
		snapshotRepo: repo.NewAccountSnapshotRepo(db),
		markets:      markets,
		ledger:       ledger,
	}
}

// RunCycle 执行一轮价格刷新
func (s *MonitorService) RunCycle(ctx context.Context) error {
	openTrades, err := s.ledger.FindOpenTrades(ctx)
	if err != nil {
		return err
	}

	for i := range openTrades {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		trade := &openTrades[i]
		if trade.TokenID == "" {
			continue
		}

		// 单个代币报价失败只跳过，保留上次价格
		price, err := s.markets.GetPrice(ctx, trade.TokenID)
		if err != nil {
			s.logger.Debug("price refresh failed",
				zap.String("trade_id", trade.ID),
				zap.String("token_id", trade.TokenID),
				zap.Error(err))
			continue
		}

		if err := s.ledger.UpdatePrice(ctx, trade.ID, price); err != nil {
			s.logger.Warn("failed to update trade price",
				zap.String("trade_id", trade.ID),
				zap.Error(err))
		}
	}

	return s.recordSnapshot(ctx)
}

// recordSnapshot 记录一条账户权益快照
func (s *MonitorService) recordSnapshot(ctx context.Context) error {
	view, err := s.ledger.View(ctx)
	if err != nil {
		return err
	}

	openTrades, err := s.ledger.FindOpenTrades(ctx)
	if err != nil {
		return err
	}

	unrealized := 0.0
	for i := range openTrades {
		unrealized += openTrades[i].UnrealizedPnl()
	}

	snapshot := &models.AccountSnapshot{
		ID:             ulid.Make().String(),
		Balance:        view.Balance,
		Equity:         view.Equity,
		UnrealizedPnl:  unrealized,
		InitialBalance: view.InitialBalance,
		ReturnPercent:  view.ReturnPercent,
		OpenPositions:  view.OpenPositions,
		RecordedAt:     time.Now(),
	}
	return s.snapshotRepo.Create(ctx, snapshot)
}

// EquityCurve 获取权益曲线，days 大于 0 时只返回最近 days 天的快照
func (s *MonitorService) EquityCurve(ctx context.Context, days int) ([]models.AccountSnapshot, error) {
	if days > 0 {
		return s.snapshotRepo.FindSince(ctx, time.Now().AddDate(0, 0, -days))
	}
	return s.snapshotRepo.FindAllOrderByRecordedAt(ctx)
}
