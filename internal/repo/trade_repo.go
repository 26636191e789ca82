package repo

import (
	"context"

	"github.com/dushixiang/augury/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewTradeRepo(db *gorm.DB) *TradeRepo {
	return &TradeRepo{
		Repository: orz.NewRepository[models.Trade, string](db),
	}
}

type TradeRepo struct {
	orz.Repository[models.Trade, string]
}

// FindOpenTrades 获取所有未平仓交易
func (r TradeRepo) FindOpenTrades(ctx context.Context) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("status = ?", models.TradeStatusOpen).
		Order("opened_at DESC").
		Find(&trades).Error
	return trades, err
}

// FindRecentTrades 获取最近的交易记录
func (r TradeRepo) FindRecentTrades(ctx context.Context, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("opened_at DESC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

// ExistsOpenTradeByMarket 判断指定市场是否已有未平仓交易
func (r TradeRepo) ExistsOpenTradeByMarket(ctx context.Context, marketID string) (bool, error) {
	var count int64
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("market_id = ? AND status = ?", marketID, models.TradeStatusOpen).
		Count(&count).Error
	return count > 0, err
}

// FindOpenMarketIDs 获取所有未平仓交易对应的市场ID
func (r TradeRepo) FindOpenMarketIDs(ctx context.Context) (map[string]struct{}, error) {
	var marketIDs []string
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("status = ?", models.TradeStatusOpen).
		Pluck("market_id", &marketIDs).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(marketIDs))
	for _, id := range marketIDs {
		set[id] = struct{}{}
	}
	return set, nil
}

// CountClosedByOutcome 统计已平仓交易的胜负场数
func (r TradeRepo) CountClosedByOutcome(ctx context.Context) (wins int64, losses int64, err error) {
	db := r.GetDB(ctx)
	if err = db.Table(r.GetTableName()).
		Where("status = ? AND pnl > 0", models.TradeStatusClosed).
		Count(&wins).Error; err != nil {
		return 0, 0, err
	}
	err = db.Table(r.GetTableName()).
		Where("status = ? AND pnl <= 0", models.TradeStatusClosed).
		Count(&losses).Error
	return wins, losses, err
}
