package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TradeStatusOpen   = "open"
	TradeStatusClosed = "closed"

	StrategySniper     = "sniper"
	StrategyResearcher = "researcher"
)

// Trade 预测市场交易记录
type Trade struct {
	ID             string                      `gorm:"primaryKey;type:varchar(26)" json:"id"`
	MarketID       string                      `gorm:"type:varchar(80);not null;index" json:"market_id"`    // 市场ID
	MarketQuestion string                      `gorm:"type:varchar(500);not null" json:"market_question"`   // 市场问题
	Side           string                      `gorm:"type:varchar(5);not null" json:"side"`                // YES/NO
	EntryPrice     float64                     `gorm:"type:decimal(20,8);not null" json:"entry_price"`      // 开仓价格
	CurrentPrice   float64                     `gorm:"type:decimal(20,8)" json:"current_price"`             // 当前价格
	Size           float64                     `gorm:"type:decimal(20,8);not null" json:"size"`             // 仓位金额(USD)
	Shares         float64                     `gorm:"type:decimal(20,8);not null" json:"shares"`           // 份额数
	Pnl            float64                     `gorm:"type:decimal(20,8)" json:"pnl"`                       // 盈亏(平仓后为已实现)
	Status         string                      `gorm:"type:varchar(10);not null;index" json:"status"`       // open/closed
	Strategy       string                      `gorm:"type:varchar(20);not null;index" json:"strategy"`     // sniper/researcher
	Confidence     float64                     `gorm:"type:decimal(10,4)" json:"confidence"`                // 模型置信度 0-100
	Edge           float64                     `gorm:"type:decimal(10,4)" json:"edge"`                      // 优势(百分点)
	Mode           string                      `gorm:"type:varchar(20)" json:"mode"`                        // 开仓时的风险模式
	Reasoning      string                      `gorm:"type:text" json:"reasoning"`                          // 模型推理摘要
	TokenID        string                      `gorm:"type:varchar(100)" json:"token_id"`                   // 对应方向的结果代币ID
	Sources        datatypes.JSONSlice[string] `gorm:"type:json" json:"sources"`                            // 触发来源(头条/研究链接)
	OpenedAt       time.Time                   `gorm:"not null;index" json:"opened_at"`                     // 开仓时间
	ClosedAt       *time.Time                  `json:"closed_at,omitempty"`                                 // 平仓时间
	CloseReason    string                      `gorm:"type:varchar(200)" json:"close_reason,omitempty"`     // 平仓原因
	CreatedAt      time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt              `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Trade) TableName() string {
	return "trades"
}

// BookValue 按当前价格计算的持仓市值
func (t *Trade) BookValue() float64 {
	return t.Shares * t.CurrentPrice
}

// UnrealizedPnl 未实现盈亏
func (t *Trade) UnrealizedPnl() float64 {
	return t.Shares * (t.CurrentPrice - t.EntryPrice)
}

// ROIPercent 相对开仓金额的收益率
func (t *Trade) ROIPercent() float64 {
	if t.Size == 0 {
		return 0
	}
	return t.UnrealizedPnl() / t.Size * 100
}
