package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountSnapshot 账户权益快照，监控任务每轮记录一次
type AccountSnapshot struct {
	ID             string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Balance        float64        `gorm:"type:decimal(20,8);not null" json:"balance"`         // 可用现金
	Equity         float64        `gorm:"type:decimal(20,8);not null" json:"equity"`          // 现金+持仓市值
	UnrealizedPnl  float64        `gorm:"type:decimal(20,8)" json:"unrealized_pnl"`           // 未实现盈亏
	InitialBalance float64        `gorm:"type:decimal(20,8)" json:"initial_balance"`          // 初始资金
	ReturnPercent  float64        `gorm:"type:decimal(10,4)" json:"return_percent"`           // 总收益率
	OpenPositions  int            `gorm:"type:int" json:"open_positions"`                     // 持仓数量
	RecordedAt     time.Time      `gorm:"not null;index" json:"recorded_at"`                  // 记录时间
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (AccountSnapshot) TableName() string {
	return "account_snapshots"
}
