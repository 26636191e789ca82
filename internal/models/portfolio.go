package models

import (
	"time"
)

// Portfolio 模拟资金账户(单行)
type Portfolio struct {
	ID             string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Balance        float64   `gorm:"type:decimal(20,8);not null" json:"balance"`         // 可用现金余额
	InitialBalance float64   `gorm:"type:decimal(20,8);not null" json:"initial_balance"` // 初始资金
	TotalPnl       float64   `gorm:"type:decimal(20,8)" json:"total_pnl"`                // 累计已实现盈亏
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Portfolio) TableName() string {
	return "portfolio"
}
