package models

import (
	"time"
)

// Settings 引擎运行参数(单行，可热更新)
type Settings struct {
	ID             string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Mode           string    `gorm:"type:varchar(20);not null" json:"mode"`        // grind/balanced/moonshot
	MaxDays        int       `gorm:"type:int;not null" json:"max_days"`            // 只交易N天内到期的市场,0为不限
	AllowShorting  bool      `gorm:"not null" json:"allow_shorting"`               // 是否允许NO方向
	RiskMultiplier float64   `gorm:"type:decimal(10,4)" json:"risk_multiplier"`    // 仓位系数
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Settings) TableName() string {
	return "settings"
}
