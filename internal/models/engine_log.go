package models

import (
	"time"
)

// EngineLog 引擎运行日志，前端活动流展示用
type EngineLog struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Level     string    `gorm:"type:varchar(10);not null;index" json:"level"` // info/warn/error
	Source    string    `gorm:"type:varchar(20);not null;index" json:"source"` // sniper/researcher/monitor/engine
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (EngineLog) TableName() string {
	return "engine_logs"
}
