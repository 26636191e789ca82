package service

import (
	"github.com/dushixiang/augury/internal/models"
)

// Notifier 交易通知接口，未配置通知渠道时使用空实现
type Notifier interface {
	NotifyTradeOpened(trade *models.Trade)
	NotifyTradeClosed(trade *models.Trade)
}

type noopNotifier struct{}

func (noopNotifier) NotifyTradeOpened(*models.Trade) {}

func (noopNotifier) NotifyTradeClosed(*models.Trade) {}

// NewNoopNotifier 创建空通知器
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}
