package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams = orz.NewError(10400, "参数无效")

	ErrInsufficientBalance = orz.NewError(10100, "余额不足")
	ErrTradeNotFound       = orz.NewError(10101, "交易不存在")
	ErrTradeAlreadyClosed  = orz.NewError(10102, "交易已平仓")
	ErrInvalidRiskMode     = orz.NewError(10103, "无效的风险模式")
)
