// Package quant 提供交易经济学的纯函数计算：优势（edge）、凯利仓位、仓位上限
package quant

import (
	"time"

	"github.com/dushixiang/augury/pkg/polymarket"
)

// MinTradeUSD 最小可行交易金额（美元），低于该值的信号直接放弃
const MinTradeUSD = 1.0

// maxKellyFraction 凯利公式的硬上限，避免全押
const maxKellyFraction = 0.5

// Edge 计算指定方向的优势百分比
//
// prob 是 AI 估计的 YES 真实概率（0-1）：
//   - YES: edge = (prob - yesPrice) * 100，即 YES 被低估的程度
//   - NO:  edge = ((1-prob) - noPrice) * 100，即 NO 被低估的程度
//
// 正值表示该方向有利。
func Edge(side polymarket.Side, yesPrice, noPrice, prob float64) float64 {
	if side == polymarket.SideNo {
		return ((1 - prob) - noPrice) * 100
	}
	return (prob - yesPrice) * 100
}

// SideProbability 返回指定方向获胜的概率（prob 是 YES 的真实概率）
func SideProbability(side polymarket.Side, prob float64) float64 {
	if side == polymarket.SideNo {
		return 1 - prob
	}
	return prob
}

// KellyFraction 凯利公式: f* = (bp - q) / b
//
// price 是所买方向的份额价格，prob 是该方向获胜的真实概率。
// b = (1/price) - 1 为赔率，q = 1 - prob。
// 退化市场（price <= 0 或 >= 1）和无优势情形返回 0，结果截断在 [0, 0.5]。
func KellyFraction(price, prob float64) float64 {
	if price <= 0 || price >= 1 {
		return 0
	}

	b := (1 / price) - 1
	if b <= 0 {
		return 0
	}

	q := 1 - prob
	fStar := (b*prob - q) / b

	if fStar < 0 {
		return 0
	}
	if fStar > maxKellyFraction {
		return maxKellyFraction
	}
	return fStar
}

// CappedSize 计算美元仓位: min(f*risk, cap) * balance
//
// 风险系数先作用于凯利比例，模式上限 cap 是最终硬上限。
// 调用方负责拒绝低于 MinTradeUSD 或超过可用余额的结果。
func CappedSize(fraction, balance, cap, riskMult float64) float64 {
	size := fraction * riskMult
	if size > cap {
		size = cap
	}
	if size < 0 {
		size = 0
	}
	return size * balance
}

// WithinHorizon 检查市场是否在 maxDays 天内结算
//
// maxDays 为 0 表示不限结算期。结算时间未知（零值）时放行，
// 与数据源缺失 endDate 字段的情形一致。
func WithinHorizon(resolvesAt time.Time, maxDays int, now time.Time) bool {
	if maxDays <= 0 || resolvesAt.IsZero() {
		return true
	}
	return !resolvesAt.After(now.AddDate(0, 0, maxDays))
}
