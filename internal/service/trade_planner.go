package service

import (
	"fmt"
	"time"

	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/pkg/polymarket"
	"github.com/dushixiang/augury/pkg/quant"
)

// 置信度低于该值的判断直接丢弃，不进入风险过滤
const minConfidence = 10.0

// tradePlan 一笔通过全部过滤的待执行交易
type tradePlan struct {
	Side       polymarket.Side
	EntryPrice float64
	Size       float64
	Edge       float64
	TokenID    string
}

// planTrade 将模型判断转换为交易计划
//
// 依次执行置信度过滤、风险模式过滤、凯利仓位计算。
// 返回 nil 计划时 reason 说明被哪一层拒绝。
func planTrade(settings models.Settings, market polymarket.Market, verdict *Verdict, balance float64, now time.Time) (*tradePlan, string) {
	if verdict.Confidence < minConfidence {
		return nil, fmt.Sprintf("confidence %.0f below threshold", verdict.Confidence)
	}

	if !quant.WithinHorizon(market.ResolvesAt, settings.MaxDays, now) {
		return nil, fmt.Sprintf("resolves beyond %d day horizon", settings.MaxDays)
	}

	price := market.Price(verdict.Side)
	if price <= 0 || price >= 1 {
		return nil, fmt.Sprintf("price %.3f not tradeable", price)
	}

	edge := quant.Edge(verdict.Side, market.YesPrice, market.NoPrice, verdict.Probability)

	decision := quant.Evaluate(quant.Mode(settings.Mode), quant.Signal{
		Side:        verdict.Side,
		MarketPrice: price,
		Probability: verdict.Probability,
		Confidence:  verdict.Confidence,
		Edge:        edge,
	}, settings.AllowShorting)
	if !decision.Accept {
		return nil, fmt.Sprintf("rejected by %s mode (edge %.1f, confidence %.0f)",
			settings.Mode, edge, verdict.Confidence)
	}

	fraction := quant.KellyFraction(price, quant.SideProbability(verdict.Side, verdict.Probability))
	size := quant.CappedSize(fraction, balance, decision.PositionCap, settings.RiskMultiplier)
	if size < quant.MinTradeUSD {
		return nil, fmt.Sprintf("size %.2f below minimum", size)
	}

	return &tradePlan{
		Side:       verdict.Side,
		EntryPrice: price,
		Size:       size,
		Edge:       edge,
		TokenID:    market.TokenID(verdict.Side),
	}, ""
}
