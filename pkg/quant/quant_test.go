package quant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dushixiang/augury/pkg/polymarket"
)

func TestEdge(t *testing.T) {
	tests := []struct {
		name     string
		side     polymarket.Side
		yesPrice float64
		noPrice  float64
		prob     float64
		want     float64
	}{
		{"yes undervalued", polymarket.SideYes, 0.60, 0.40, 0.70, 10.0},
		{"no overpriced", polymarket.SideNo, 0.60, 0.40, 0.70, -10.0},
		{"yes fairly priced", polymarket.SideYes, 0.50, 0.50, 0.50, 0.0},
		{"no undervalued", polymarket.SideNo, 0.80, 0.20, 0.65, 15.0},
		{"yes overpriced", polymarket.SideYes, 0.90, 0.10, 0.60, -30.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Edge(tt.side, tt.yesPrice, tt.noPrice, tt.prob)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// 同一市场 YES 和 NO 两侧的 edge 之和应为零（价格互补时）
func TestEdgeSidesSumToZero(t *testing.T) {
	yesPrice := 0.37
	noPrice := 1 - yesPrice
	prob := 0.55

	sum := Edge(polymarket.SideYes, yesPrice, noPrice, prob) +
		Edge(polymarket.SideNo, yesPrice, noPrice, prob)
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestKellyFraction(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		prob  float64
		want  float64
	}{
		// b = 1/0.6 - 1 = 0.6667, f* = (0.6667*0.7 - 0.3) / 0.6667 = 0.25
		{"positive edge", 0.60, 0.70, 0.25},
		{"no edge at fair price", 0.60, 0.60, 0.0},
		{"negative edge clamped to zero", 0.60, 0.50, 0.0},
		{"strong edge capped at half", 0.05, 0.90, 0.5},
		{"degenerate price zero", 0.0, 0.70, 0.0},
		{"degenerate price one", 1.0, 0.70, 0.0},
		{"price above one", 1.2, 0.70, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KellyFraction(tt.price, tt.prob)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

// 对任意 price ∈ (0,1)，prob <= price 时凯利比例必须为 0
func TestKellyFractionNoEdgeProperty(t *testing.T) {
	for price := 0.05; price < 1.0; price += 0.05 {
		for prob := 0.0; prob <= price; prob += 0.05 {
			got := KellyFraction(price, prob)
			assert.Zerof(t, got, "price=%.2f prob=%.2f", price, prob)
		}
	}
}

func TestSideProbability(t *testing.T) {
	assert.InDelta(t, 0.7, SideProbability(polymarket.SideYes, 0.7), 1e-9)
	assert.InDelta(t, 0.3, SideProbability(polymarket.SideNo, 0.7), 1e-9)
}

func TestCappedSize(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		balance  float64
		cap      float64
		riskMult float64
		want     float64
	}{
		// 凯利 0.25 超过 balanced 上限 15% → $15
		{"cap binds", 0.25, 100, 0.15, 1.0, 15},
		{"kelly binds", 0.03, 100, 0.15, 1.0, 3},
		{"risk multiplier cannot exceed cap", 0.10, 100, 0.15, 3.0, 15},
		{"risk multiplier scales below cap", 0.04, 100, 0.15, 2.0, 8},
		{"zero fraction", 0, 100, 0.15, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CappedSize(tt.fraction, tt.balance, tt.cap, tt.riskMult)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestWithinHorizon(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, WithinHorizon(time.Time{}, 30, now), "unknown resolution date is allowed")
	assert.True(t, WithinHorizon(now.AddDate(0, 0, 10), 30, now))
	assert.True(t, WithinHorizon(now.AddDate(0, 0, 30), 30, now))
	assert.False(t, WithinHorizon(now.AddDate(0, 0, 40), 30, now))

	// maxDays 为 0 表示不限结算期
	assert.True(t, WithinHorizon(now.AddDate(0, 0, 400), 0, now))
}
