package quant

import "github.com/dushixiang/augury/pkg/polymarket"

// Mode 风险模式，约束接受哪些信号以及仓位上限
type Mode string

const (
	ModeGrind    Mode = "grind"    // 保守：高确信度小仓位
	ModeBalanced Mode = "balanced" // 平衡：默认模式
	ModeMoonshot Mode = "moonshot" // 激进：低概率高赔率的不对称下注
)

// Valid 检查模式是否合法
func (m Mode) Valid() bool {
	switch m {
	case ModeGrind, ModeBalanced, ModeMoonshot:
		return true
	}
	return false
}

// Signal 待评估的交易信号
type Signal struct {
	Side        polymarket.Side
	MarketPrice float64 // 所买方向的市场价格（0-1）
	Probability float64 // AI 估计的 YES 真实概率（0-1）
	Confidence  float64 // AI 确信度（0-100）
	Edge        float64 // 优势百分比
}

// Decision 模式决策表的评估结果
type Decision struct {
	Accept      bool    // 是否接受信号
	PositionCap float64 // 仓位上限（组合净值的比例）
}

// 各模式的仓位上限
const (
	grindCap    = 0.05
	balancedCap = 0.15
	moonshotCap = 0.25
)

// Evaluate 按模式决策表评估信号
//
//	grind:    确信度 > 85 且 edge > 4%，上限 5%
//	balanced: 确信度 > 70 且 edge > 8%，上限 15%
//	moonshot: 市场隐含概率 < 20% 且 AI 概率 > 2 倍隐含概率，上限 25%
//
// allowShorting=false 时 NO 方向信号在进入决策表之前就被拒绝。
func Evaluate(mode Mode, sig Signal, allowShorting bool) Decision {
	if sig.Side == polymarket.SideNo && !allowShorting {
		return Decision{}
	}

	switch mode {
	case ModeGrind:
		if sig.Confidence > 85 && sig.Edge > 4 {
			return Decision{Accept: true, PositionCap: grindCap}
		}
	case ModeBalanced:
		if sig.Confidence > 70 && sig.Edge > 8 {
			return Decision{Accept: true, PositionCap: balancedCap}
		}
	case ModeMoonshot:
		sideProb := SideProbability(sig.Side, sig.Probability)
		if sig.MarketPrice < 0.20 && sideProb > sig.MarketPrice*2 {
			return Decision{Accept: true, PositionCap: moonshotCap}
		}
	}

	return Decision{}
}
