package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dushixiang/augury/pkg/polymarket"
)

func TestEvaluateModeTable(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		sig     Signal
		accept  bool
		wantCap float64
	}{
		{
			name:    "grind accepts high confidence small edge",
			mode:    ModeGrind,
			sig:     Signal{Side: polymarket.SideYes, Confidence: 86, Edge: 5, MarketPrice: 0.5, Probability: 0.55},
			accept:  true,
			wantCap: 0.05,
		},
		{
			name:   "balanced rejects the same signal on edge",
			mode:   ModeBalanced,
			sig:    Signal{Side: polymarket.SideYes, Confidence: 86, Edge: 5, MarketPrice: 0.5, Probability: 0.55},
			accept: false,
		},
		{
			name:   "grind rejects at confidence boundary",
			mode:   ModeGrind,
			sig:    Signal{Side: polymarket.SideYes, Confidence: 85, Edge: 5},
			accept: false,
		},
		{
			name:   "grind rejects at edge boundary",
			mode:   ModeGrind,
			sig:    Signal{Side: polymarket.SideYes, Confidence: 90, Edge: 4},
			accept: false,
		},
		{
			name:    "balanced accepts growth signal",
			mode:    ModeBalanced,
			sig:     Signal{Side: polymarket.SideYes, Confidence: 90, Edge: 10, MarketPrice: 0.60, Probability: 0.70},
			accept:  true,
			wantCap: 0.15,
		},
		{
			name:   "balanced rejects low confidence",
			mode:   ModeBalanced,
			sig:    Signal{Side: polymarket.SideYes, Confidence: 70, Edge: 12},
			accept: false,
		},
		{
			name:    "moonshot accepts longshot",
			mode:    ModeMoonshot,
			sig:     Signal{Side: polymarket.SideYes, Confidence: 40, Edge: 20, MarketPrice: 0.15, Probability: 0.35},
			accept:  true,
			wantCap: 0.25,
		},
		{
			name:   "moonshot rejects price above threshold",
			mode:   ModeMoonshot,
			sig:    Signal{Side: polymarket.SideYes, Confidence: 40, Edge: 20, MarketPrice: 0.25, Probability: 0.60},
			accept: false,
		},
		{
			name:   "moonshot rejects insufficient probability ratio",
			mode:   ModeMoonshot,
			sig:    Signal{Side: polymarket.SideYes, Confidence: 40, Edge: 5, MarketPrice: 0.15, Probability: 0.25},
			accept: false,
		},
		{
			name:    "moonshot no side uses inverse probability",
			mode:    ModeMoonshot,
			sig:     Signal{Side: polymarket.SideNo, Confidence: 40, Edge: 20, MarketPrice: 0.10, Probability: 0.70},
			accept:  true,
			wantCap: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.mode, tt.sig, true)
			assert.Equal(t, tt.accept, got.Accept)
			if tt.accept {
				assert.InDelta(t, tt.wantCap, got.PositionCap, 1e-9)
			} else {
				assert.Zero(t, got.PositionCap)
			}
		})
	}
}

// 做空开关关闭时，NO 信号在进入模式决策表之前就被拒绝
func TestEvaluateShortingDisabled(t *testing.T) {
	sig := Signal{Side: polymarket.SideNo, Confidence: 95, Edge: 30, MarketPrice: 0.05, Probability: 0.10}

	for _, mode := range []Mode{ModeGrind, ModeBalanced, ModeMoonshot} {
		got := Evaluate(mode, sig, false)
		assert.Falsef(t, got.Accept, "mode=%s", mode)
	}

	// 同一信号在允许做空时应当被 moonshot 接受
	assert.True(t, Evaluate(ModeMoonshot, sig, true).Accept)
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeGrind.Valid())
	assert.True(t, ModeBalanced.Valid())
	assert.True(t, ModeMoonshot.Valid())
	assert.False(t, Mode("yolo").Valid())
	assert.False(t, Mode("").Valid())
}
