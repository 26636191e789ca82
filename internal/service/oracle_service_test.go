package service

import (
	"testing"

	"github.com/dushixiang/augury/pkg/polymarket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	verdict, err := ParseVerdict(`{"side":"YES","probability":72,"confidence":85,"reasoning":"polls moved"}`)
	require.NoError(t, err)
	assert.Equal(t, polymarket.SideYes, verdict.Side)
	assert.InDelta(t, 0.72, verdict.Probability, 1e-9)
	assert.InDelta(t, 85.0, verdict.Confidence, 1e-9)
	assert.Equal(t, "polls moved", verdict.Reasoning)
}

func TestParseVerdictCodeFence(t *testing.T) {
	raw := "```json\n{\"side\":\"no\",\"probability\":30,\"confidence\":60,\"reasoning\":\"weak\"}\n```"
	verdict, err := ParseVerdict(raw)
	require.NoError(t, err)
	assert.Equal(t, polymarket.SideNo, verdict.Side)
	assert.InDelta(t, 0.30, verdict.Probability, 1e-9)
}

func TestParseVerdictSurroundingText(t *testing.T) {
	raw := `Sure, here is my analysis: {"side":"YES","probability":55,"confidence":40,"reasoning":"even odds"} hope that helps`
	verdict, err := ParseVerdict(raw)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, verdict.Probability, 1e-9)
}

func TestParseVerdictRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "the market will probably resolve YES"},
		{"bad side", `{"side":"MAYBE","probability":50,"confidence":50}`},
		{"probability too high", `{"side":"YES","probability":150,"confidence":50}`},
		{"negative probability", `{"side":"YES","probability":-5,"confidence":50}`},
		{"confidence too high", `{"side":"YES","probability":50,"confidence":130}`},
		{"truncated", `{"side":"YES","probability":50`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseVerdict(tc.raw)
			assert.Error(t, err)
		})
	}
}
