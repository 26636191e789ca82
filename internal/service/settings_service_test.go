package service

import (
	"context"
	"testing"

	"github.com/dushixiang/augury/internal/xe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestSettingsInitDefaults(t *testing.T) {
	settings := newTestSettings(t, newTestDB(t))

	current := settings.Get()
	assert.Equal(t, "balanced", current.Mode)
	assert.Equal(t, 30, current.MaxDays)
	assert.True(t, current.AllowShorting)
	assert.InDelta(t, 1.0, current.RiskMultiplier, 1e-9)
}

func TestSettingsUpdate(t *testing.T) {
	settings := newTestSettings(t, newTestDB(t))
	ctx := context.Background()

	updated, err := settings.Update(ctx, UpdateRequest{
		Mode:           strPtr("moonshot"),
		MaxDays:        intPtr(7),
		AllowShorting:  boolPtr(false),
		RiskMultiplier: floatPtr(0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "moonshot", updated.Mode)

	// 快照立即可见
	current := settings.Get()
	assert.Equal(t, "moonshot", current.Mode)
	assert.Equal(t, 7, current.MaxDays)
	assert.False(t, current.AllowShorting)
	assert.InDelta(t, 0.5, current.RiskMultiplier, 1e-9)
}

func TestSettingsUpdatePartial(t *testing.T) {
	settings := newTestSettings(t, newTestDB(t))

	_, err := settings.Update(context.Background(), UpdateRequest{MaxDays: intPtr(14)})
	require.NoError(t, err)

	current := settings.Get()
	assert.Equal(t, "balanced", current.Mode)
	assert.Equal(t, 14, current.MaxDays)
}

func TestSettingsUpdateRejectsInvalid(t *testing.T) {
	settings := newTestSettings(t, newTestDB(t))
	ctx := context.Background()

	_, err := settings.Update(ctx, UpdateRequest{Mode: strPtr("yolo")})
	assert.ErrorIs(t, err, xe.ErrInvalidRiskMode)

	_, err = settings.Update(ctx, UpdateRequest{MaxDays: intPtr(-1)})
	assert.ErrorIs(t, err, xe.ErrInvalidParams)

	_, err = settings.Update(ctx, UpdateRequest{MaxDays: intPtr(400)})
	assert.ErrorIs(t, err, xe.ErrInvalidParams)

	_, err = settings.Update(ctx, UpdateRequest{RiskMultiplier: floatPtr(0.05)})
	assert.ErrorIs(t, err, xe.ErrInvalidParams)

	_, err = settings.Update(ctx, UpdateRequest{RiskMultiplier: floatPtr(3.5)})
	assert.ErrorIs(t, err, xe.ErrInvalidParams)

	// 失败的修改不能影响快照
	assert.Equal(t, "balanced", settings.Get().Mode)
	assert.InDelta(t, 1.0, settings.Get().RiskMultiplier, 1e-9)
}

func TestSettingsUpdateBoundaries(t *testing.T) {
	settings := newTestSettings(t, newTestDB(t))
	ctx := context.Background()

	// max_days 为 0 表示不限结算期，属于合法取值
	updated, err := settings.Update(ctx, UpdateRequest{
		MaxDays:        intPtr(0),
		RiskMultiplier: floatPtr(0.1),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.MaxDays)
	assert.InDelta(t, 0.1, updated.RiskMultiplier, 1e-9)

	updated, err = settings.Update(ctx, UpdateRequest{RiskMultiplier: floatPtr(3.0)})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, updated.RiskMultiplier, 1e-9)
}
