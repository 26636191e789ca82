package service

import (
	"context"
	"testing"

	"github.com/dushixiang/augury/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLogServiceRecent(t *testing.T) {
	db := newTestDB(t)
	logs := NewLogService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	logs.Info(ctx, "engine", "started")
	logs.Warn(ctx, "sniper", "no markets")
	logs.Error(ctx, "monitor", "clob unavailable")

	recent, err := logs.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "error", recent[0].Level)
	assert.Equal(t, "monitor", recent[0].Source)
}

func TestLogServiceRetention(t *testing.T) {
	db := newTestDB(t)
	logs := NewLogService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < engineLogKeep+20; i++ {
		logs.Info(ctx, "engine", "entry %d", i)
	}

	// 表中只保留最近 engineLogKeep 条
	var count int64
	require.NoError(t, db.Model(&models.EngineLog{}).Count(&count).Error)
	assert.EqualValues(t, engineLogKeep, count)

	recent, err := logs.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
}
