package service

import (
	"context"
	"testing"

	"github.com/dushixiang/augury/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Trade{},
		&models.Portfolio{},
		&models.Settings{},
		&models.EngineLog{},
		&models.AccountSnapshot{},
	))
	return db
}

func newTestLedger(t *testing.T) *LedgerService {
	t.Helper()

	ledger := NewLedgerService(newTestDB(t), zaptest.NewLogger(t))
	require.NoError(t, ledger.Init(context.Background()))
	return ledger
}
