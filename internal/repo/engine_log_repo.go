package repo

import (
	"context"

	"github.com/dushixiang/augury/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewEngineLogRepo(db *gorm.DB) *EngineLogRepo {
	return &EngineLogRepo{
		Repository: orz.NewRepository[models.EngineLog, string](db),
	}
}

type EngineLogRepo struct {
	orz.Repository[models.EngineLog, string]
}

// FindRecent 获取最近的引擎日志
func (r EngineLogRepo) FindRecent(ctx context.Context, limit int) ([]models.EngineLog, error) {
	var logs []models.EngineLog
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// DeleteBefore 清理过旧的日志
func (r EngineLogRepo) DeleteBefore(ctx context.Context, keep int) error {
	db := r.GetDB(ctx)
	sub := db.Table(r.GetTableName()).
		Select("id").
		Order("created_at DESC").
		Limit(keep)
	return db.Table(r.GetTableName()).
		Where("id NOT IN (?)", sub).
		Delete(&models.EngineLog{}).Error
}
