package repo

import (
	"context"
	"time"

	"github.com/dushixiang/augury/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewAccountSnapshotRepo(db *gorm.DB) *AccountSnapshotRepo {
	return &AccountSnapshotRepo{
		Repository: orz.NewRepository[models.AccountSnapshot, string](db),
	}
}

type AccountSnapshotRepo struct {
	orz.Repository[models.AccountSnapshot, string]
}

// FindAllOrderByRecordedAt 获取全部权益快照（按时间排序），权益曲线展示用
func (r AccountSnapshotRepo) FindAllOrderByRecordedAt(ctx context.Context) ([]models.AccountSnapshot, error) {
	var snapshots []models.AccountSnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("recorded_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}

// FindSince 获取指定时间之后的权益快照
func (r AccountSnapshotRepo) FindSince(ctx context.Context, since time.Time) ([]models.AccountSnapshot, error) {
	var snapshots []models.AccountSnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("recorded_at >= ?", since).
		Order("recorded_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}
