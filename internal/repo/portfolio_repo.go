package repo

import (
	"context"

	"github.com/dushixiang/augury/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewPortfolioRepo(db *gorm.DB) *PortfolioRepo {
	return &PortfolioRepo{
		Repository: orz.NewRepository[models.Portfolio, string](db),
	}
}

type PortfolioRepo struct {
	orz.Repository[models.Portfolio, string]
}

// FindFirst 获取资金账户(单行)
func (r PortfolioRepo) FindFirst(ctx context.Context) (m models.Portfolio, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).First(&m).Error
	return m, err
}
