package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/internal/repo"
	"github.com/dushixiang/augury/internal/xe"
	"github.com/dushixiang/augury/pkg/quant"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultMaxDays        = 30
	defaultRiskMultiplier = 1.0
)

// SettingsService 引擎参数服务，修改即时生效
type SettingsService struct {
	logger *zap.Logger

	*orz.Service
	*repo.SettingsRepo

	// 当前参数的原子快照，策略任务高频读取
	current atomic.Pointer[models.Settings]
}

// NewSettingsService 创建参数服务
func NewSettingsService(db *gorm.DB, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		logger:       logger,
		Service:      orz.NewService(db),
		SettingsRepo: repo.NewSettingsRepo(db),
	}
}

// Init 加载参数，数据库为空时写入默认值
func (s *SettingsService) Init(ctx context.Context) error {
	settings, err := s.SettingsRepo.FindFirst(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		settings = models.Settings{
			ID:             ulid.Make().String(),
			Mode:           string(quant.ModeBalanced),
			MaxDays:        defaultMaxDays,
			AllowShorting:  true,
			RiskMultiplier: defaultRiskMultiplier,
		}
		if err := s.SettingsRepo.Create(ctx, &settings); err != nil {
			return err
		}
		s.logger.Info("initialized default settings",
			zap.String("mode", settings.Mode))
	}

	s.current.Store(&settings)
	return nil
}

// Get 获取当前参数快照
func (s *SettingsService) Get() models.Settings {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return models.Settings{
		Mode:           string(quant.ModeBalanced),
		MaxDays:        defaultMaxDays,
		AllowShorting:  true,
		RiskMultiplier: defaultRiskMultiplier,
	}
}

// UpdateRequest 参数修改请求
type UpdateRequest struct {
	Mode           *string  `json:"mode"`
	MaxDays        *int     `json:"max_days"`
	AllowShorting  *bool    `json:"allow_shorting"`
	RiskMultiplier *float64 `json:"risk_multiplier"`
}

// Update 修改参数，下一轮任务即按新值执行
func (s *SettingsService) Update(ctx context.Context, req UpdateRequest) (models.Settings, error) {
	settings, err := s.SettingsRepo.FindFirst(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	if req.Mode != nil {
		if !quant.Mode(*req.Mode).Valid() {
			return models.Settings{}, xe.ErrInvalidRiskMode
		}
		settings.Mode = *req.Mode
	}
	if req.MaxDays != nil {
		// 0 表示不限结算期
		if *req.MaxDays < 0 || *req.MaxDays > 365 {
			return models.Settings{}, xe.ErrInvalidParams
		}
		settings.MaxDays = *req.MaxDays
	}
	if req.AllowShorting != nil {
		settings.AllowShorting = *req.AllowShorting
	}
	if req.RiskMultiplier != nil {
		if *req.RiskMultiplier < 0.1 || *req.RiskMultiplier > 3.0 {
			return models.Settings{}, xe.ErrInvalidParams
		}
		settings.RiskMultiplier = *req.RiskMultiplier
	}

	if err := s.SettingsRepo.Save(ctx, &settings); err != nil {
		return models.Settings{}, err
	}

	s.current.Store(&settings)
	s.logger.Info("settings updated",
		zap.String("mode", settings.Mode),
		zap.Int("max_days", settings.MaxDays),
		zap.Bool("allow_shorting", settings.AllowShorting),
		zap.Float64("risk_multiplier", settings.RiskMultiplier),
	)

	return settings, nil
}
