package service

import (
	"context"
	"fmt"

	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/internal/repo"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const engineLogKeep = 500

// LogService 引擎活动日志服务，写入数据库供前端展示
type LogService struct {
	logger *zap.Logger

	*orz.Service
	*repo.EngineLogRepo
}

// NewLogService 创建日志服务
func NewLogService(db *gorm.DB, logger *zap.Logger) *LogService {
	return &LogService{
		logger:        logger,
		Service:       orz.NewService(db),
		EngineLogRepo: repo.NewEngineLogRepo(db),
	}
}

// Info 记录一条信息日志
func (s *LogService) Info(ctx context.Context, source, format string, args ...any) {
	s.record(ctx, "info", source, fmt.Sprintf(format, args...))
}

// Warn 记录一条警告日志
func (s *LogService) Warn(ctx context.Context, source, format string, args ...any) {
	s.record(ctx, "warn", source, fmt.Sprintf(format, args...))
}

// Error 记录一条错误日志
func (s *LogService) Error(ctx context.Context, source, format string, args ...any) {
	s.record(ctx, "error", source, fmt.Sprintf(format, args...))
}

// Recent 获取最近的日志
func (s *LogService) Recent(ctx context.Context, limit int) ([]models.EngineLog, error) {
	if limit <= 0 || limit > engineLogKeep {
		limit = 100
	}
	return s.EngineLogRepo.FindRecent(ctx, limit)
}

func (s *LogService) record(ctx context.Context, level, source, message string) {
	entry := &models.EngineLog{
		ID:      ulid.Make().String(),
		Level:   level,
		Source:  source,
		Message: message,
	}
	if err := s.EngineLogRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to persist engine log",
			zap.String("source", source),
			zap.Error(err))
		return
	}

	// 只保留最近 engineLogKeep 条，防止日志表无限增长
	if err := s.EngineLogRepo.DeleteBefore(ctx, engineLogKeep); err != nil {
		s.logger.Warn("failed to trim engine logs", zap.Error(err))
	}

	switch level {
	case "error":
		s.logger.Error(message, zap.String("source", source))
	case "warn":
		s.logger.Warn(message, zap.String("source", source))
	default:
		s.logger.Info(message, zap.String("source", source))
	}
}
