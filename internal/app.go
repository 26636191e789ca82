package internal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dushixiang/augury/internal/config"
	"github.com/dushixiang/augury/internal/handler"
	"github.com/dushixiang/augury/internal/models"
	"github.com/dushixiang/augury/internal/service"
	"github.com/dushixiang/augury/internal/telegram"
	"github.com/dushixiang/augury/pkg/nostd"
	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewAuguryApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewAuguryApp() orz.Application {
	return &AuguryApp{}
}

var _ orz.Application = (*AuguryApp)(nil)

type AppComponents struct {
	EngineHandler *handler.EngineHandler

	Engine   *service.Engine
	Ledger   *service.LedgerService
	Settings *service.SettingsService
	Monitor  *service.MonitorService
	Logs     *service.LogService

	Telegram *telegram.Telegram
}

type AuguryApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *AuguryApp) GetComponents() *AppComponents {
	return r.components
}

func (r *AuguryApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.Trade{}, models.Portfolio{}, models.Settings{},
		models.EngineLog{}, models.AccountSnapshot{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	api := e.Group("/api")
	{
		if r.components.EngineHandler != nil {
			r.components.EngineHandler.RegisterRoutes(api)
		}
	}

	return nil
}

func (r *AuguryApp) Init(logger *zap.Logger) error {
	logger.Info("=================================================")
	logger.Info("Augury Prediction Market Engine Starting...")
	logger.Info("=================================================")

	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	ctx := context.Background()

	// 初始化资金账户和引擎参数
	if err := components.Ledger.Init(ctx); err != nil {
		return fmt.Errorf("failed to init portfolio: %w", err)
	}
	if err := components.Settings.Init(ctx); err != nil {
		return fmt.Errorf("failed to init settings: %w", err)
	}

	if components.Telegram != nil {
		components.Telegram.SetStatusFunc(func() string {
			status := components.Engine.Status()
			view, err := components.Ledger.View(ctx)
			if err != nil {
				return fmt.Sprintf("引擎运行中: %v (账户信息获取失败)", status.Running)
			}
			return fmt.Sprintf(
				"引擎运行中: %v\n模式: %s\n权益: $%.2f (%.1f%%)\n持仓: %d",
				status.Running, status.Mode, view.Equity, view.ReturnPercent, view.OpenPositions,
			)
		})
		components.Telegram.Start()
	}

	if r.conf.Engine.AutoStart {
		logger.Info("auto starting trading engine")
		if err := components.Engine.Start(); err != nil {
			return fmt.Errorf("failed to auto start engine: %w", err)
		}
	}

	return nil
}
