package handler

import (
	"net/http"

	"github.com/dushixiang/augury/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// EngineHandler 引擎控制HTTP处理器
type EngineHandler struct {
	engine          *service.Engine
	ledger          *service.LedgerService
	settingsService *service.SettingsService
	monitorService  *service.MonitorService
	logService      *service.LogService
	markets         service.MarketProvider
	logger          *zap.Logger
}

// NewEngineHandler 创建引擎处理器
func NewEngineHandler(
	engine *service.Engine,
	ledger *service.LedgerService,
	settingsService *service.SettingsService,
	monitorService *service.MonitorService,
	logService *service.LogService,
	markets service.MarketProvider,
	logger *zap.Logger,
) *EngineHandler {
	return &EngineHandler{
		engine:          engine,
		ledger:          ledger,
		settingsService: settingsService,
		monitorService:  monitorService,
		logService:      logService,
		markets:         markets,
		logger:          logger,
	}
}

// GetStatus 获取引擎状态
// GET /api/engine/status
func (h *EngineHandler) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status := h.engine.Status()
	stats, err := h.ledger.Statistics(ctx)
	if err != nil {
		h.logger.Error("failed to get statistics", zap.Error(err))
		return c.JSON(http.StatusOK, map[string]interface{}{
			"engine": status,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"engine": status,
		"stats":  stats,
	})
}

// Start 启动引擎
// POST /api/engine/start
func (h *EngineHandler) Start(c echo.Context) error {
	if err := h.engine.Start(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"running": true,
	})
}

// Stop 停止引擎
// POST /api/engine/stop
func (h *EngineHandler) Stop(c echo.Context) error {
	if err := h.engine.Stop(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"running": false,
	})
}

// GetPortfolio 获取资金账户
// GET /api/engine/portfolio
func (h *EngineHandler) GetPortfolio(c echo.Context) error {
	view, err := h.ledger.View(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// GetOpenTrades 获取未平仓交易
// GET /api/engine/open-trades
func (h *EngineHandler) GetOpenTrades(c echo.Context) error {
	trades, err := h.ledger.FindOpenTrades(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trades)
}

// GetHistory 获取交易历史
// GET /api/engine/history?limit=50
func (h *EngineHandler) GetHistory(c echo.Context) error {
	limit := cast.ToInt(c.QueryParam("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	trades, err := h.ledger.FindRecentTrades(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trades)
}

// GetStats 获取交易统计
// GET /api/engine/stats
func (h *EngineHandler) GetStats(c echo.Context) error {
	stats, err := h.ledger.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// GetSettings 获取引擎参数
// GET /api/engine/settings
func (h *EngineHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.Get())
}

// settingsRequest 参数修改请求体
type settingsRequest struct {
	Mode           *string  `json:"mode" validate:"omitempty,oneof=grind balanced moonshot"`
	MaxDays        *int     `json:"max_days" validate:"omitempty,min=0,max=365"`
	AllowShorting  *bool    `json:"allow_shorting"`
	RiskMultiplier *float64 `json:"risk_multiplier" validate:"omitempty,gte=0.1,lte=3"`
}

// UpdateSettings 修改引擎参数，立即生效
// POST /api/engine/settings
func (h *EngineHandler) UpdateSettings(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.settingsService.Update(c.Request().Context(), service.UpdateRequest{
		Mode:           req.Mode,
		MaxDays:        req.MaxDays,
		AllowShorting:  req.AllowShorting,
		RiskMultiplier: req.RiskMultiplier,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// GetLogs 获取引擎活动日志
// GET /api/engine/logs?limit=100
func (h *EngineHandler) GetLogs(c echo.Context) error {
	limit := cast.ToInt(c.QueryParam("limit"))

	logs, err := h.logService.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}

// GetEquityCurve 获取权益曲线，days 大于 0 时只取最近 days 天
// GET /api/engine/equity-curve?days=7
func (h *EngineHandler) GetEquityCurve(c echo.Context) error {
	days := cast.ToInt(c.QueryParam("days"))
	curve, err := h.monitorService.EquityCurve(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, curve)
}

// RegisterRoutes 注册路由
func (h *EngineHandler) RegisterRoutes(g *echo.Group) {
	engine := g.Group("/engine")

	// 查询接口
	engine.GET("/status", h.GetStatus)
	engine.GET("/portfolio", h.GetPortfolio)
	engine.GET("/open-trades", h.GetOpenTrades)
	engine.GET("/history", h.GetHistory)
	engine.GET("/stats", h.GetStats)
	engine.GET("/settings", h.GetSettings)
	engine.GET("/logs", h.GetLogs)
	engine.GET("/equity-curve", h.GetEquityCurve)
	engine.GET("/markets", h.GetMarkets)

	// 控制接口
	engine.POST("/start", h.Start)
	engine.POST("/stop", h.Stop)
	engine.POST("/settings", h.UpdateSettings)
}

// GetMarkets 获取当前活跃市场，调试用
// GET /api/engine/markets?limit=20
func (h *EngineHandler) GetMarkets(c echo.Context) error {
	limit := cast.ToInt(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	markets, err := h.markets.ListMarkets(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, markets)
}
