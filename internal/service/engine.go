package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultSniperInterval     = 30 * time.Second
	defaultResearcherInterval = 10 * time.Minute
	defaultMonitorInterval    = time.Minute
)

// EngineConf 调度间隔配置
type EngineConf struct {
	SniperInterval     time.Duration
	ResearcherInterval time.Duration
	MonitorInterval    time.Duration
}

func (c EngineConf) withDefaults() EngineConf {
	if c.SniperInterval <= 0 {
		c.SniperInterval = defaultSniperInterval
	}
	if c.ResearcherInterval <= 0 {
		c.ResearcherInterval = defaultResearcherInterval
	}
	if c.MonitorInterval <= 0 {
		c.MonitorInterval = defaultMonitorInterval
	}
	return c
}

// Engine 策略调度引擎
//
// 三个任务各自按固定间隔触发，同一任务不会重叠执行，
// 不同任务可以并发。停止引擎会取消任务上下文，未完成的
// 周期在下一次数据库操作处中断。
type Engine struct {
	logger *zap.Logger
	conf   EngineConf

	sniper     *SniperService
	researcher *ResearcherService
	monitor    *MonitorService
	settings   *SettingsService
	engineLog  *LogService

	mu        sync.Mutex
	running   bool
	startTime time.Time
	cron      *cron.Cron
	cancel    context.CancelFunc
}

// NewEngine 创建调度引擎
func NewEngine(
	conf EngineConf,
	sniper *SniperService,
	researcher *ResearcherService,
	monitor *MonitorService,
	settings *SettingsService,
	engineLog *LogService,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		logger:     logger,
		conf:       conf.withDefaults(),
		sniper:     sniper,
		researcher: researcher,
		monitor:    monitor,
		settings:   settings,
		engineLog:  engineLog,
	}
}

// Start 启动引擎，已在运行时直接返回
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.startTime = time.Now()

	// 同一任务未执行完时跳过本次触发
	e.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context) error
	}{
		{"sniper", e.conf.SniperInterval, e.sniper.RunCycle},
		{"researcher", e.conf.ResearcherInterval, e.researcher.RunCycle},
		{"monitor", e.conf.MonitorInterval, e.monitor.RunCycle},
	}
	for _, job := range jobs {
		job := job
		spec := fmt.Sprintf("@every %s", job.interval)
		if _, err := e.cron.AddFunc(spec, func() {
			if ctx.Err() != nil {
				return
			}
			if err := job.run(ctx); err != nil && ctx.Err() == nil {
				e.logger.Error("job cycle failed",
					zap.String("job", job.name),
					zap.Error(err))
				e.engineLog.Error(ctx, job.name, "%s cycle error: %v", job.name, err)
			}
		}); err != nil {
			cancel()
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}
	}

	e.cron.Start()
	e.running = true

	e.logger.Info("engine started",
		zap.Duration("sniper_interval", e.conf.SniperInterval),
		zap.Duration("researcher_interval", e.conf.ResearcherInterval),
		zap.Duration("monitor_interval", e.conf.MonitorInterval),
	)
	e.engineLog.Info(context.Background(), "engine", "trading engine started")
	return nil
}

// Stop 停止引擎，未运行时直接返回
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}

	// 先取消任务上下文，执行中的周期不再落库
	e.cancel()
	stopCtx := e.cron.Stop()
	<-stopCtx.Done()

	e.running = false
	e.cron = nil
	e.cancel = nil

	e.logger.Info("engine stopped")
	e.engineLog.Info(context.Background(), "engine", "trading engine stopped")
	return nil
}

// EngineStatus 引擎状态
type EngineStatus struct {
	Running       bool    `json:"running"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Mode          string  `json:"mode"`
	MaxDays       int     `json:"max_days"`
	AllowShorting bool    `json:"allow_shorting"`
}

// Status 获取引擎当前状态
func (e *Engine) Status() EngineStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	settings := e.settings.Get()
	status := EngineStatus{
		Running:       e.running,
		Mode:          settings.Mode,
		MaxDays:       settings.MaxDays,
		AllowShorting: settings.AllowShorting,
	}
	if e.running {
		status.UptimeSeconds = time.Since(e.startTime).Seconds()
	}
	return status
}
