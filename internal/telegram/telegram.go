package telegram

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dushixiang/augury/internal/models"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// Settings 机器人配置
type Settings struct {
	Token  string
	ChatID string
	Client *http.Client
}

// StatusFunc 返回当前系统状态文本
type StatusFunc func() string

type Telegram struct {
	logger   *zap.Logger
	settings Settings
	client   *tele.Bot
	status   StatusFunc
}

type Option func(telegram *Telegram)

// WithStatusFunc 注入 /status 命令的数据来源
func WithStatusFunc(fn StatusFunc) Option {
	return func(t *Telegram) {
		t.status = fn
	}
}

// SetStatusFunc 初始化完成后再挂接状态来源
func (r *Telegram) SetStatusFunc(fn StatusFunc) {
	r.status = fn
}

func NewTelegram(logger *zap.Logger, settings Settings, options ...Option) (*Telegram, error) {

	poller := &tele.LongPoller{Timeout: 10 * time.Second}

	userMiddleware := tele.NewMiddlewarePoller(poller, func(u *tele.Update) bool {

		return true
	})

	client, err := tele.NewBot(tele.Settings{
		ParseMode: tele.ModeMarkdown,
		Token:     settings.Token,
		Poller:    userMiddleware,
		Client:    settings.Client,
	})
	if err != nil {
		return nil, err
	}

	client.Use(middleware.AutoRespond())

	err = client.SetCommands([]tele.Command{
		{Text: "/start", Description: "启动机器人"},
		{Text: "/help", Description: "获取帮助信息"},
		{Text: "/status", Description: "查看引擎和账户状态"},
	})
	if err != nil {
		return nil, err
	}

	bot := &Telegram{
		logger:   logger,
		settings: settings,
		client:   client,
	}

	for _, option := range options {
		option(bot)
	}

	client.Handle("/start", func(c tele.Context) error {
		return c.Send("预测市场引擎通知机器人已就绪，使用 /status 查看状态。")
	})
	client.Handle("/help", func(c tele.Context) error {
		return c.Send("/status 查看引擎运行状态和账户概况")
	})
	client.Handle("/status", func(c tele.Context) error {
		if bot.status == nil {
			return c.Send("状态信息暂不可用")
		}
		return c.Send(bot.status())
	})

	return bot, nil
}

func (r *Telegram) Start() {
	go r.client.Start()
}

func (r *Telegram) Notify(msg string) error {
	chatId := cast.ToInt64(r.settings.ChatID)
	if chatId == 0 {
		return nil
	}
	_, err := r.client.Send(tele.ChatID(chatId), msg, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}

// NotifyTradeOpened 推送开仓通知
func (r *Telegram) NotifyTradeOpened(trade *models.Trade) {
	msg := fmt.Sprintf("📈 *开仓* [%s]\n%s\n方向: %s  价格: %.3f\n金额: $%.2f  优势: %.1f",
		trade.Strategy, trade.MarketQuestion, trade.Side, trade.EntryPrice, trade.Size, trade.Edge)
	if err := r.Notify(msg); err != nil {
		r.logger.Warn("failed to send trade notification", zap.Error(err))
	}
}

// NotifyTradeClosed 推送平仓通知
func (r *Telegram) NotifyTradeClosed(trade *models.Trade) {
	emoji := "✅"
	if trade.Pnl < 0 {
		emoji = "❌"
	}
	msg := fmt.Sprintf("%s *平仓* [%s]\n%s\n盈亏: $%.2f (%s)",
		emoji, trade.Strategy, trade.MarketQuestion, trade.Pnl, trade.CloseReason)
	if err := r.Notify(msg); err != nil {
		r.logger.Warn("failed to send trade notification", zap.Error(err))
	}
}
