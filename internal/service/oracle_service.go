package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dushixiang/augury/pkg/llm"
	"github.com/dushixiang/augury/pkg/polymarket"
	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
)

//go:embed templates/sniper_system.txt
var sniperSystemPrompt string

//go:embed templates/sniper_user.txt
var sniperUserTemplate string

//go:embed templates/researcher_system.txt
var researcherSystemPrompt string

//go:embed templates/researcher_user.txt
var researcherUserTemplate string

// Verdict 模型对某个市场的判断
type Verdict struct {
	Side        polymarket.Side `json:"side"`
	Probability float64         `json:"probability"` // YES 概率，0-1
	Confidence  float64         `json:"confidence"`  // 0-100
	Reasoning   string          `json:"reasoning"`
}

// Oracle 市场判断接口，便于测试替换
type Oracle interface {
	QuickJudge(ctx context.Context, headline string, market polymarket.Market) (*Verdict, error)
	DeepJudge(ctx context.Context, market polymarket.Market, research string) (*Verdict, error)
}

// OracleService 调用大模型生成市场判断
type OracleService struct {
	logger *zap.Logger
	client llm.Client
	conf   llm.Config
}

// NewOracleService 创建判断服务
func NewOracleService(client llm.Client, conf llm.Config, logger *zap.Logger) *OracleService {
	return &OracleService{
		logger: logger,
		client: client,
		conf:   conf,
	}
}

// QuickJudge 轻量模型快速判断头条对市场的影响
func (s *OracleService) QuickJudge(ctx context.Context, headline string, market polymarket.Market) (*Verdict, error) {
	prompt := fasttemplate.New(sniperUserTemplate, "{{", "}}").
		ExecuteString(marketReplacements(market, map[string]any{
			"headline": headline,
		}))

	return s.judge(ctx, s.conf.FastModel, sniperSystemPrompt, prompt)
}

// DeepJudge 强模型结合外部研究做深度判断
func (s *OracleService) DeepJudge(ctx context.Context, market polymarket.Market, research string) (*Verdict, error) {
	prompt := fasttemplate.New(researcherUserTemplate, "{{", "}}").
		ExecuteString(marketReplacements(market, map[string]any{
			"research": research,
			"volume":   fmt.Sprintf("%.0f", market.Volume),
		}))

	return s.judge(ctx, s.conf.DeepModel, researcherSystemPrompt, prompt)
}

func (s *OracleService) judge(ctx context.Context, model, system, prompt string) (*Verdict, error) {
	raw, err := s.client.Complete(ctx, model, system, prompt)
	if err != nil {
		return nil, err
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		s.logger.Warn("model returned unparseable verdict",
			zap.String("model", model),
			zap.String("raw", truncateString(raw, 300)),
			zap.Error(err))
		return nil, err
	}
	return verdict, nil
}

func marketReplacements(market polymarket.Market, extra map[string]any) map[string]any {
	replacements := map[string]any{
		"question":    market.Question,
		"yes_price":   fmt.Sprintf("%.3f", market.YesPrice),
		"yes_percent": fmt.Sprintf("%.1f", market.YesPrice*100),
		"no_price":    fmt.Sprintf("%.3f", market.NoPrice),
		"resolves_at": "unknown",
	}
	if !market.ResolvesAt.IsZero() {
		replacements["resolves_at"] = market.ResolvesAt.Format("2006-01-02")
	}
	for k, v := range extra {
		replacements[k] = v
	}
	return replacements
}

// ParseVerdict 解析模型输出，格式或取值非法时返回错误
func ParseVerdict(raw string) (*Verdict, error) {
	cleaned := stripCodeFence(raw)

	// 模型偶尔会在 JSON 前后夹带文字，截取最外层对象
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	cleaned = cleaned[start : end+1]

	var payload struct {
		Side        string  `json:"side"`
		Probability float64 `json:"probability"`
		Confidence  float64 `json:"confidence"`
		Reasoning   string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("invalid verdict JSON: %w", err)
	}

	side := polymarket.Side(strings.ToUpper(strings.TrimSpace(payload.Side)))
	if side != polymarket.SideYes && side != polymarket.SideNo {
		return nil, fmt.Errorf("invalid side %q", payload.Side)
	}
	if payload.Probability < 0 || payload.Probability > 100 {
		return nil, fmt.Errorf("probability %.2f out of range", payload.Probability)
	}
	if payload.Confidence < 0 || payload.Confidence > 100 {
		return nil, fmt.Errorf("confidence %.2f out of range", payload.Confidence)
	}

	return &Verdict{
		Side:        side,
		Probability: payload.Probability / 100,
		Confidence:  payload.Confidence,
		Reasoning:   strings.TrimSpace(payload.Reasoning),
	}, nil
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
