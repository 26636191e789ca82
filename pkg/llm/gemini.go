package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient Google Gemini 接口的实现
type GeminiClient struct {
	client *genai.Client
	logger *zap.Logger
}

// NewGeminiClient 创建 Gemini 客户端
func NewGeminiClient(ctx context.Context, conf Config, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		logger: logger,
	}, nil
}

func (c *GeminiClient) Provider() string {
	return ProviderGemini
}

func (c *GeminiClient) Complete(ctx context.Context, model string, system string, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned empty response")
	}

	c.logger.Debug("completion finished",
		zap.String("model", model),
		zap.String("provider", ProviderGemini),
	)

	return text, nil
}
