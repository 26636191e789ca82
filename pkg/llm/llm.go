// Package llm 统一封装大模型推理入口，支持 OpenAI 兼容接口和 Gemini
package llm

import (
	"context"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config 模型配置
type Config struct {
	Provider  string `json:"provider"`   // openai 或 gemini
	APIKey    string `json:"api_key"`    //
	BaseURL   string `json:"base_url"`   // OpenAI 兼容接口地址
	ProxyURL  string `json:"proxy_url"`  // 代理地址，例如: http://127.0.0.1:7890
	FastModel string `json:"fast_model"` // 快速判断用的轻量模型
	DeepModel string `json:"deep_model"` // 深度研究用的强模型
}

// Client 模型推理客户端
type Client interface {
	// Complete 执行一次对话补全，返回模型的文本输出
	Complete(ctx context.Context, model string, system string, prompt string) (string, error)

	// Provider 返回后端名称
	Provider() string
}
