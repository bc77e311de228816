package ai

import (
	"TripGenie-App/internal/domain/model"
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel             = "gemini-2.5-flash"
	DefaultGenerationTimeout = 90 * time.Second
)

// GeminiClient はGemini APIとの通信を担当するクライアント
type GeminiClient struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient は新しいGeminiClientインスタンスを作成
// APIキーが空の場合は通信を試みずに設定エラーを返す
func NewGeminiClient(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &model.ConfigurationError{Key: "GEMINI_API_KEY"}
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗: %w", err)
	}

	return &GeminiClient{
		cli:     cli,
		model:   modelName,
		timeout: timeout,
	}, nil
}

// Model は使用中のモデル名
func (c *GeminiClient) Model() string {
	return c.model
}

// GenerateJSON はレスポンススキーマを指定してJSON文字列を生成する
// 呼び出し側のcontextとは別にクライアント側のタイムアウトを適用する
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
			Temperature:      genai.Ptr[float32](temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("APIリクエストに失敗: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("有効なレスポンスが生成されませんでした")
	}
	return text, nil
}
