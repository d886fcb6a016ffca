package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, modelName: model}, nil
}

func (c *GeminiClient) Name() string {
	return c.modelName
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, sampling Sampling) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	applySampling(&model.GenerationConfig, sampling)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return candidateText(resp)
}

func applySampling(cfg *genai.GenerationConfig, sampling Sampling) {
	cfg.SetTemperature(sampling.Temperature)
	cfg.SetTopP(sampling.TopP)
	cfg.SetTopK(sampling.TopK)
	cfg.SetMaxOutputTokens(sampling.MaxOutputTokens)
}

// candidateText joins the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return content, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
