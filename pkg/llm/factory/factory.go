package factory

import (
	"context"
	"fmt"
	"time"

	"lawro-be/pkg/llm"
	"lawro-be/pkg/llm/gemini"
	"lawro-be/pkg/llm/ollama"
	"lawro-be/pkg/llm/upstage"
)

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "upstage":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("upstage provider requires an api key")
		}
		return upstage.NewProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an api key")
		}
		return gemini.NewProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
