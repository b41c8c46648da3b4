// Package ai provides factory functions for creating AI service adapters.
//
// Provider selection is resolved once at startup from configuration, so the
// rest of the system only ever sees the narrow EmbeddingService and
// CompletionService ports.
package ai

import (
	"fmt"

	ollamaembed "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askdoc-cli/internal/config"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// CreateEmbeddingService creates the configured embedding service.
// An empty provider yields (nil, nil): embedding is disabled and the
// pipeline reports domain.ErrEmbeddingUnavailable on use.
func CreateEmbeddingService(cfg config.Embedding, dim int) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: dim,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil
	case ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: dim,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrEmbeddingUnavailable, cfg.Provider)
	}
}

// CreateCompletionService creates the configured completion service.
// An empty provider yields (nil, nil): answers are disabled and queries
// return retrieved chunks with domain.ErrCompletionUnavailable.
func CreateCompletionService(cfg config.Completion) (driven.CompletionService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderOpenAI:
		svc, err := openaillm.NewCompletionService(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCompletionUnavailable, err)
		}
		return svc, nil
	case ProviderOllama:
		return ollamallm.NewCompletionService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown completion provider %q",
			domain.ErrCompletionUnavailable, cfg.Provider)
	}
}
