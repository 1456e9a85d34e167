package generator

import (
	"context"
	"strings"

	"viajei/internal/config"
	"viajei/internal/logging"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.3-70b-versatile"
)

// New builds the configured generator. Without an API key the mock is used directly.
func New(ctx context.Context, cfg *config.Config) (ItineraryGenerator, error) {
	provider := strings.ToLower(cfg.Generator.Provider)
	key := cfg.GeneratorAPIKey()

	if provider == "mock" || key == "" {
		logging.Warn().Str("provider", provider).Msg("no generator api key configured, using mock itineraries")
		return MockGenerator{}, nil
	}

	model := cfg.Generator.Model
	if provider != "groq" && model == groqModel {
		model = ""
	}

	var primary ItineraryGenerator
	switch provider {
	case "gemini":
		g, err := NewGeminiGenerator(ctx, key, model)
		if err != nil {
			return nil, err
		}
		primary = g
	case "openai":
		baseURL := cfg.Generator.BaseURL
		if baseURL == groqBaseURL {
			baseURL = ""
		}
		primary = NewChatGenerator("openai", key, baseURL, model)
	default:
		baseURL := cfg.Generator.BaseURL
		if baseURL == "" {
			baseURL = groqBaseURL
		}
		if model == "" {
			model = groqModel
		}
		primary = NewChatGenerator("groq", key, baseURL, model)
	}

	breaker := DefaultBreakerConfig()
	if cfg.Generator.Timeout > 0 {
		breaker.CallTimeout = cfg.Generator.Timeout
	}
	logging.Info().Str("provider", primary.Name()).Msg("itinerary generator ready")
	return NewResilient(primary, MockGenerator{}, breaker), nil
}
