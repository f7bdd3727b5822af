package summarizer

import (
	"context"
	"fmt"
	"summabot/internal/config"
)

// NewFromConfig builds the configured provider wrapped in a summary cache.
func NewFromConfig(ctx context.Context, cfg config.Summarizer) (*Cached, error) {
	var (
		s   Summarizer
		err error
	)

	switch cfg.Provider {
	case config.ProviderGemini:
		s, err = NewGeminiSummarizer(ctx, cfg.APIKey, cfg.Model)
	default:
		s, err = NewOpenAISummarizer(cfg.APIKey, cfg.BaseURL, cfg.Model)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s summarizer: %w", cfg.Provider, err)
	}

	return NewCached(s, cfg.SummaryCacheTTL, cfg.Provider+"/"+cfg.Model), nil
}
