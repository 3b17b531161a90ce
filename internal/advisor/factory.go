package advisor

import (
	"context"
	"fmt"

	"github.com/kingrea/liuyao/internal/config"
)

// FromConfig builds the advisor selected by cfg.Project.Advisor. A backend
// that cannot be constructed (missing key, bad client setup) is replaced by
// one that always fails, so every answer degrades to offline text with the
// reason attached.
func FromConfig(ctx context.Context, cfg *config.Config, logger Logger) *Advisor {
	opts := []Option{WithLogger(logger)}
	if cfg == nil {
		return New(nil, opts...)
	}
	ac := cfg.Project.Advisor
	opts = append(opts, WithTimeout(ac.Timeout))

	var (
		gen Generator
		err error
	)
	switch ac.Backend {
	case config.BackendGemini:
		gen, err = NewGemini(ctx, cfg.APIKey(), ac.Model, ac.Temperature)
	case config.BackendOpenAI:
		gen, err = NewOpenAI(OpenAIConfig{
			APIKey:      cfg.APIKey(),
			BaseURL:     ac.BaseURL,
			Model:       ac.Model,
			Temperature: ac.Temperature,
		})
	default:
		return New(nil, opts...)
	}
	if err != nil {
		if logger != nil {
			logger.Printf("advisor: %s backend unavailable: %v", ac.Backend, err)
		}
		gen = unavailable{name: ac.Backend, model: ac.Model, err: err}
	}
	return New(gen, opts...)
}

type unavailable struct {
	name  string
	model string
	err   error
}

func (u unavailable) Name() string  { return u.name }
func (u unavailable) Model() string { return u.model }

func (u unavailable) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%s backend unavailable: %w", u.name, u.err)
}
