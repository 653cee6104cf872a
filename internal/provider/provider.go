package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when a provider answers 200 but with no text.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// Request is a single one-shot generation call.
type Request struct {
	Prompt string
	// Schema, when set, asks the provider for application/json output shaped
	// by this JSON schema.
	Schema      any
	Temperature *float64
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(t float64) *float64 { return &t }

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
	ModelName() string
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}

// New builds a generator for the given provider type ("google" or "openai").
func New(kind, name, baseURL, apiKey, model string) (Generator, error) {
	switch kind {
	case "google":
		return NewGoogle(baseURL, apiKey, model), nil
	case "openai":
		if baseURL == "" {
			return nil, fmt.Errorf("provider %q: base_url is required for openai providers", name)
		}
		return NewOpenAI(name, baseURL, apiKey, model), nil
	default:
		return nil, fmt.Errorf("provider %q: unknown type %q", name, kind)
	}
}
