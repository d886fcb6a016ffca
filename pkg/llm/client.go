package llm

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("empty response from model")

// Sampling holds the decoding parameters sent with every generation call.
type Sampling struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

var (
	NewsSampling   = Sampling{Temperature: 0.7, TopP: 0.8, TopK: 40, MaxOutputTokens: 800}
	DigestSampling = Sampling{Temperature: 0.7, TopP: 0.8, TopK: 40, MaxOutputTokens: 500}
)

// Generator produces one text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, sampling Sampling) (string, error)
	Name() string
}
