// Package genai wraps the generative text backend behind a single
// interface so the assistant pipeline never depends on a concrete
// provider.
package genai

import (
	"context"
	"errors"
)

// ErrMalformedReply marks responses the backend did deliver but whose
// structure could not be interpreted, as opposed to transport failures
// where no reply arrived at all.
var ErrMalformedReply = errors.New("malformed reply from generative service")

// Service produces a free-form text completion for a prompt. Every
// implementation must honor ctx cancellation.
type Service interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Service interface. Handy in tests.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
