package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Option allows for optional parameters like temperature and output length.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// BuildOptions applies options over defaults.
func BuildOptions(opts []Option) *Options {
	options := &Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Result is a completed generation.
type Result struct {
	Text     string
	Model    string
	Provider string
}

// Provider is the contract for any generation backend. Providers do not
// retry transparently; retry policy belongs to the caller so cost and
// latency trade-offs stay visible.
type Provider interface {
	Generate(ctx context.Context, prompt string, options ...Option) (Result, error)
}

// GenerationError is a provider failure with enough detail for the caller
// to decide whether a retry is worthwhile.
type GenerationError struct {
	Provider  string
	Code      int
	Retryable bool
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed (code %d, retryable %t): %v", e.Provider, e.Code, e.Retryable, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports structured output that could not be
// parsed into the requested shape.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed structured response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ParseStructured decodes a schema-constrained generation into out.
// Models habitually wrap JSON in markdown fences, so those are stripped
// before decoding. Failure is a MalformedResponseError.
func ParseStructured(res Result, out any) error {
	text := strings.TrimSpace(res.Text)
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "json")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}
	text = strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &MalformedResponseError{Raw: res.Text, Err: err}
	}
	return nil
}
