package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxAttempts caps how many times a provider call is tried before
// the call fails with UnavailableError.
const DefaultMaxAttempts = 4

// RetryProvider decorates a Provider with exponential backoff on transient
// failures. Non-retryable provider errors fail immediately.
type RetryProvider struct {
	inner       Provider
	maxAttempts int
	initial     time.Duration
}

var _ Provider = &RetryProvider{}

func NewRetryProvider(inner Provider, maxAttempts int) *RetryProvider {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &RetryProvider{
		inner:       inner,
		maxAttempts: maxAttempts,
		initial:     500 * time.Millisecond,
	}
}

func (p *RetryProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := p.retry(ctx, func() error {
		var err error
		vec, err = p.inner.Embed(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

func (p *RetryProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := p.retry(ctx, func() error {
		var err error
		vectors, err = p.inner.EmbedBatch(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func (p *RetryProvider) retry(ctx context.Context, op func() error) error {
	attempts := 0
	wrapped := func() error {
		attempts++
		err := op()
		if err == nil {
			return nil
		}
		var provErr *ProviderError
		if errors.As(err, &provErr) && !provErr.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initial
	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(p.maxAttempts-1)),
		ctx,
	)

	if err := backoff.Retry(wrapped, policy); err != nil {
		return &UnavailableError{Attempts: attempts, Err: err}
	}
	return nil
}
