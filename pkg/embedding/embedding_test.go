package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider counts calls and fails a configurable number of times.
type fakeProvider struct {
	calls     int
	failFirst int
	failWith  error
}

func (f *fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return nil, f.failWith
	}
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return nil, f.failWith
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func newRetryForTest(inner Provider, attempts int) *RetryProvider {
	p := NewRetryProvider(inner, attempts)
	p.initial = time.Millisecond
	return p
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	fake := &fakeProvider{failFirst: 2, failWith: &ProviderError{Provider: "fake", Status: 503}}
	provider := newRetryForTest(fake, 4)

	vec, err := provider.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
	assert.Equal(t, 3, fake.calls)
}

func TestRetryExhaustsBudget(t *testing.T) {
	fake := &fakeProvider{failFirst: 100, failWith: &ProviderError{Provider: "fake", Status: 503}}
	provider := newRetryForTest(fake, 3)

	_, err := provider.Embed(context.Background(), "hello")
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 3, unavailable.Attempts)
	assert.Equal(t, 3, fake.calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	fake := &fakeProvider{failFirst: 100, failWith: &ProviderError{Provider: "fake", Status: 401}}
	provider := newRetryForTest(fake, 4)

	_, err := provider.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls, "4xx must not be retried")
}

func TestCachedProviderDeduplicates(t *testing.T) {
	fake := &fakeProvider{}
	provider := NewCachedProvider(fake, time.Hour)
	ctx := context.Background()

	first, err := provider.Embed(ctx, "the fool")
	require.NoError(t, err)
	second, err := provider.Embed(ctx, "the fool")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.calls, "second call must hit the cache")
}

func TestCachedProviderBatchPartialHit(t *testing.T) {
	fake := &fakeProvider{}
	provider := NewCachedProvider(fake, time.Hour)
	ctx := context.Background()

	_, err := provider.Embed(ctx, "aa")
	require.NoError(t, err)

	vectors, err := provider.EmbedBatch(ctx, []string{"aa", "bbbb", "cc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, float32(2), vectors[0][0])
	assert.Equal(t, float32(4), vectors[1][0])
	assert.Equal(t, float32(2), vectors[2][0])
	assert.Equal(t, 2, fake.calls, "one Embed plus one batch for the misses")

	// Everything cached now; a further batch makes no provider calls.
	_, err = provider.EmbedBatch(ctx, []string{"bbbb", "cc"})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)
}
