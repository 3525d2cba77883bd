package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider memoizes embeddings by content hash so repeated texts do
// not trigger redundant provider calls within the process lifetime.
type CachedProvider struct {
	inner Provider
	cache *gocache.Cache
}

var _ Provider = &CachedProvider{}

func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := contentHash(text)
	if v, found := p.cache.Get(key); found {
		return v.([]float32), nil
	}

	vec, err := p.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, vec, gocache.DefaultExpiration)
	return vec, nil
}

func (p *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if v, found := p.cache.Get(contentHash(text)); found {
			vectors[i] = v.([]float32)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fetched, err := p.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i, vec := range fetched {
		idx := missingIdx[i]
		vectors[idx] = vec
		p.cache.Set(contentHash(texts[idx]), vec, gocache.DefaultExpiration)
	}
	return vectors, nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
