package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long a query vector is reused.
const DefaultCacheTTL = 10 * time.Minute

// CachedProvider memoizes embeddings of identical text.
type CachedProvider struct {
	next  EmbeddingProvider
	cache *cache.Cache
}

func NewCachedProvider(next EmbeddingProvider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if v, found := p.cache.Get(key); found {
		return v.([]float32), nil
	}

	vec, err := p.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, vec, cache.DefaultExpiration)
	return vec, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
