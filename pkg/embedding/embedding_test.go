package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) Embed(context.Context, string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{1, 0}, nil
}

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, time.Minute)

	for i := 0; i < 3; i++ {
		v, err := p.Embed(context.Background(), "quarterly report")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0}, v)
	}
	_, err := p.Embed(context.Background(), "another query")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProvider_DoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("offline")}
	p := NewCachedProvider(inner, 0)

	_, err := p.Embed(context.Background(), "q")
	assert.Error(t, err)
	_, err = p.Embed(context.Background(), "q")
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestOllamaProvider_Normalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		_, _ = w.Write([]byte(`{"embedding":[3,4]}`))
	}))
	defer srv.Close()

	v, err := NewOllamaProvider(srv.URL, "").Embed(context.Background(), "hello")

	require.NoError(t, err)
	require.Len(t, v, 2)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
}

func TestNormalizeVector(t *testing.T) {
	assert.Equal(t, []float32{0, 0}, normalizeVector([]float32{0, 0}))

	v := normalizeVector([]float32{1, 2, 2})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{})
	require.NoError(t, err)
	assert.IsType(t, &OllamaProvider{}, p)

	_, err = NewProvider(context.Background(), Config{Provider: "jina"})
	assert.Error(t, err)
}
