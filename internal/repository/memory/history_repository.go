package memory

import (
	"context"
	"time"

	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/patrickmn/go-cache"
)

// HistoryRepository keeps conversation memory in process. Used when Redis
// is not configured and in tests.
type HistoryRepository struct {
	cache *cache.Cache
}

func NewHistoryRepository(ttl time.Duration) contract.HistoryRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HistoryRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *HistoryRepository) Get(_ context.Context, sessionId string) ([]state.Turn, error) {
	if x, found := r.cache.Get(sessionId); found {
		stored := x.([]state.Turn)
		out := make([]state.Turn, len(stored))
		copy(out, stored)
		return out, nil
	}
	return []state.Turn{}, nil
}

func (r *HistoryRepository) Save(_ context.Context, sessionId string, turns []state.Turn) error {
	stored := make([]state.Turn, len(turns))
	copy(stored, turns)
	r.cache.Set(sessionId, stored, cache.DefaultExpiration)
	return nil
}

func (r *HistoryRepository) Delete(_ context.Context, sessionId string) error {
	r.cache.Delete(sessionId)
	return nil
}

func (r *HistoryRepository) CountSessions(context.Context) (int, error) {
	return r.cache.ItemCount(), nil
}
