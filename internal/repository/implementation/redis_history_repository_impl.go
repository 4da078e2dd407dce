package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "chatbot:history:"

// RedisHistoryRepository stores each session's turns as one JSON value that
// expires after ttl of inactivity.
type RedisHistoryRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisHistoryRepository(rdb *redis.Client, ttl time.Duration) contract.HistoryRepository {
	return &RedisHistoryRepository{rdb: rdb, ttl: ttl}
}

func historyKey(sessionId string) string {
	return historyKeyPrefix + sessionId
}

func (r *RedisHistoryRepository) Get(ctx context.Context, sessionId string) ([]state.Turn, error) {
	raw, err := r.rdb.Get(ctx, historyKey(sessionId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []state.Turn{}, nil
	}
	if err != nil {
		return nil, err
	}
	var turns []state.Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

func (r *RedisHistoryRepository) Save(ctx context.Context, sessionId string, turns []state.Turn) error {
	raw, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, historyKey(sessionId), raw, r.ttl).Err()
}

func (r *RedisHistoryRepository) Delete(ctx context.Context, sessionId string) error {
	return r.rdb.Del(ctx, historyKey(sessionId)).Err()
}

func (r *RedisHistoryRepository) CountSessions(ctx context.Context) (int, error) {
	count := 0
	iter := r.rdb.Scan(ctx, 0, historyKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count, iter.Err()
}
