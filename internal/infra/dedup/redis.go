package dedup

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisEventStore は処理済みWebhookイベントIDを覚えておく。
// SETNXで「初見ならtrue」を原子的に判定する。
type RedisEventStore struct {
	rdb *redis.Client
}

func NewRedisEventStore(addr string, password string, db int) *RedisEventStore {
	return &RedisEventStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// MarkProcessed は初めて見たイベントならtrueを返す。
func (s *RedisEventStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, "webhook:event:"+eventID, 1, ttl).Result()
}

// Forget はキーを消して同じイベントの再送を通す。処理に失敗したとき用
func (s *RedisEventStore) Forget(ctx context.Context, eventID string) error {
	return s.rdb.Del(ctx, "webhook:event:"+eventID).Err()
}

func (s *RedisEventStore) Close() error {
	return s.rdb.Close()
}
