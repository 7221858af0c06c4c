package otp

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "auth:otp:"

// consumeScript deletes the key only when it holds the given code.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps pending codes in Redis with a native key TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, subject, code string, ttl time.Duration) error {
	return s.client.Set(ctx, redisKeyPrefix+subject, code, ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, subject, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{redisKeyPrefix + subject}, code).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
