package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached results between processes. Keys live under
// "<prefix>:<key.String()>".
type RedisStore struct {
	redis  *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "adminconsole:query"
	}
	return &RedisStore{redis: rdb, prefix: prefix}
}

func (s *RedisStore) key(k Key) string {
	return s.prefix + ":" + k.String()
}

func (s *RedisStore) Get(ctx context.Context, k Key) (*Entry, error) {
	raw, err := s.redis.Get(ctx, s.key(k)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &e, nil
}

func (s *RedisStore) Set(ctx context.Context, k Key, e Entry, ttl time.Duration) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.key(k), b, ttl).Err()
}

// DeletePrefix removes the exact key and every key below it.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix Key) (int, error) {
	var pattern string
	var exact []string
	if len(prefix) == 0 {
		pattern = escapeGlob(s.prefix+":") + "*"
	} else {
		exact = append(exact, s.key(prefix))
		pattern = escapeGlob(s.key(prefix)+"/") + "*"
	}

	keys := exact
	iter := s.redis.Scan(ctx, 0, pattern, 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}

	deleted := 0
	for start := 0; start < len(keys); start += 500 {
		end := min(start+500, len(keys))
		n, err := s.redis.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis del: %w", err)
		}
		deleted += int(n)
	}
	return deleted, nil
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
