package redis

import (
	"context"
	"time"

	"github.com/autom8ter/grizzly/cache"
	"github.com/autom8ter/grizzly/errors"
	"github.com/go-redis/redis/v9"
)

type redisCache struct {
	client redis.UniversalClient
}

// New returns a cache backed by the given redis client
func New(client redis.UniversalClient) cache.Cache {
	return &redisCache{client: client}
}

// Open returns a cache connected to the redis instance at addr
func Open(addr string) cache.Cache {
	return New(redis.NewClient(&redis.Options{Addr: addr}))
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.Internal, "failed to get cached value")
	}
	return value, true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.Internal, "failed to set cached value")
	}
	return nil
}

func (r *redisCache) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, errors.Internal, "failed to delete cached value")
	}
	return nil
}

func (r *redisCache) DelPrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, errors.Internal, "failed to delete cached values")
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, errors.Internal, "failed to scan cached values")
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrap(err, errors.Internal, "failed to delete cached values")
		}
	}
	return nil
}

func (r *redisCache) Close(ctx context.Context) error {
	return r.client.Close()
}
