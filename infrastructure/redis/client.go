package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard/domain/ports"
	"taskboard/pkg/config"
)

// Client wraps go-redis and implements ports.CachePort. The cache is an
// optional dependency; when Redis is unreachable at startup the caller
// runs without it.
type Client struct {
	rdb *redis.Client
}

func NewClient(cfg config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

// Wrap adopts an existing go-redis client, mainly for tests.
func Wrap(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

var _ ports.CachePort = (*Client)(nil)

func (c *Client) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Junk under the key counts as a miss.
		return 0, false, nil
	}
	return n, true, nil
}

func (c *Client) SetInt64(ctx context.Context, key string, value int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, strconv.FormatInt(value, 10), ttl).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
