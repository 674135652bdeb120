// Package redis keeps the next alarm in a Redis key, for clocks whose home
// directory isn't writable.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
)

const DefaultKey = "alarmclock:next_alarm"

// Cache stores the alarm as decimal Unix seconds under a single key. A
// missing key means no alarm is pending.
type Cache struct {
	client *redis.Client
	key    string
}

func NewCache(client *redis.Client, key string) *Cache {
	if key == "" {
		key = DefaultKey
	}
	return &Cache{
		client: client,
		key:    key,
	}
}

var _ alarmclock.Cache = (*Cache)(nil)

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Load(ctx context.Context) (time.Time, error) {
	val, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get %s: %w", c.key, err)
	}
	sec, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, alarmclock.Errorf(alarmclock.ErrInvalid, "%s: bad timestamp %q", c.key, val)
	}
	return alarmclock.TimeOfUnix(sec), nil
}

func (c *Cache) Store(ctx context.Context, at time.Time) error {
	if err := c.client.Set(ctx, c.key, alarmclock.UnixOf(at), 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", c.key, err)
	}
	return nil
}
