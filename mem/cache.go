package mem

import (
	"context"
	"sync"
	"time"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
)

// Cache keeps the next alarm in memory. It doesn't survive restarts.
type Cache struct {
	mu sync.Mutex
	at time.Time

	// Stores counts calls to Store.
	Stores int
}

func NewCache() *Cache {
	return &Cache{}
}

var _ alarmclock.Cache = (*Cache)(nil)

func (c *Cache) Load(ctx context.Context) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at, nil
}

func (c *Cache) Store(ctx context.Context, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = at
	c.Stores++
	return nil
}
