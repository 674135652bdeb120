package sqlite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/sqlite/migration"
)

// Cache stores the next alarm in the single row of the next_alarm table.
// A missing row means no alarm is pending.
type Cache struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Cache, error) {
	conn, err := sqlite.OpenConn(path, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := Migrate(conn, migration.Scripts); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Cache{conn: conn}, nil
}

var _ alarmclock.Cache = (*Cache)(nil)

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

func (c *Cache) Load(ctx context.Context) (at time.Time, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetInterrupt(ctx.Done())
	defer c.conn.SetInterrupt(nil)

	err = sqlitex.Exec(c.conn, "select at from next_alarm where id = 1", func(stmt *sqlite.Stmt) error {
		at = alarmclock.TimeOfUnix(stmt.ColumnInt64(0))
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("load next alarm: %w", err)
	}
	return at, nil
}

func (c *Cache) Store(ctx context.Context, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetInterrupt(ctx.Done())
	defer c.conn.SetInterrupt(nil)

	err := sqlitex.Exec(c.conn, "insert or replace into next_alarm (id, at) values (1, ?)", nil, alarmclock.UnixOf(at))
	if err != nil {
		return fmt.Errorf("store next alarm: %w", err)
	}
	return nil
}
