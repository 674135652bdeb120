// Package file keeps the next alarm in a small file.
//
// The file holds exactly 12 bytes: the magic "NXA", a format version byte
// (currently 1) and the alarm time as big-endian int64 Unix seconds, where
// math.MaxInt64 means no alarm is pending.
package file

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
)

const (
	magic   = "NXA"
	version = 1
	size    = len(magic) + 1 + 8
)

type Cache struct {
	fs   afero.Fs
	path string
}

func NewCache(fs afero.Fs, path string) *Cache {
	return &Cache{
		fs:   fs,
		path: path,
	}
}

var _ alarmclock.Cache = (*Cache)(nil)

// Path returns the location of the cache file.
func (c *Cache) Path() string {
	return c.path
}

// Load returns the cached alarm. A missing file means no alarm is pending.
func (c *Cache) Load(ctx context.Context) (time.Time, error) {
	buf, err := afero.ReadFile(c.fs, c.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read %s: %w", c.path, err)
	}
	return decode(c.path, buf)
}

// Store overwrites the cache. The new contents are written to a temporary
// file and renamed into place.
func (c *Cache) Store(ctx context.Context, at time.Time) error {
	dir := filepath.Dir(c.path)
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, encode(at), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := c.fs.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func encode(at time.Time) []byte {
	buf := make([]byte, 0, size)
	buf = append(buf, magic...)
	buf = append(buf, version)
	return binary.BigEndian.AppendUint64(buf, uint64(alarmclock.UnixOf(at)))
}

func decode(path string, buf []byte) (time.Time, error) {
	switch {
	case len(buf) != size:
		return time.Time{}, alarmclock.Errorf(alarmclock.ErrInvalid, "%s: want %d bytes, got %d", path, size, len(buf))
	case !bytes.HasPrefix(buf, []byte(magic)):
		return time.Time{}, alarmclock.Errorf(alarmclock.ErrInvalid, "%s: not a next alarm cache", path)
	case buf[len(magic)] != version:
		return time.Time{}, alarmclock.Errorf(alarmclock.ErrInvalid, "%s: unsupported version %d", path, buf[len(magic)])
	}
	sec := int64(binary.BigEndian.Uint64(buf[len(magic)+1:]))
	return alarmclock.TimeOfUnix(sec), nil
}
