package alarmclock

import (
	"context"
	"math"
	"time"
)

// Schedule provides the weekly alarm times. It is consulted on every poll, so
// implementations may change the list between calls.
type Schedule interface {
	Alarms() []WeekTime
}

// Cache persists the next alarm across process restarts.
//
// The zero time.Time is the "far future" sentinel: Load returns it when
// nothing is cached, and storing it resets the cache.
type Cache interface {
	Load(context.Context) (time.Time, error)
	Store(context.Context, time.Time) error
}

// Announcer delivers a notification to whoever is listening.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// AnnouncerFunc adapts a function to the Announcer interface.
type AnnouncerFunc func(ctx context.Context, text string) error

func (f AnnouncerFunc) Announce(ctx context.Context, text string) error {
	return f(ctx, text)
}

// NeverUnix is how persisted caches encode the far future sentinel.
const NeverUnix = math.MaxInt64

// UnixOf returns the Unix seconds of t, or NeverUnix if t is zero.
func UnixOf(t time.Time) int64 {
	if t.IsZero() {
		return NeverUnix
	}
	return t.Unix()
}

// TimeOfUnix is the inverse of UnixOf.
func TimeOfUnix(sec int64) time.Time {
	if sec == NeverUnix {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
