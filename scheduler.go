package alarmclock

import (
	"context"
	"fmt"
	"time"
)

// Scheduler resolves the next alarm from a weekly schedule and keeps the
// decision in a cache, so that an alarm which is due but hasn't fired yet
// survives a restart.
type Scheduler struct {
	Schedule Schedule
	Cache    Cache
}

func NewScheduler(schedule Schedule, cache Cache) *Scheduler {
	return &Scheduler{
		Schedule: schedule,
		Cache:    cache,
	}
}

// NextOffset returns the shortest forward offset from now to any alarm in the
// schedule. An alarm at exactly now yields a zero offset.
func (s *Scheduler) NextOffset(now WeekTime) (WeekTime, error) {
	alarms := s.Schedule.Alarms()
	if len(alarms) == 0 {
		return WeekTime{}, Errorf(ErrInvalid, "schedule has no alarms")
	}
	best := alarms[0].Sub(now)
	for _, alarm := range alarms[1:] {
		if offset := alarm.Sub(now); offset.Before(best) {
			best = offset
		}
	}
	return best, nil
}

// Next returns the time of the next alarm as seen from now, persisting it.
//
// The cached value wins whenever it is earlier than the one computed from the
// schedule: once an alarm is due, the schedule already points at the
// following occurrence, and only the cache remembers the pending one.
func (s *Scheduler) Next(ctx context.Context, now time.Time) (time.Time, error) {
	offset, err := s.NextOffset(WeekTimeOf(now))
	if err != nil {
		return time.Time{}, err
	}
	next := now.Add(offset.Duration()).Truncate(time.Minute)

	cached, err := s.Cache.Load(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("load next alarm: %w", err)
	}
	if !cached.IsZero() && cached.Before(next) {
		next = cached.In(now.Location())
	}

	if err := s.Cache.Store(ctx, next); err != nil {
		return time.Time{}, fmt.Errorf("store next alarm: %w", err)
	}
	return next, nil
}

// Reset forgets the cached alarm so that the next call to Next recomputes it
// from the schedule alone.
func (s *Scheduler) Reset(ctx context.Context) error {
	if err := s.Cache.Store(ctx, time.Time{}); err != nil {
		return fmt.Errorf("reset next alarm: %w", err)
	}
	return nil
}
