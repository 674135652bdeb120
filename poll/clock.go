// Package poll runs the alarm clock: it wakes up every few seconds, asks the
// scheduler for the next alarm and sounds it once it is due.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/logger"
)

const (
	DefaultRestInterval = 3 * time.Second
	DefaultLateAfter    = 3 * time.Second
	DefaultAlarmText    = "beep beep!"

	// windowSlack pushes the post-alarm sleep just past the end of the
	// alarm's minute.
	windowSlack = 100 * time.Millisecond
)

type Clock struct {
	Now   func() time.Time
	Sleep func(context.Context, time.Duration) error

	// RestInterval is how long to wait between polls.
	RestInterval time.Duration

	// LateAfter is how far past its time an alarm may fire before a
	// lateness warning is added.
	LateAfter time.Duration

	AlarmText string

	scheduler *alarmclock.Scheduler
	announcer alarmclock.Announcer
	log       logger.Logger
}

func NewClock(scheduler *alarmclock.Scheduler, announcer alarmclock.Announcer, log logger.Logger) *Clock {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Clock{
		Now:          time.Now,
		Sleep:        sleep,
		RestInterval: DefaultRestInterval,
		LateAfter:    DefaultLateAfter,
		AlarmText:    DefaultAlarmText,
		scheduler:    scheduler,
		announcer:    announcer,
		log:          log,
	}
}

// Tick is the outcome of a single poll.
type Tick struct {
	Now  time.Time
	Next time.Time

	// Fired reports whether the alarm sounded.
	Fired bool

	// Late is how late the alarm fired, if that was enough to warn about it.
	Late time.Duration

	// Wait is how long to sleep before the next poll.
	Wait time.Duration
}

// Run polls until ctx is done. Failed polls are announced and logged; they
// never stop the clock.
func (c *Clock) Run(ctx context.Context) error {
	c.greet(ctx)
	for {
		tick, err := c.Tick(ctx)
		if err != nil {
			c.fail(ctx, err)
			tick.Wait = c.RestInterval
		}
		if err := c.Sleep(ctx, tick.Wait); err != nil {
			c.log.Info("Clock stopped: %v", err)
			return nil
		}
	}
}

// Tick polls once. A panic during the poll is returned as an
// *alarmclock.PanicError.
func (c *Clock) Tick(ctx context.Context) (tick Tick, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = alarmclock.NewPanicError(r)
		}
	}()

	now := c.Now()
	next, err := c.scheduler.Next(ctx, now)
	if err != nil {
		return Tick{Now: now}, err
	}
	tick = Tick{Now: now, Next: next, Wait: c.RestInterval}

	diff := now.Sub(next)
	if diff < 0 {
		return tick, nil
	}

	tick.Fired = true
	c.log.Info("Alarm for %v", next)
	c.announce(ctx, c.AlarmText)
	if diff >= c.LateAfter {
		tick.Late = diff
		c.announce(ctx, fmt.Sprintf("WARNING: alarm is late by %v!", diff.Round(time.Second)))
	}

	if err := c.scheduler.Reset(ctx); err != nil {
		return tick, err
	}

	// Don't poll again until the alarm's minute is over, or it would fire
	// twice.
	if wait := next.Add(time.Minute).Sub(c.Now()) + windowSlack; wait > tick.Wait {
		tick.Wait = wait
	}
	return tick, nil
}

func (c *Clock) greet(ctx context.Context) {
	now := c.Now()
	next, err := c.scheduler.Next(ctx, now)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	c.announce(ctx, fmt.Sprintf("Starting clock! Next alarm at %s.", next.Format("Mon Jan 2 15:04")))
	c.log.Info("Next alarm at %v (%s)", next, humanize.RelTime(next, now, "ago", "from now"))
}

func (c *Clock) fail(ctx context.Context, err error) {
	c.announce(ctx, "ERROR!")
	var perr *alarmclock.PanicError
	if errors.As(err, &perr) {
		c.log.Error("%v\n%s", perr, perr.Stack)
		return
	}
	c.log.Error("%v", err)
}

func (c *Clock) announce(ctx context.Context, text string) {
	if err := c.announcer.Announce(ctx, text); err != nil {
		c.log.Warning("Announce %q: %v", text, err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done(): // Operation was canceled.
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
