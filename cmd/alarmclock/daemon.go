package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/config"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/file"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/logger"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/mem"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/poll"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/redis"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/speech"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/sqlite"
)

// run is the daemon body. start spawns it detached.
func run(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewMultiLogger(
		logger.NewConsoleLogger(),
		logger.NewFileLogger(logger.FileConfig{
			Path:       cfg.Log.Path,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}),
	)
	defer log.Close()

	release, err := newSupervisor(cfg).Acquire()
	if err != nil {
		log.Error("%v", err)
		return cli.NewExitError(err.Error(), 1)
	}
	defer func() {
		if err := release(); err != nil {
			log.Error("Remove pid file: %v", err)
		}
	}()

	cache, closeCache, err := openCache(cfg)
	if err != nil {
		log.Error("%v", err)
		return cli.NewExitError(err.Error(), 1)
	}
	defer closeCache()

	schedule := mem.NewSchedule(cfg.Alarms...)
	clock := poll.NewClock(
		alarmclock.NewScheduler(schedule, cache),
		speech.NewSpeaker(cfg.Speech.Command, cfg.Speech.Args...),
		log,
	)
	clock.RestInterval = cfg.RestInterval
	clock.LateAfter = cfg.LateAfter
	clock.AlarmText = cfg.AlarmText

	ctx, cancel := handleSignals(log, schedule)
	defer cancel()

	log.Info("Alarm clock running (PID %d), alarms %v", os.Getpid(), cfg.Alarms)
	return clock.Run(ctx)
}

// handleSignals returns a context canceled by SIGTERM or SIGINT. SIGHUP
// reloads the alarms from the config file.
func handleSignals(log logger.Logger, schedule *mem.Schedule) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigChan:
				if sig != syscall.SIGHUP {
					log.Info("Received %v, shutting down", sig)
					cancel()
					return
				}
				cfg, err := config.Load(config.DefaultPath())
				if err != nil {
					log.Error("Reload config: %v", err)
					continue
				}
				schedule.Reload(cfg.Alarms...)
				log.Info("Reloaded alarms %v", cfg.Alarms)
			}
		}
	}()

	return ctx, cancel
}

// openCache returns the configured cache along with a function releasing it.
func openCache(cfg *config.Config) (alarmclock.Cache, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Cache.Driver {
	case config.DriverFile:
		return file.NewCache(afero.NewOsFs(), cfg.Cache.Path), nop, nil
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0o755); err != nil {
			return nil, nil, err
		}
		c, err := sqlite.Open(cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case config.DriverRedis:
		c := redis.NewCache(goredis.NewClient(&goredis.Options{Addr: cfg.Cache.RedisAddr}), cfg.Cache.RedisKey)
		return c, c.Close, nil
	case config.DriverMemory:
		return mem.NewCache(), nop, nil
	}
	return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
}
