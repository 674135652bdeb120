package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock/config"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/supervisor"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, cli.NewExitError(err.Error(), 1)
	}
	return cfg, nil
}

func newSupervisor(cfg *config.Config) *supervisor.Supervisor {
	return supervisor.New(cfg.PIDFile, "run")
}

func start(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pid, err := newSupervisor(cfg).Start()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("Started alarm clock (PID %d)\n", pid)
	return nil
}

func stop(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := newSupervisor(cfg).Stop(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func restart(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pid, err := newSupervisor(cfg).Restart()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("Restarted alarm clock (PID %d)\n", pid)
	return nil
}

func status(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pid, alive, err := newSupervisor(cfg).Status()
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Println("Alarm clock is not running")
	case err != nil:
		return cli.NewExitError(err.Error(), 1)
	case alive:
		fmt.Printf("Alarm clock is running (PID %d)\n", pid)
	default:
		fmt.Printf("Alarm clock is not running, but pid file %s names PID %d\n", cfg.PIDFile, pid)
	}

	cache, closeCache, err := openCache(cfg)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer closeCache()
	next, err := cache.Load(context.Background())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if next.IsZero() {
		fmt.Println("No alarm pending")
		return nil
	}
	fmt.Printf("Next alarm at %s (%s)\n", next.Local().Format("Mon Jan 2 15:04"), humanize.RelTime(next, time.Now(), "ago", "from now"))
	return nil
}
