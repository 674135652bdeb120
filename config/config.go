// Package config loads the alarm clock's settings from ~/.clock/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
)

const (
	// Dir holds the config file, the cache and the log, relative to the
	// user's home directory.
	Dir = ".clock"

	DefaultPIDFile = "/tmp/clock.pid"
)

// Cache drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Alarms       []alarmclock.WeekTime `yaml:"alarms"`
	RestInterval time.Duration         `yaml:"rest_interval"`
	LateAfter    time.Duration         `yaml:"late_after"`
	AlarmText    string                `yaml:"alarm_text"`
	PIDFile      string                `yaml:"pid_file"`
	Cache        CacheConfig           `yaml:"cache"`
	Speech       SpeechConfig          `yaml:"speech"`
	Log          LogConfig             `yaml:"log"`
}

type CacheConfig struct {
	Driver    string `yaml:"driver"`
	Path      string `yaml:"path,omitempty"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
	RedisKey  string `yaml:"redis_key,omitempty"`
}

// SpeechConfig names the text-to-speech command. The announcement is passed
// as its last argument.
type SpeechConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the settings used when there is no config file: weekday
// alarms at 09:00.
func Default() *Config {
	dir := "~/" + Dir
	return &Config{
		Alarms: []alarmclock.WeekTime{
			alarmclock.NewWeekTime(0, 9, 0),
			alarmclock.NewWeekTime(1, 9, 0),
			alarmclock.NewWeekTime(2, 9, 0),
			alarmclock.NewWeekTime(3, 9, 0),
			alarmclock.NewWeekTime(4, 9, 0),
		},
		RestInterval: 3 * time.Second,
		LateAfter:    3 * time.Second,
		AlarmText:    "beep beep!",
		PIDFile:      DefaultPIDFile,
		Cache: CacheConfig{
			Driver: DriverFile,
			Path:   dir + "/next_alarm_cache",
		},
		Speech: SpeechConfig{
			Command: "espeak",
		},
		Log: LogConfig{
			Path:       dir + "/clock.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultPath returns the config file location, which ALARMCLOCK_CONFIG
// overrides.
func DefaultPath() string {
	if path := os.Getenv("ALARMCLOCK_CONFIG"); path != "" {
		return path
	}
	return expandHome("~/" + Dir + "/config.yaml")
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes YAML on top of the defaults, then applies
// environment overrides and validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, alarmclock.Errorf(alarmclock.ErrInvalid, "parse config: %v", err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	cfg.PIDFile = expandHome(cfg.PIDFile)
	cfg.Cache.Path = expandHome(cfg.Cache.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	envMap := map[string]*string{
		"ALARMCLOCK_PID_FILE":       &cfg.PIDFile,
		"ALARMCLOCK_CACHE_DRIVER":   &cfg.Cache.Driver,
		"ALARMCLOCK_CACHE_PATH":     &cfg.Cache.Path,
		"ALARMCLOCK_REDIS_ADDR":     &cfg.Cache.RedisAddr,
		"ALARMCLOCK_SPEECH_COMMAND": &cfg.Speech.Command,
	}
	for env, ptr := range envMap {
		if val, ok := os.LookupEnv(env); ok {
			*ptr = val
		}
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Validate reports the first problem with cfg.
func (cfg *Config) Validate() error {
	switch {
	case len(cfg.Alarms) == 0:
		return alarmclock.Errorf(alarmclock.ErrInvalid, "no alarms configured")
	case cfg.RestInterval <= 0:
		return alarmclock.Errorf(alarmclock.ErrInvalid, "rest_interval must be positive")
	case cfg.LateAfter <= 0:
		return alarmclock.Errorf(alarmclock.ErrInvalid, "late_after must be positive")
	case cfg.PIDFile == "":
		return alarmclock.Errorf(alarmclock.ErrInvalid, "pid_file must be set")
	}

	switch cfg.Cache.Driver {
	case DriverFile, DriverSQLite:
		if cfg.Cache.Path == "" {
			return alarmclock.Errorf(alarmclock.ErrInvalid, "cache driver %s needs a path", cfg.Cache.Driver)
		}
	case DriverRedis:
		if cfg.Cache.RedisAddr == "" {
			return alarmclock.Errorf(alarmclock.ErrInvalid, "cache driver redis needs redis_addr")
		}
	case DriverMemory:
	default:
		return alarmclock.Errorf(alarmclock.ErrInvalid, "unknown cache driver %q", cfg.Cache.Driver)
	}
	return nil
}
