// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

// Package logging configures the structured loggers used by the estimator
// and the pvar command. Records are written with log/slog to stdout, to a
// rotating file, or both.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
	Log rotation schedule

	"30 * * * *"               Every hour on the half hour
	"@hourly"                  Every hour
	"@every 1h30m"             Every hour thirty
	@daily
	@midnight
*/

type Config struct {
	Console        bool          `yaml:"console"`
	Filename       string        `yaml:"filename"`
	Append         bool          `yaml:"append"`
	RotateSchedule string        `yaml:"rotateSchedule"`
	MaxSize        int           `yaml:"maxSize"`
	MaxBackups     int           `yaml:"maxBackups"`
	MaxAge         int           `yaml:"maxAge"`
	Compress       bool          `yaml:"compress"`
	UTC            bool          `yaml:"utc"`
	Levels         []LevelConfig `yaml:"levels"`
	DefaultLevel   string        `yaml:"defaultLevel"`
}

// LevelConfig overrides the level of every logger whose name matches Pattern.
type LevelConfig struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
}

// PresetConfigStdout writes everything at INFO and above to stdout.
var PresetConfigStdout = Config{
	Filename:     "-",
	Append:       true,
	DefaultLevel: "INFO",
}

// PresetConfigDiscard drops every record.
var PresetConfigDiscard = Config{
	Filename:     ".",
	DefaultLevel: "ERROR",
}

var (
	mu           sync.RWMutex
	output       io.Writer = io.Discard
	levelDefault           = slog.LevelInfo
	levelConfig            = map[string]slog.Level{}
	rotateCron   *cron.Cron
)

// Configure replaces the process-wide log destination and levels.
// Loggers obtained earlier from GetLog keep their old destination.
func Configure(cfg *Config) error {
	mu.Lock()
	defer mu.Unlock()

	levelConfig = map[string]slog.Level{}
	for _, c := range cfg.Levels {
		lvl, err := ParseLevel(c.Level)
		if err != nil {
			return fmt.Errorf("level for %q: %w", c.Pattern, err)
		}
		levelConfig[c.Pattern] = lvl
	}
	lvl, err := ParseLevel(cfg.DefaultLevel)
	if err != nil {
		return err
	}
	levelDefault = lvl

	if rotateCron != nil {
		rotateCron.Stop()
		rotateCron = nil
	}

	switch cfg.Filename {
	case "", ".":
		output = io.Discard
	case "-":
		output = os.Stdout
	default:
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  !cfg.UTC,
		}
		if !cfg.Append {
			lj.Rotate()
		}
		if len(cfg.RotateSchedule) > 0 {
			rotateCron = cron.New()
			if _, err := rotateCron.AddFunc(cfg.RotateSchedule, func() { lj.Rotate() }); err != nil {
				rotateCron = nil
				return fmt.Errorf("log rotate schedule %q: %w", cfg.RotateSchedule, err)
			}
			rotateCron.Start()
		}
		if cfg.Console {
			output = io.MultiWriter(lj, os.Stdout)
		} else {
			output = lj
		}
	}
	return nil
}

// GetLog returns a logger tagged with module=name, filtered at the level
// configured for name.
func GetLog(name string) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return NewLog(name, output, levelFor(name))
}

// NewLog builds a logger on an explicit writer, bypassing Configure.
func NewLog(name string, w io.Writer, lvl slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h).With("module", name)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return NewLog("", io.Discard, slog.LevelError+1)
}

// levelFor picks the longest pattern in levelConfig that matches name.
func levelFor(name string) slog.Level {
	var matched string
	lvl := levelDefault
	for pattern, l := range levelConfig {
		if ok, err := path.Match(pattern, name); ok && err == nil && len(pattern) > len(matched) {
			matched = pattern
			lvl = l
		}
	}
	return lvl
}

// ParseLevel accepts TRACE, DEBUG, INFO, WARN, ERROR and NONE (any case).
// An empty name means INFO.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "TRACE", "DEBUG":
		return slog.LevelDebug, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "NONE":
		return slog.LevelError + 1, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %q", name)
}
