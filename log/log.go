// Package log provides structured logging into daily files under the config directory.
// Every emission is silently discarded unless logs.write is enabled.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/key"
	"github.com/tvxlabs/mediabridge/where"
)

var enabled bool

// Setup initializes the logging subsystem, including file handles, formatting, and severity levels based on global configuration.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	filename := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// Enabled reports whether logs are written.
func Enabled() bool {
	return enabled
}

// Entry is a logger carrying fixed fields, e.g. the engine an adapter drives.
type Entry struct {
	entry *logrus.Entry
}

// With returns an entry annotated with a single field.
func With(field string, value any) Entry {
	return Entry{entry: logrus.WithField(field, value)}
}

// With adds a field to the entry.
func (e Entry) With(field string, value any) Entry {
	return Entry{entry: e.entry.WithField(field, value)}
}

func (e Entry) Debug(args ...any) {
	if enabled {
		e.entry.Debug(args...)
	}
}

func (e Entry) Info(args ...any) {
	if enabled {
		e.entry.Info(args...)
	}
}

func (e Entry) Warn(args ...any) {
	if enabled {
		e.entry.Warn(args...)
	}
}

func (e Entry) Error(args ...any) {
	if enabled {
		e.entry.Error(args...)
	}
}

// Severity-Specific Log Emissions - these functions proxy messages to the configured backend when logging is enabled.

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
