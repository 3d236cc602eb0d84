// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matrixorigin/chaintable/pkg/common/moerr"
)

// LogConfig log config
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
	// StacktraceLevel is the lowest level that records a stack trace.
	// Empty means fatal.
	StacktraceLevel string `toml:"stacktrace-level"`
}

var (
	gLogger    atomic.Value // *zap.Logger
	gLogConfig atomic.Value // *LogConfig

	// gCloser releases the file behind the global logger, nil for console.
	gCloserMu sync.Mutex
	gCloser   io.Closer
)

func init() {
	SetupMOLogger(&LogConfig{
		Level:  zapcore.InfoLevel.String(),
		Format: "console",
	})
}

// SetupMOLogger builds a zap logger from conf and installs it as the global logger.
func SetupMOLogger(conf *LogConfig) {
	logger, closer, err := initMOLogger(conf)
	if err != nil {
		panic(err)
	}
	replaceGlobalLogger(logger, closer)
	gLogConfig.Store(conf)
	Debugf("MO logger init, level=%s, log file=%s", conf.Level, conf.Filename)
}

func initMOLogger(cfg *LogConfig) (*zap.Logger, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	level, encoder := cfg.getLevel(), cfg.getEncoder()
	syncer, closer := cfg.getSyncer()
	return GetLoggerWithOptions(level, encoder, syncer, cfg.getOptions()...), closer, nil
}

// GetLoggerWithOptions builds a logger from a level, encoder and syncer.
func GetLoggerWithOptions(level zap.AtomicLevel, encoder zapcore.Encoder, syncer zapcore.WriteSyncer, options ...zap.Option) *zap.Logger {
	if syncer == nil {
		syncer = getConsoleSyncer()
	}
	return zap.New(zapcore.NewCore(encoder, syncer, level), options...)
}

// replaceGlobalLogger installs logger and closes the file of the logger it
// replaces. Loggers derived from the old one reopen the file on write.
func replaceGlobalLogger(logger *zap.Logger, closer io.Closer) {
	gLogger.Store(logger)

	gCloserMu.Lock()
	prev := gCloser
	gCloser = closer
	gCloserMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
}

// GetGlobalLogger returns the current global logger.
func GetGlobalLogger() *zap.Logger {
	return gLogger.Load().(*zap.Logger)
}

func getGlobalLogConfig() *LogConfig {
	return gLogConfig.Load().(*LogConfig)
}

func (cfg *LogConfig) getLevel() zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	err := level.UnmarshalText([]byte(cfg.Level))
	if err != nil {
		panic(err)
	}
	return level
}

func (cfg *LogConfig) getStacktraceLevel() zapcore.Level {
	if cfg.StacktraceLevel == "" {
		return zapcore.FatalLevel
	}
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.StacktraceLevel)); err != nil {
		panic(err)
	}
	return level.Level()
}

// Validate checks the level, stacktrace level and format without building
// anything.
func (cfg *LogConfig) Validate() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return moerr.NewBadConfigNoCtx("log level %q: %v", cfg.Level, err)
	}
	if cfg.StacktraceLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.StacktraceLevel)); err != nil {
			return moerr.NewBadConfigNoCtx("log stacktrace-level %q: %v", cfg.StacktraceLevel, err)
		}
	}
	switch cfg.Format {
	case "", "console", "json":
	default:
		return moerr.NewBadConfigNoCtx("unsupported log format %q", cfg.Format)
	}
	return nil
}

// getSyncer returns the console syncer, or a lumberjack file syncer together
// with the logger that owns the file.
func (cfg *LogConfig) getSyncer() (zapcore.WriteSyncer, io.Closer) {
	if cfg.Filename == "" || cfg.Filename == "console" {
		return getConsoleSyncer(), nil
	}

	if stat, err := os.Stat(cfg.Filename); err == nil {
		if stat.IsDir() {
			panic("log file can't be a directory")
		}
	}

	if cfg.MaxSize == 0 {
		cfg.MaxSize = 512
	}
	// add lumberjack logger
	out := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   false,
	}
	return zapcore.AddSync(out), out
}

func (cfg *LogConfig) getEncoder() zapcore.Encoder {
	return getLoggerEncoder(cfg.Format)
}

func (cfg *LogConfig) getOptions() []zap.Option {
	return []zap.Option{zap.AddStacktrace(cfg.getStacktraceLevel()), zap.AddCaller()}
}

func getLoggerEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		TimeKey:          "time",
		NameKey:          "name",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000 -0700"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}

	switch format {
	case "json", "":
		return zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		return zapcore.NewConsoleEncoder(encoderConfig)
	default:
		panic(moerr.NewInternalError(context.Background(), "unsupported log format: %s", format))
	}
}

func getConsoleSyncer() zapcore.WriteSyncer {
	syncer, _, err := zap.Open("stderr")
	if err != nil {
		panic(err)
	}
	return syncer
}

// DurationField is shorthand used by callers that log elapsed time.
func DurationField(d time.Duration) zap.Field {
	return zap.Duration("duration", d)
}
