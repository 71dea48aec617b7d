// Package logger provides structured JSON logging and run metrics for roster-scraper.
//
// The logger supports multiple log levels (DEBUG, INFO, WARN, ERROR) and writes
// structured JSON through zap. Every entry carries an ISO8601 timestamp, the level,
// the message, and any structured fields. An optional rotating log file can be teed
// next to the console output.
//
// Metrics tracking includes counters (incrementing values), gauges (point-in-time values),
// and timings (duration measurements) with automatic statistical aggregation.
//
// Example usage:
//
//	logger.Info("Fetching roster", logger.Fields{
//	    "team":   "mens",
//	    "season": "2023-24",
//	})
//
//	logger.Error("Roster fetch failed", logger.Fields{
//	    "season": "2023-24",
//	}, err)
//
//	m := logger.DefaultMetrics()
//	m.IncrCounter("seasons.failed")
//	m.RecordTiming("roster.fetch", duration)
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel converts a case-insensitive level name into a Level.
// An empty string yields LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return LevelInfo, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level: %s", s)
	}
}

func (level Level) zapLevel() zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger provides structured logging
type Logger struct {
	zl   *zap.Logger
	file *lumberjack.Logger
}

// Fields represents structured log fields
type Fields map[string]interface{}

var defaultLogger *Logger

func init() {
	defaultLogger = New(LevelInfo, os.Stderr)
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func newCore(level Level, ws zapcore.WriteSyncer) zapcore.Core {
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, level.zapLevel())
}

// New creates a new logger with the specified minimum log level and output destination.
// Messages below the minimum level will be discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		zl: zap.New(newCore(level, zapcore.AddSync(output))),
	}
}

// NewWithFile creates a logger that writes to output and also to a size-rotated
// log file at path.
func NewWithFile(level Level, output io.Writer, path string) *Logger {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	core := zapcore.NewTee(
		newCore(level, zapcore.AddSync(output)),
		newCore(level, zapcore.AddSync(file)),
	)

	return &Logger{
		zl:   zap.New(core),
		file: file,
	}
}

// SetDefault sets the default package-level logger used by the convenience functions
// (Debug, Info, Warn, Error). This allows centralizing logger configuration.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

// Close flushes buffered entries and closes the log file, if any
func (l *Logger) Close() error {
	_ = l.zl.Sync() // stderr sync fails on some platforms
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	ce := l.zl.Check(level.zapLevel(), message)
	if ce == nil {
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zf := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	if err != nil {
		zf = append(zf, zap.Error(err))
	}

	ce.Write(zf...)
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
// Warning messages indicate potential issues that don't prevent operation.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}

// Metrics collects the numbers a scrape run reports at the end: per-season
// outcome counters (seasons.ok, seasons.failed, seasons.empty), the
// roster.fetch timing and the players.unique gauge. Safe for concurrent use.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

// TimingStats summarizes the durations recorded under one name
type TimingStats struct {
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// Snapshot is a point-in-time copy of a Metrics
type Snapshot struct {
	Counters map[string]int64
	Gauges   map[string]float64
	Timings  map[string]TimingStats
}

// Fields flattens the snapshot for a log entry, e.g. "seasons.ok" or
// "roster.fetch.average".
func (s Snapshot) Fields() Fields {
	fields := Fields{}
	for name, v := range s.Counters {
		fields[name] = v
	}
	for name, v := range s.Gauges {
		fields[name] = v
	}
	for name, st := range s.Timings {
		fields[name+".count"] = st.Count
		fields[name+".average"] = st.Average.String()
		fields[name+".max"] = st.Max.String()
	}
	return fields
}

var defaultMetrics = NewMetrics()

func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

// DefaultMetrics returns the process-wide tracker used when a collector is
// built without WithMetrics.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}

func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// Counter returns the current value of a counter, 0 if never incremented
func (m *Metrics) Counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming appends one measurement, typically a single roster fetch
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], duration)
}

// Snapshot copies the current values and aggregates each timing series
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingStats, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}

	for name, durations := range m.timings {
		if len(durations) == 0 {
			continue
		}
		st := TimingStats{Count: len(durations), Min: durations[0], Max: durations[0]}
		for _, d := range durations {
			st.Total += d
			st.Min = min(st.Min, d)
			st.Max = max(st.Max, d)
		}
		st.Average = st.Total / time.Duration(st.Count)
		snap.Timings[name] = st
	}

	return snap
}
