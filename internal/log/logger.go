// Package log provides the diagnostic logger for mapsize runs.
// Diagnostics go to stderr through logrus so that stdout carries only
// the size report; the level follows the quiet, verbose and debug options.
package log

import (
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"mapsize/internal/config"
	"mapsize/internal/parser"
)

// Summary holds the statistics of one run as reported in verbose mode.
type Summary struct {
	MapFile        string
	Lines          int
	Records        int
	Skipped        int
	Discarded      bool
	Keys           int
	FilteredKeys   int
	TotalSize      uint64
	ProcessingTime time.Duration
}

// Logger wraps a logrus logger configured from the run configuration.
type Logger struct {
	*logrus.Logger
	config  *config.Config
	summary Summary
}

// NewLogger creates a Logger writing to w.
func NewLogger(cfg *config.Config, w io.Writer) *Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(levelFor(cfg))

	return &Logger{
		Logger:  logger,
		config:  cfg,
		summary: Summary{MapFile: cfg.MapFile},
	}
}

func levelFor(cfg *config.Config) logrus.Level {
	switch {
	case !cfg.ShouldLog():
		return logrus.ErrorLevel
	case cfg.IsDebug():
		return logrus.DebugLevel
	case cfg.IsVerbose():
		return logrus.InfoLevel
	default:
		return logrus.WarnLevel
	}
}

// LogScan records the outcome of scanning the map file. A scan that found
// no records at all is almost always the wrong file, so it is warned about.
func (l *Logger) LogScan(stats parser.Stats, table parser.SizeTable) {
	l.summary.Lines = stats.Lines
	l.summary.Records = stats.Records
	l.summary.Skipped = stats.Skipped
	l.summary.Discarded = stats.Discarded
	l.summary.Keys = len(table)

	if stats.Records == 0 {
		l.WithField("file", filepath.Base(l.summary.MapFile)).Warn("no section records found in map file")
	}
}

// LogFiltered records how many keys survived filtering.
func (l *Logger) LogFiltered(table parser.SizeTable) {
	l.summary.FilteredKeys = len(table)
	l.summary.TotalSize = table.Total()

	if dropped := l.summary.Keys - l.summary.FilteredKeys; dropped > 0 {
		l.WithField("dropped", dropped).Debug("keys removed by filter")
	}
}

// SetProcessingTime records the run duration.
func (l *Logger) SetProcessingTime(duration time.Duration) {
	l.summary.ProcessingTime = duration
}

// Summary returns the statistics gathered so far.
func (l *Logger) Summary() Summary {
	return l.summary
}

// WriteSummary logs the run statistics at info level.
func (l *Logger) WriteSummary() {
	if !l.config.IsVerbose() && !l.config.IsDebug() {
		return
	}

	l.WithFields(logrus.Fields{
		"file":      l.summary.MapFile,
		"lines":     l.summary.Lines,
		"records":   l.summary.Records,
		"skipped":   l.summary.Skipped,
		"discarded": l.summary.Discarded,
		"keys":      l.summary.FilteredKeys,
		"total":     l.summary.TotalSize,
		"elapsed":   l.summary.ProcessingTime,
	}).Info("map file analysed")
}
