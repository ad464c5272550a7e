// Package logging points the standard logger at a console writer and,
// optionally, a rotating log file.
package logging

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"

	"hiroonarita/practice-planner/internal/config"
)

// Setup configures the standard logger to write to console and, when
// cfg.File is set, to a rotating file as well. It returns the combined
// writer so other loggers can share it. Close the returned closer on shutdown.
func Setup(cfg config.LogConfig, console io.Writer) (io.Writer, io.Closer) {
	log.SetFlags(log.LstdFlags | log.LUTC)
	if cfg.File == "" {
		log.SetOutput(console)
		return console, io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	w := io.MultiWriter(console, rotator)
	log.SetOutput(w)
	return w, rotator
}

// New returns a prefixed logger writing to w, e.g. New(w, "autosave").
func New(w io.Writer, component string) *log.Logger {
	return log.New(w, "["+component+"] ", log.LstdFlags|log.LUTC)
}
