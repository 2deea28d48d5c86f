/*
NAME
  logger.go

DESCRIPTION
  logger.go constructs the default file-rotated Logger a session uses
  when an application doesn't supply its own, mirroring cmd/rv/main.go
  and cmd/looper/main.go's "create a lumberjack logger, wrap it with
  logging.New" pattern (minus the netlogger cloud-forwarding leg, which
  is outside an encoder core's scope).

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"
)

// FileLoggerOptions configures NewFileLogger.
type FileLoggerOptions struct {
	// Path is the log file path. Required.
	Path string
	// MaxSizeMB, MaxBackups, MaxAgeDays follow lumberjack.Logger's fields;
	// zero values fall back to the same defaults cmd/rv/main.go uses.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Verbosity is one of logging.Debug/Info/Warning/Error.
	Verbosity int8
	// Suppress, when true, rate-limits repeated identical log lines, the
	// same suppression flag logging.New accepts.
	Suppress bool
}

const (
	defaultLogMaxSizeMB  = 500
	defaultLogMaxBackups = 10
	defaultLogMaxAgeDays = 28
)

// NewFileLogger returns a logging.Logger that writes to a lumberjack-
// rotated file at opts.Path, built the same way cmd/rv and cmd/looper
// build their file logger before handing it to logging.New.
func NewFileLogger(opts FileLoggerOptions) logging.Logger {
	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultLogMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultLogMaxBackups
	}
	maxAge := opts.MaxAgeDays
	if maxAge == 0 {
		maxAge = defaultLogMaxAgeDays
	}
	fileLog := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
	}
	return logging.New(opts.Verbosity, fileLog, opts.Suppress)
}
