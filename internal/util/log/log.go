/**
* Copyright 2018 Comcast Cable Communications Management, LLC
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You may obtain a copy of the License at
* http://www.apache.org/licenses/LICENSE-2.0
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
 */

// Package log provides logging functionality to RepoScope
package log

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-stack/stack"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/Comcast/reposcope/internal/config"
)

// Logger is the application's default logger, writing to the console at INFO
// until Init replaces it from the running configuration
var Logger = ConsoleLogger("info")

// Init initializes the default application logger from the running configuration
func Init() {
	if config.Logging != nil {
		instanceID := 0
		if config.Main != nil {
			instanceID = config.Main.InstanceID
		}
		Logger = New(config.Logging, instanceID)
	}
}

// Pairs represents a key=value pair that helps to describe a log event
type Pairs map[string]interface{}

// RepoScopeLogger is a container for the underlying log provider
type RepoScopeLogger struct {
	logger kitlog.Logger
	closer io.Closer
	level  string
}

func mapToArray(event string, detail Pairs) []interface{} {
	a := make([]interface{}, (len(detail)*2)+2)
	var i int

	// Ensure the log level is the first Pair in the output order (after prefixes)
	if lvl, ok := detail["level"]; ok {
		a[0] = "level"
		a[1] = lvl
		delete(detail, "level")
		i += 2
	}

	// Ensure the event description is the second Pair in the output order (after prefixes)
	a[i] = "event"
	a[i+1] = event
	i += 2

	for k, v := range detail {
		a[i] = k
		a[i+1] = v
		i += 2
	}
	return a
}

func newFilteredLogger(wr io.Writer, logLevel string) (kitlog.Logger, string) {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(wr))
	logger = kitlog.With(logger,
		"time", kitlog.DefaultTimestampUTC,
		"app", "reposcope",
		"caller", kitlog.Valuer(func() interface{} {
			return pkgCaller{stack.Caller(6)}
		}),
	)

	lvl := strings.ToLower(logLevel)
	switch lvl {
	case "debug", "trace":
		logger = level.NewFilter(logger, level.AllowDebug())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return logger, lvl
}

// ConsoleLogger returns a RepoScopeLogger object that prints log events to the Console
func ConsoleLogger(logLevel string) *RepoScopeLogger {
	l := &RepoScopeLogger{}
	l.logger, l.level = newFilteredLogger(os.Stdout, logLevel)
	return l
}

// New returns a RepoScopeLogger for the provided logging configuration. The
// returned RepoScopeLogger will write to files distinguished from other RepoScopeLoggers
// by the instance string.
func New(cfg *config.LoggingConfig, instanceID int) *RepoScopeLogger {
	l := &RepoScopeLogger{}

	var wr io.Writer

	if cfg.LogFile == "" {
		wr = os.Stdout
	} else {
		logFile := cfg.LogFile
		if instanceID > 0 {
			logFile = strings.Replace(logFile, ".log", "."+strconv.Itoa(instanceID)+".log", 1)
		}

		wr = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    256,  // megabytes
			MaxBackups: 80,   // 256 megs @ 80 backups is 20GB of Logs
			MaxAge:     7,    // days
			Compress:   true, // Compress Rolled Backups
		}
	}

	l.logger, l.level = newFilteredLogger(wr, cfg.LogLevel)
	if c, ok := wr.(io.Closer); ok && c != nil {
		l.closer = c
	}

	return l
}

// Info sends an "INFO" event to the default logger
func Info(event string, detail Pairs) {
	level.Info(Logger.logger).Log(mapToArray(event, detail)...)
}

// Warn sends a "WARN" event to the default logger
func Warn(event string, detail Pairs) {
	level.Warn(Logger.logger).Log(mapToArray(event, detail)...)
}

// Error sends an "ERROR" event to the default logger
func Error(event string, detail Pairs) {
	level.Error(Logger.logger).Log(mapToArray(event, detail)...)
}

// Debug sends a "DEBUG" event to the default logger
func Debug(event string, detail Pairs) {
	level.Debug(Logger.logger).Log(mapToArray(event, detail)...)
}

// Info sends an "INFO" event to the RepoScopeLogger
func (l *RepoScopeLogger) Info(event string, detail Pairs) {
	level.Info(l.logger).Log(mapToArray(event, detail)...)
}

// Warn sends a "WARN" event to the RepoScopeLogger
func (l *RepoScopeLogger) Warn(event string, detail Pairs) {
	level.Warn(l.logger).Log(mapToArray(event, detail)...)
}

// Error sends an "ERROR" event to the RepoScopeLogger
func (l *RepoScopeLogger) Error(event string, detail Pairs) {
	level.Error(l.logger).Log(mapToArray(event, detail)...)
}

// Debug sends a "DEBUG" event to the RepoScopeLogger
func (l *RepoScopeLogger) Debug(event string, detail Pairs) {
	level.Debug(l.logger).Log(mapToArray(event, detail)...)
}

// Trace sends a "TRACE" event to the RepoScopeLogger
func (l *RepoScopeLogger) Trace(event string, detail Pairs) {
	// go-kit/log/level does not support Trace, so implemented separately here
	if l.level == "trace" {
		detail["level"] = "trace"
		l.logger.Log(mapToArray(event, detail)...)
	}
}

// Fatal sends a "FATAL" event to the RepoScopeLogger and exits the program with the provided exit code
func (l *RepoScopeLogger) Fatal(code int, event string, detail Pairs) {
	// go-kit/log/level does not support Fatal, so implemented separately here
	detail["level"] = "fatal"
	l.logger.Log(mapToArray(event, detail)...)
	os.Exit(code)
}

// Close closes any opened file handles that were used for logging.
func (l *RepoScopeLogger) Close() {
	if l.closer != nil {
		l.closer.Close()
	}
}

// Log implements the go-kit log.Logger interface
func (l *RepoScopeLogger) Log(keyvals ...interface{}) error {
	return l.logger.Log(keyvals...)
}

// pkgCaller wraps a stack.Call to make the default string output include the
// package path.
type pkgCaller struct {
	c stack.Call
}

// String returns a path from the call stack that is relative to the root of the project
func (pc pkgCaller) String() string {
	return strings.TrimPrefix(fmt.Sprintf("%+v", pc.c), "github.com/Comcast/reposcope/internal/")
}
