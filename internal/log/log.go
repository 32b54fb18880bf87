// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// EnvLevel is the environment variable read at start-up to set the log level.
const EnvLevel = "DLBIND_LOG_LEVEL"

// Level is the severity of a log message. Messages below the current level are
// discarded.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelOff
)

var current atomic.Int32

func init() {
	level := LevelWarning
	if name, ok := os.LookupEnv(EnvLevel); ok {
		level = LevelNamed(name)
	}
	SetLevel(level)
}

// LevelNamed returns the log level corresponding to the given name, or LevelOff
// if the name corresponds to no known log level.
func LevelNamed(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	case "off":
		return LevelOff
	default:
		return LevelOff
	}
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return fmt.Sprintf("0x%X", uintptr(l))
	}
}

// SetLevel changes the minimum level of the messages that get printed.
func SetLevel(level Level) {
	current.Store(int32(level))
}

// CurrentLevel returns the minimum level of the messages that get printed.
func CurrentLevel() Level {
	return Level(current.Load())
}

// Enabled reports whether messages of the given level are printed. Callers
// building expensive messages should check it first.
func Enabled(level Level) bool {
	return level != LevelOff && level >= CurrentLevel()
}

func Tracef(format string, args ...any) { logMessage(LevelTrace, format, args...) }
func Debugf(format string, args ...any) { logMessage(LevelDebug, format, args...) }
func Infof(format string, args ...any)  { logMessage(LevelInfo, format, args...) }
func Warnf(format string, args ...any)  { logMessage(LevelWarning, format, args...) }
func Errorf(format string, args ...any) { logMessage(LevelError, format, args...) }

func logMessage(level Level, format string, args ...any) {
	if !Enabled(level) {
		return
	}
	log.Printf("[%-5s] dlbind: %s\n", level, fmt.Sprintf(format, args...))
}
