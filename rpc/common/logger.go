package common

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LoggerNames lists every named logger of this module
var LoggerNames = []string{"rpc", "conn", "session", "transport", "server", "collection"}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// respLogger implements the ILogger interface with custom formatting.
// SetLevel may race with logging goroutines, so level is atomic.
type respLogger struct {
	name   string
	level  atomic.Int32
	logger *log.Logger
}

func (l *respLogger) SetLevel(level logger.LogLevel) {
	l.level.Store(int32(level))
}

func (l *respLogger) Debugf(format string, args ...interface{}) {
	l.logAt(logger.DEBUG, "DEBUG", format, args)
}

func (l *respLogger) Infof(format string, args ...interface{}) {
	l.logAt(logger.INFO, "INFO", format, args)
}

func (l *respLogger) Warningf(format string, args ...interface{}) {
	l.logAt(logger.WARNING, "WARN", format, args)
}

func (l *respLogger) Errorf(format string, args ...interface{}) {
	l.logAt(logger.ERROR, "ERROR", format, args)
}

// Panicf logs at every level and panics
func (l *respLogger) Panicf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-10s | %s", "PANIC", l.name, message)
	panic(message)
}

// logAt writes one line if level is enabled
func (l *respLogger) logAt(level logger.LogLevel, tag string, format string, args []interface{}) {
	if logger.LogLevel(l.level.Load()) < level {
		return
	}
	l.logger.Printf("%-5s | %-10s | %s", tag, l.name, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger is the logger.Factory installed by InitLoggers
func CreateLogger(pkgName string) logger.ILogger {
	stdLogger := log.New(os.Stderr, "", log.Ldate|log.Ltime)

	l := &respLogger{
		name:   pkgName,
		logger: stdLogger,
	}
	l.SetLevel(logger.INFO)
	return l
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom format and sets the level of all loggers
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	logger.SetLoggerFactory(CreateLogger)

	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
