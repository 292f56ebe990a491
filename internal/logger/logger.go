package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

func init() {
	// Silence the default charmbracelet/log logger
	// All logging should go through our custom logger instance
	log.SetLevel(log.FatalLevel)
}

var (
	// Log is the global logger instance
	Log = log.New(io.Discard)

	// logFile is the file handle for the log file
	logFile *os.File
)

// Init initializes the logger writing to <logDir>/addonctl.log.
// When verbose is true, logs also go to stderr at debug level.
func Init(logDir string, verbose bool) error {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	output, err := openLogFile(logDir)
	if err != nil {
		// Fall back to stderr only if we can't open the log file
		Log = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
		if !verbose {
			level = log.WarnLevel
		}
		Log.SetLevel(level)
		return err
	}

	if verbose {
		output = io.MultiWriter(output, os.Stderr)
	}

	Log = log.NewWithOptions(output, log.Options{ReportTimestamp: true})
	Log.SetLevel(level)
	return nil
}

func openLogFile(logDir string) (io.Writer, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(LogPath(logDir), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	logFile = f
	return f, nil
}

// Close closes the log file
func Close() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// LogPath returns the path of the log file inside logDir
func LogPath(logDir string) string {
	return filepath.Join(logDir, "addonctl.log")
}

// Convenience functions that use the global logger

func Debug(msg interface{}, keyvals ...interface{}) {
	Log.Debug(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Log.Warn(msg, keyvals...)
}
