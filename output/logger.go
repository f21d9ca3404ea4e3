package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type LogLevel int

const (
	// Levels ordered by verbosity (lower value = more verbose)
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// Logger writes leveled, timestamped lines. Writes are serialized, and an
// attached progress line is cleared before each message and redrawn after.
type Logger struct {
	minLevel LogLevel
	silent   bool
	terminal bool

	mu       sync.Mutex
	out      io.Writer
	now      func() time.Time
	progress *ProgressBar

	debugColor   *color.Color
	infoColor    *color.Color
	warningColor *color.Color
	errorColor   *color.Color
	successColor *color.Color
	timeColor    *color.Color
}

// NewLoggerTo logs to w. Colors are used only when w is a terminal and
// noColor is unset.
func NewLoggerTo(w io.Writer, verbose, silent, noColor bool) *Logger {
	minLogLevel := LevelInfo
	if verbose {
		minLogLevel = LevelDebug
	}

	l := &Logger{
		minLevel: minLogLevel,
		silent:   silent,
		terminal: IsTerminal(w),
		out:      w,
		now:      time.Now,

		timeColor:    color.New(color.FgHiBlack),
		debugColor:   color.New(color.FgHiBlack),
		infoColor:    color.New(color.FgCyan),
		warningColor: color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed, color.Bold),
		successColor: color.New(color.FgGreen, color.Bold),
	}
	if noColor || !l.terminal {
		for _, c := range []*color.Color{l.timeColor, l.debugColor, l.infoColor, l.warningColor, l.errorColor, l.successColor} {
			c.DisableColor()
		}
	}
	return l
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) enabled(level LogLevel) bool {
	if l.silent {
		return level == LevelSuccess || level == LevelError
	}
	return level >= l.minLevel
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !l.enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.progress != nil {
		l.progress.clearLocked()
	}

	timestamp := l.timeColor.Sprintf("[%s]", l.now().Format("15:04:05"))
	var prefix, formatted string
	switch level {
	case LevelDebug:
		prefix = l.debugColor.Sprint("[DEBUG]")
		formatted = l.debugColor.Sprint(msg)
	case LevelInfo:
		prefix = l.infoColor.Sprint("[INFO]")
		formatted = msg
	case LevelWarning:
		prefix = l.warningColor.Sprint("[WARNING]")
		formatted = l.warningColor.Sprint(msg)
	case LevelError:
		prefix = l.errorColor.Sprint("[ERROR]")
		formatted = l.errorColor.Sprint(msg)
	case LevelSuccess:
		prefix = l.successColor.Sprint("[SUCCESS]")
		formatted = l.successColor.Sprint(msg)
	}
	fmt.Fprintf(l.out, "%s %s %s\n", timestamp, prefix, formatted)

	if l.progress != nil {
		l.progress.renderLocked()
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(LevelWarning, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

func (l *Logger) Success(format string, args ...interface{}) {
	l.log(LevelSuccess, format, args...)
}

func (l *Logger) IsSilent() bool {
	return l.silent
}

func (l *Logger) IsVerbose() bool {
	return l.minLevel == LevelDebug
}
