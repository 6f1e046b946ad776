package log

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Info takes a pointer subLogger struct and string and writes an info line
func Info(sl *SubLogger, data string) {
	stage(sl, levelInfo, data)
}

// Infoln takes a pointer subLogger struct and interface and writes an info line
func Infoln(sl *SubLogger, v ...any) {
	stage(sl, levelInfo, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Infof takes a pointer subLogger struct, string and interface formats and
// writes an info line
func Infof(sl *SubLogger, data string, v ...any) {
	if !enabled(sl, levelInfo) {
		return
	}
	stage(sl, levelInfo, fmt.Sprintf(data, v...))
}

// Debug takes a pointer subLogger struct and string and writes a debug line
func Debug(sl *SubLogger, data string) {
	stage(sl, levelDebug, data)
}

// Debugln takes a pointer subLogger struct, string and interface and writes a
// debug line
func Debugln(sl *SubLogger, v ...any) {
	stage(sl, levelDebug, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debugf takes a pointer subLogger struct, string and interface formats and
// writes a debug line
func Debugf(sl *SubLogger, data string, v ...any) {
	if !enabled(sl, levelDebug) {
		return
	}
	stage(sl, levelDebug, fmt.Sprintf(data, v...))
}

// Warn takes a pointer subLogger struct & string and writes a warning line
func Warn(sl *SubLogger, data string) {
	stage(sl, levelWarn, data)
}

// Warnln takes a pointer subLogger struct & interface formats and writes a
// warning line
func Warnln(sl *SubLogger, v ...any) {
	stage(sl, levelWarn, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Warnf takes a pointer subLogger struct, string and interface formats and
// writes a warning line
func Warnf(sl *SubLogger, data string, v ...any) {
	if !enabled(sl, levelWarn) {
		return
	}
	stage(sl, levelWarn, fmt.Sprintf(data, v...))
}

// Error takes a pointer subLogger struct & interface formats and writes an
// error line
func Error(sl *SubLogger, data string) {
	stage(sl, levelError, data)
}

// Errorln takes a pointer subLogger struct, string & interface formats and
// writes an error line
func Errorln(sl *SubLogger, v ...any) {
	stage(sl, levelError, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Errorf takes a pointer subLogger struct, string and interface formats and
// writes an error line
func Errorf(sl *SubLogger, data string, v ...any) {
	if !enabled(sl, levelError) {
		return
	}
	stage(sl, levelError, fmt.Sprintf(data, v...))
}

type level uint8

const (
	levelInfo level = iota
	levelDebug
	levelWarn
	levelError
)

func enabled(sl *SubLogger, lvl level) bool {
	if sl == nil {
		return false
	}
	mu.RLock()
	defer mu.RUnlock()
	switch lvl {
	case levelInfo:
		return sl.levels.Info
	case levelDebug:
		return sl.levels.Debug
	case levelWarn:
		return sl.levels.Warn
	case levelError:
		return sl.levels.Error
	}
	return false
}

func (l *Logger) header(lvl level) string {
	switch lvl {
	case levelInfo:
		return l.InfoHeader
	case levelDebug:
		return l.DebugHeader
	case levelWarn:
		return l.WarnHeader
	default:
		return l.ErrorHeader
	}
}

// stage writes a single formatted log line to the sub logger output. The
// lock is released before the hook or writer is called so either may log
func stage(sl *SubLogger, lvl level, data string) {
	if !enabled(sl, lvl) {
		return
	}
	mu.RLock()
	l := logger
	hook := customLogHook
	output := sl.output
	mu.RUnlock()

	header := l.header(lvl)
	if hook != nil && hook(header, sl.name, data) {
		return
	}
	var b strings.Builder
	b.Grow(len(header) + len(data) + 48)
	b.WriteString(header)
	if l.TimestampFormat != "" {
		b.WriteString(time.Now().Format(l.TimestampFormat))
	}
	if l.ShowLogSystemName {
		b.WriteString(l.Spacer)
		b.WriteString(sl.name)
	}
	b.WriteString(l.Spacer)
	b.WriteString(data)
	b.WriteByte('\n')
	displayError(output.Write([]byte(b.String())))
}

func displayError(_ int, err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}
