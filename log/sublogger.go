package log

import (
	"fmt"
	"io"
	"strings"
)

func init() {
	Global = registerNewSubLogger("LOG")
	BackTester = registerNewSubLogger("BACKTESTER")
	DataLoader = registerNewSubLogger("DATA")
	Setup = registerNewSubLogger("SETUP")
	Strategy = registerNewSubLogger("STRATEGY")
	Report = registerNewSubLogger("REPORT")
	logger = newLogger(GenDefaultSettings())
}

// NewSubLogger allows for a new sub logger to be registered.
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, errEmptyLoggerName
	}
	name = strings.ToUpper(name)
	mu.Lock()
	defer mu.Unlock()
	if _, ok := subLoggers[name]; ok {
		return nil, fmt.Errorf("'%v' %w", name, ErrSubLoggerAlreadyRegistered)
	}
	return registerNewSubLogger(name), nil
}

// SetOutput overrides the default output with new writers
func (sl *SubLogger) SetOutput(writers ...io.Writer) error {
	if sl == nil {
		return errSubLoggerIsNil
	}
	mw, err := MultiWriter(writers...)
	if err != nil {
		return err
	}
	mu.Lock()
	sl.output = mw
	mu.Unlock()
	return nil
}

// SetLevels overrides the default levels with new levels; levelception
func (sl *SubLogger) SetLevels(newLevels Levels) {
	if sl == nil {
		return
	}
	mu.Lock()
	sl.levels = newLevels
	mu.Unlock()
}

// GetLevels returns current functional log levels
func (sl *SubLogger) GetLevels() Levels {
	if sl == nil {
		return Levels{}
	}
	mu.RLock()
	defer mu.RUnlock()
	return sl.levels
}

// Name returns the sub logger name
func (sl *SubLogger) Name() string {
	if sl == nil {
		return ""
	}
	return sl.name
}
