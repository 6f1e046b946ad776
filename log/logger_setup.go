package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrSubLoggerAlreadyRegistered is returned when a sub logger name is reused
	ErrSubLoggerAlreadyRegistered = errors.New("sub logger already registered")

	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
	errSubLoggerIsNil        = errors.New("sub logger is nil")
	errEmptyLoggerName       = errors.New("cannot have empty logger name")
	errConfigNil             = errors.New("logger config is nil")
)

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(outputWriters[x]) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		case "discard":
			writer = io.Discard
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		err = mw.Add(writer)
		if err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() *Config {
	showName := true
	enabled := true
	return &Config{
		Enabled: &enabled,
		SubLoggerConfig: SubLoggerConfig{
			Level:  "INFO|WARN|ERROR",
			Output: "console",
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: &showName,
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

// SetGlobalLogConfig sets the global configuration used by SetupGlobalLogger
func SetGlobalLogConfig(incoming *Config) error {
	if incoming == nil {
		return errConfigNil
	}
	mu.Lock()
	globalLogConfig = incoming
	mu.Unlock()
	return nil
}

// SetupGlobalLogger applies the global config values to every registered sub
// logger, then applies any sub logger specific overrides
func SetupGlobalLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogConfig.Enabled != nil && !*globalLogConfig.Enabled {
		for _, sl := range subLoggers {
			sl.levels = Levels{}
		}
		return nil
	}
	for _, sl := range subLoggers {
		output, err := getWriters(&globalLogConfig.SubLoggerConfig)
		if err != nil {
			return err
		}
		sl.levels = splitLevel(globalLogConfig.Level)
		sl.output = output
	}
	logger = newLogger(globalLogConfig)
	for x := range globalLogConfig.SubLoggers {
		if err := configureSubLogger(&globalLogConfig.SubLoggers[x]); err != nil {
			return err
		}
	}
	return nil
}

// configureSubLogger requires the lock to be held
func configureSubLogger(s *SubLoggerConfig) error {
	sl, ok := subLoggers[strings.ToUpper(s.Name)]
	if !ok {
		return fmt.Errorf("%w: %v", errSubLoggerNotFound, s.Name)
	}
	output, err := getWriters(s)
	if err != nil {
		return err
	}
	sl.output = output
	sl.levels = splitLevel(s.Level)
	return nil
}

func newLogger(c *Config) Logger {
	showName := c.AdvancedSettings.ShowLogSystemName != nil && *c.AdvancedSettings.ShowLogSystemName
	return Logger{
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
		ShowLogSystemName: showName,
	}
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(enabledLevels[x]) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

// registerNewSubLogger requires the lock to be held when called outside of init
func registerNewSubLogger(subLogger string) *SubLogger {
	temp := &SubLogger{
		name:   strings.ToUpper(subLogger),
		output: os.Stdout,
		levels: splitLevel("INFO|WARN|ERROR"),
	}
	subLoggers[temp.name] = temp
	return temp
}
