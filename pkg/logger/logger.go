package logger

// Instance is a logging backend. The facade fans every call out to all
// registered instances, so adding a file or remote sink later is a
// one-line change in main.
type Instance interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
	levelFatal
)

var instances []Instance

// Init registers the logging backends. Must run before any logging call;
// calls before Init are dropped silently.
func Init(backends ...Instance) {
	instances = backends
}

func dispatch(lvl level, message string, keyvals ...any) {
	for _, instance := range instances {
		switch lvl {
		case levelDebug:
			instance.Debug(message, keyvals...)
		case levelInfo:
			instance.Info(message, keyvals...)
		case levelWarn:
			instance.Warn(message, keyvals...)
		case levelError:
			instance.Error(message, keyvals...)
		case levelFatal:
			instance.Fatal(message, keyvals...)
		}
	}
}

// Debug writes a message at DEBUG level to all configured backends.
func Debug(message string, keyvals ...any) {
	dispatch(levelDebug, message, keyvals...)
}

// Info writes a message at INFO level to all configured backends.
func Info(message string, keyvals ...any) {
	dispatch(levelInfo, message, keyvals...)
}

// Warn writes a message at WARN level to all configured backends.
func Warn(message string, keyvals ...any) {
	dispatch(levelWarn, message, keyvals...)
}

// Error writes a message at ERROR level to all configured backends.
func Error(message string, keyvals ...any) {
	dispatch(levelError, message, keyvals...)
}

// Fatal writes a message at FATAL level. The backend is expected to
// terminate the process; only call this from main.
func Fatal(message string, keyvals ...any) {
	dispatch(levelFatal, message, keyvals...)
}
