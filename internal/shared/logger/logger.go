package logger

// Logger is the logging interface consumed by the tracking engine and API
// layer, keeping them independent of the concrete slog-based implementation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
