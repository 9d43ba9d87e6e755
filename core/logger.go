package core

// Logger is any leveled logger that can also ship its records to an external
// error tracker. Implementations live in services/logger.
type Logger interface {
	// Enable toggles shipping to the external tracker; local output stays on.
	Enable(enabled bool)

	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
