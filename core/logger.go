package core

// Logger is any service that can log messages.
// args may contain errors, maps of extra data and the user.User the message is about.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	// Sync flushes whatever is still buffered or queued for reporting.
	Sync() error
}
