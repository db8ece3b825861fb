package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
	// Warnf reports a recoverable problem; callers continue after logging it.
	Warnf(format string, args ...interface{})
}
