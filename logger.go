package match

import "github.com/rs/zerolog"

// The package logger is a no-op by default so the engine stays silent when
// embedded. Use WithLogger to scope a logger to a single book instead.
var logger = zerolog.Nop()

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	logger = l
}
