// Package utils provides shared helpers for logging, text handling, and
// vector math used across lawdex.
package utils

import "go.uber.org/zap"

// NewLogger builds the lawdex process logger. Debug selects zap's
// development config (console encoder, debug level) for interactive CLI
// runs; the server otherwise logs JSON at info level via the production
// config.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
