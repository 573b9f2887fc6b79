package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Both configurations write to stderr, which
// keeps stdout free for the MCP stdio transport.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
