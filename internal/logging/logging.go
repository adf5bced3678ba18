package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a development logger for env "dev" and a production JSON logger
// otherwise.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
