package logging

import "go.uber.org/zap"

// New builds the service logger: human-readable in debug, JSON otherwise.
func New(service, level string) *zap.Logger {
	var logger *zap.Logger
	if level == "debug" {
		logger = zap.Must(zap.NewDevelopment())
	} else {
		logger = zap.Must(zap.NewProduction())
	}
	return logger.With(zap.String("service", service))
}
