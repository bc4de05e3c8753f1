package catalog

import "go.uber.org/zap"

var logger = zap.NewNop()

// InitializeLogger sets the logger for the catalog package.
func InitializeLogger(l *zap.Logger) {
	logger = l
}
