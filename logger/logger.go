package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide sugared logger. It defaults to a no-op logger so
// library code and tests can log before Init runs.
var Log = zap.NewNop().Sugar()

// Init replaces Log with the production logger. Called once from main.
func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
