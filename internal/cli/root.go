package cli

import (
	"go.uber.org/zap"

	"attackmode/internal/config"
	"attackmode/internal/storage"
)

// Context carries the dependencies every command runs with.
type Context struct {
	Config config.Config
	Store  *storage.SQLiteStore
	Log    *zap.Logger
}
