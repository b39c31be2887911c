package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/auditops/manday-planner/internal/config"
	"github.com/auditops/manday-planner/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Store  db.Store
	Logger *zap.Logger
	Ctx    context.Context
}
