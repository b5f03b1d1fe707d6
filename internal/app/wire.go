//go:build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/table"
)

// InitializeService builds a table.Service and the cleanup that logs session
// metrics and releases its store and macro VM.
func InitializeService(ctx context.Context, cfg config.Config, logger *zap.Logger) (*table.Service, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
