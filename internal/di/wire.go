//go:build wireinject

package di

import (
	"go.uber.org/zap"
	"github.com/google/wire"

	"ldpstore/internal/config"
)

// InitializeContainer documents the provider graph New assembles by
// hand. It is never compiled into the binary (wireinject is never set).
// The provide* providers it lists are named only: no such functions are
// defined in this package, so `wire` cannot generate from this file as
// it stands.
func InitializeContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	wire.Build(
		provideMetrics,
		provideBackend,
		provideBreaker,
		provideMaterializer,
		providePlanner,
		providePool,
		provideService,
		provideHealth,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}
