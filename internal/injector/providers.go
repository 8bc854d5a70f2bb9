package injector

import (
	"math/rand"

	"github.com/google/wire"

	"github.com/zeusync/ecosim/internal/config"
	"github.com/zeusync/ecosim/internal/core/events/bus"
	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/system"
	"github.com/zeusync/ecosim/internal/core/systems/hazard"
	"github.com/zeusync/ecosim/internal/server"
)

// App is everything cmd/ecosim needs to run a simulation.
type App struct {
	Config config.Config
	Logger *log.Logger
	Events bus.EventBus
	World  *system.World
	Feed   *server.FeedServer
}

// ProviderSet builds an App from a config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRand,
	ProvideEventBus,
	ProvideDirectory,
	ProvideWorld,
	ProvideFeed,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) *log.Logger {
	return log.New(cfg.Level())
}

// ProvideRand returns the simulation's single random source. Every consumer
// of randomness in one App shares it so a seed replays the same run.
func ProvideRand(cfg config.Config) *rand.Rand {
	return rand.New(rand.NewSource(cfg.SeedValue()))
}

func ProvideEventBus() bus.EventBus {
	return bus.New()
}

func ProvideDirectory(cfg config.Config, rng *rand.Rand, logger *log.Logger, events bus.EventBus) (*hazard.Directory, error) {
	return hazard.NewDirectory(cfg.Hazards, rng, logger, events)
}

func ProvideWorld(cfg config.Config, dir *hazard.Directory, rng *rand.Rand, logger *log.Logger) (*system.World, error) {
	return system.NewWorld(cfg.World.Settings(), cfg.Physics, dir, rng, logger)
}

func ProvideFeed(cfg config.Config, logger *log.Logger) *server.FeedServer {
	return server.NewFeedServer(cfg.Server, logger)
}
