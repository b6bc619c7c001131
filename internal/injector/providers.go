package injector

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/skeletal/internal/core/config"
	"github.com/zeusync/skeletal/internal/core/events/bus"
	"github.com/zeusync/skeletal/internal/core/instance"
	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/core/playback"
	"github.com/zeusync/skeletal/internal/core/skeletal"
	"github.com/zeusync/skeletal/internal/demo"
	"github.com/zeusync/skeletal/internal/server"
)

// ProviderSet builds an App from a loaded configuration.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	ProvideManager,
	ProvideServer,
	ProvideSkeletonData,
	ProvideStateData,
	wire.Struct(new(App), "*"),
)

// App is the pose server with everything it drives.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Manager   *instance.Manager
	Server    *server.Server
	Data      *skeletal.SkeletonData
	StateData *playback.AnimationStateData
}

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.Level())
}

func ProvideManager(events bus.EventBus, logger log.Log, cfg *config.Config) *instance.Manager {
	return instance.NewManager(events, logger, instance.Options{
		Workers:   cfg.Manager.Workers,
		TimeScale: cfg.Playback.TimeScale,
	})
}

func ProvideServer(manager *instance.Manager, logger log.Log, cfg *config.Config) (*server.Server, error) {
	return server.NewServer(manager, server.ConfigFrom(cfg.Server), logger)
}

func ProvideSkeletonData() (*skeletal.SkeletonData, error) {
	return demo.Rig()
}

func ProvideStateData(data *skeletal.SkeletonData, cfg *config.Config) (*playback.AnimationStateData, error) {
	stateData := playback.NewAnimationStateData(data)
	if err := cfg.ApplyMixes(stateData); err != nil {
		return nil, err
	}
	return stateData, nil
}

// Start adds the configured number of demo instances and starts serving.
func (a *App) Start(ctx context.Context) error {
	for n := range a.Config.Manager.Instances {
		inst, err := a.Manager.Add(a.Data, a.StateData)
		if err != nil {
			return fmt.Errorf("add instance %d: %w", n, err)
		}
		if err := demo.Direct(a.Manager, inst, n); err != nil {
			return err
		}
	}
	return a.Server.Start(ctx)
}

// Stop shuts the server down and flushes the logger.
func (a *App) Stop(ctx context.Context) error {
	err := a.Server.Stop(ctx)
	if errors.Is(err, server.ErrNotStarted) {
		err = nil
	}
	_ = a.Logger.Sync()
	return err
}
