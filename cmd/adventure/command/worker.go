package command

import (
	"fmt"

	"github.com/pixil98/go-adventure/internal/driver"
	"github.com/pixil98/go-adventure/internal/events"
	"github.com/pixil98/go-adventure/internal/listener"
	"github.com/pixil98/go-adventure/internal/play"
	"github.com/pixil98/go-adventure/internal/web"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Build the world; a malformed definition stops the process here.
	world, err := cfg.Storage.BuildWorld()
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	sessions, err := cfg.Sessions.BuildStore()
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	bus, err := cfg.Events.BuildBus()
	if err != nil {
		return nil, fmt.Errorf("creating event bus: %w", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	router := web.NewRouter(web.NewHandler(world, sessions, renderer, bus))
	cm := listener.NewConnectionManager(play.NewManager(world, sessions, bus, cfg.Sessions.DefaultRoomId()))

	// Create listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		worker, err := l.BuildListener(router, cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = worker
	}

	// Session upkeep on a tick
	tickLength, err := cfg.tickLength()
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	var opts []driver.DriverOpt
	if tickLength > 0 {
		opts = append(opts, driver.WithTickLength(tickLength))
	}
	ticker := driver.NewDriver([]driver.Manager{sessions}, opts...)

	return service.WorkerList{
		"events":       bus,
		"event-logger": events.NewLogger(bus),
		"driver":       ticker,
		"listeners":    &listeners,
	}, nil
}
