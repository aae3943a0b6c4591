package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-adventure/internal/events"
	"github.com/pixil98/go-errors"
)

type EventsConfig struct {
	Host         string `json:"host,omitempty"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout,omitempty"`
}

func (c *EventsConfig) validate() error {
	el := errors.NewErrorList()

	if c.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	if c.StartTimeout != "" {
		_, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *EventsConfig) BuildBus() (*events.NatsBus, error) {
	var opts []events.NatsBusOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, events.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, events.WithHost(c.Host))
	}
	opts = append(opts, events.WithPort(c.Port))

	return events.NewNatsBus(opts...)
}
