package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-adventure/internal/session"
	"github.com/pixil98/go-adventure/internal/storage"
	"github.com/pixil98/go-errors"
)

type SessionConfig struct {
	IdleTimeout string `json:"idle_timeout,omitempty"`

	// DefaultRoom, when set, skips the starting-room prompt for
	// interactive sessions.
	DefaultRoom string `json:"default_room,omitempty"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.IdleTimeout != "" {
		_, err := time.ParseDuration(c.IdleTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing idle_timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *SessionConfig) BuildStore() (*session.Store, error) {
	var idle time.Duration
	if c.IdleTimeout != "" {
		d, err := time.ParseDuration(c.IdleTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing idle_timeout: %w", err)
		}
		idle = d
	}

	return session.NewStore(idle), nil
}

func (c *SessionConfig) DefaultRoomId() storage.Identifier {
	return storage.Identifier(c.DefaultRoom)
}
