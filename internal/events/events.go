package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Subject carries every game event.
const Subject = "adventure.events"

type Kind string

const (
	KindPlayerCreated Kind = "player-created"
	KindPlayerMoved   Kind = "player-moved"
	KindItemTaken     Kind = "item-taken"
	KindItemDropped   Kind = "item-dropped"
	KindItemEaten     Kind = "item-eaten"
)

// Event describes one completed state transition.
type Event struct {
	Kind    Kind      `json:"kind"`
	Session string    `json:"session"`
	Player  string    `json:"player,omitempty"`
	Room    string    `json:"room,omitempty"`
	Item    string    `json:"item,omitempty"`
	At      time.Time `json:"at"`
}

// Bus provides the ability to publish and subscribe to message subjects.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// Emit stamps and publishes an event. Events describe transitions that
// already happened, so a publish failure is the caller's to log, not a
// reason to undo anything.
func Emit(bus Bus, ev Event) error {
	ev.At = time.Now()

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	return bus.Publish(Subject, data)
}
