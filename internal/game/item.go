package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Item is a takeable object defined inline in a room asset.
// Items are immutable after load; play moves them between a room
// and a player's inventory but never copies them.
type Item struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Edible bool   `json:"edible,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (i *Item) Validate() error {
	el := errors.NewErrorList()

	if i.Id == "" {
		el.Add(fmt.Errorf("item id is required"))
	}
	if i.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}

	return el.Err()
}
