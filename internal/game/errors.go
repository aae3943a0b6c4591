package game

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidDirection = errors.New("no exit in that direction")
)

// EatError is the one failure surfaced to the user as a page of its own.
type EatError struct {
	Item   string
	Reason string
}

func (e *EatError) Error() string {
	return fmt.Sprintf("You cannot eat %s: %s.", e.Item, e.Reason)
}
