package game

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pixil98/go-adventure/internal/storage"
	"github.com/pixil98/go-errors"
)

const nothingHere = "There is nothing here."

// Room is a location definition loaded from asset files.
type Room struct {
	Name        string                        `json:"name"`
	Description string                        `json:"description,omitempty"`
	Exits       map[string]storage.Identifier `json:"exits,omitempty"` // direction token -> room id
	Items       []Item                        `json:"items,omitempty"`
}

// Validate satisfies storage.ValidatingSpec. Exit targets are only checked
// for presence here; cross-room resolution happens when the world is built.
func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}

	for dir, target := range r.Exits {
		if utf8.RuneCountInString(dir) != 1 {
			el.Add(fmt.Errorf("exit %q: direction token must be a single character", dir))
		}
		if target == "" {
			el.Add(fmt.Errorf("exit %q: room id is required", dir))
		}
	}

	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			el.Add(fmt.Errorf("item %d: %w", i, err))
		}
	}

	return el.Err()
}

// RoomState holds the mutable contents of one room during play.
// All mutation goes through WorldState, which holds the lock.
type RoomState struct {
	id    storage.Identifier
	room  *Room
	items []*Item // insertion order is display order
}

func NewRoomState(id storage.Identifier, room *Room) *RoomState {
	rs := &RoomState{
		id:   id,
		room: room,
	}
	for i := range room.Items {
		item := room.Items[i]
		rs.items = append(rs.items, &item)
	}
	return rs
}

func (r *RoomState) Id() storage.Identifier {
	return r.id
}

func (r *RoomState) Name() string {
	return r.room.Name
}

func (r *RoomState) Description() string {
	return r.room.Description
}

func (r *RoomState) AddItem(item *Item) {
	r.items = append(r.items, item)
}

// RemoveItem takes an item out of the room by id.
func (r *RoomState) RemoveItem(itemId string) (*Item, error) {
	for i, item := range r.items {
		if item.Id == itemId {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return item, nil
		}
	}
	return nil, fmt.Errorf("removing %q from %s: %w", itemId, r.id, ErrItemNotFound)
}

// Items returns the room's contents in display order.
func (r *RoomState) Items() []*Item {
	out := make([]*Item, len(r.items))
	copy(out, r.items)
	return out
}

// ExitTo resolves a direction token to a destination room id. Only the
// first character of the token is significant, so "north" matches "n".
func (r *RoomState) ExitTo(token string) (storage.Identifier, error) {
	if token == "" {
		return "", ErrInvalidDirection
	}
	first, _ := utf8.DecodeRuneInString(token)
	target, ok := r.room.Exits[string(first)]
	if !ok {
		return "", ErrInvalidDirection
	}
	return target, nil
}

func (r *RoomState) DescribeItems() string {
	if len(r.items) == 0 {
		return nothingHere
	}

	names := make([]string, len(r.items))
	for i, item := range r.items {
		names[i] = item.Name
	}
	return strings.Join(names, ", ")
}

// ExitTokens lists the room's direction tokens in stable order.
func (r *RoomState) ExitTokens() []string {
	tokens := make([]string, 0, len(r.room.Exits))
	for dir := range r.room.Exits {
		tokens = append(tokens, dir)
	}
	sort.Strings(tokens)
	return tokens
}

func (r *RoomState) DescribeExits() string {
	return strings.Join(r.ExitTokens(), ", ")
}
