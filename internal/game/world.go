package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pixil98/go-adventure/internal/storage"
	"github.com/pixil98/go-errors"
)

// WorldState owns every room's runtime state. The room graph is immutable
// after construction; only room contents and player state change during
// play, and all of it is guarded by one lock so each request is a single
// atomic transition.
type WorldState struct {
	mu    sync.RWMutex
	rooms map[storage.Identifier]*RoomState
}

// NewWorldState builds the room graph from the loaded definitions. Any
// malformed definition, such as an exit pointing at an unknown room, is
// fatal: the server must not start on a broken world.
func NewWorldState(rooms storage.Storer[*Room]) (*WorldState, error) {
	states := make(map[storage.Identifier]*RoomState)
	for id, room := range rooms.GetAll() {
		states[id] = NewRoomState(id, room)
	}

	el := errors.NewErrorList()
	for id, room := range rooms.GetAll() {
		for dir, target := range room.Exits {
			if _, ok := states[target]; !ok {
				el.Add(fmt.Errorf("room %s: exit %q points to unknown room %q", id, dir, target))
			}
		}
	}
	if err := el.Err(); err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	return &WorldState{rooms: states}, nil
}

// RoomInfo is the landing-page listing entry for one room.
type RoomInfo struct {
	Id   storage.Identifier
	Name string
}

// Rooms lists every room in stable id order.
func (w *WorldState) Rooms() []RoomInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(w.rooms))
	for id, rs := range w.rooms {
		infos = append(infos, RoomInfo{Id: id, Name: rs.Name()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Id < infos[j].Id })
	return infos
}

// RoomView is a consistent snapshot of one room for rendering. Items and
// Exits are the human-readable phrases; the lists carry the structure the
// page needs for links and forms.
type RoomView struct {
	Id          storage.Identifier
	Name        string
	Description string
	Items       string
	Exits       string
	ItemList    []Item
	ExitList    []string
}

func (w *WorldState) ViewRoom(id storage.Identifier) (*RoomView, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rs, ok := w.rooms[id]
	if !ok {
		return nil, fmt.Errorf("viewing room %s: %w", id, ErrRoomNotFound)
	}

	view := &RoomView{
		Id:          rs.Id(),
		Name:        rs.Name(),
		Description: rs.Description(),
		Items:       rs.DescribeItems(),
		Exits:       rs.DescribeExits(),
		ExitList:    rs.ExitTokens(),
	}
	for _, item := range rs.Items() {
		view.ItemList = append(view.ItemList, *item)
	}
	return view, nil
}

// PlayerView is a consistent snapshot of a player for rendering.
type PlayerView struct {
	Name      string
	RoomId    storage.Identifier
	Inventory string
	ItemList  []Item
}

func (w *WorldState) ViewPlayer(p *PlayerState) *PlayerView {
	w.mu.RLock()
	defer w.mu.RUnlock()

	view := &PlayerView{
		Name:      p.Name,
		RoomId:    p.RoomId,
		Inventory: p.DescribeInventory(),
	}
	for _, item := range p.Inventory {
		view.ItemList = append(view.ItemList, *item)
	}
	return view
}

// CurrentRoom reads the player's canonical room id under the world lock.
// Moves write the id under the same lock, so callers on other goroutines
// must come through here rather than reading the field directly.
func (w *WorldState) CurrentRoom(p *PlayerState) storage.Identifier {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return p.RoomId
}

// NewPlayer places a fresh player in the named room.
func (w *WorldState) NewPlayer(name string, roomId storage.Identifier) (*PlayerState, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if _, ok := w.rooms[roomId]; !ok {
		return nil, fmt.Errorf("placing player in %s: %w", roomId, ErrRoomNotFound)
	}
	return NewPlayerState(name, roomId), nil
}

// MovePlayer resolves a direction token against the player's current room
// and moves them through it. On any failure the player stays where they
// are; a move never partially applies.
func (w *WorldState) MovePlayer(p *PlayerState, token string) (storage.Identifier, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rs, ok := w.rooms[p.RoomId]
	if !ok {
		return "", fmt.Errorf("resolving current room %s: %w", p.RoomId, ErrRoomNotFound)
	}

	target, err := rs.ExitTo(token)
	if err != nil {
		return "", err
	}
	if _, ok := w.rooms[target]; !ok {
		// Load-time validation makes this unreachable, but a stale
		// player must never be moved into a room that isn't there.
		return "", fmt.Errorf("resolving exit target %s: %w", target, ErrRoomNotFound)
	}

	p.RoomId = target
	return target, nil
}

// TakeItem moves an item from the player's current room into their
// inventory. The item is handed over, never duplicated.
func (w *WorldState) TakeItem(p *PlayerState, itemId string) (*Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rs, ok := w.rooms[p.RoomId]
	if !ok {
		return nil, fmt.Errorf("resolving current room %s: %w", p.RoomId, ErrRoomNotFound)
	}

	item, err := rs.RemoveItem(itemId)
	if err != nil {
		return nil, err
	}

	p.addItem(item)
	return item, nil
}

// DropItem is the inverse of TakeItem.
func (w *WorldState) DropItem(p *PlayerState, itemId string) (*Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rs, ok := w.rooms[p.RoomId]
	if !ok {
		return nil, fmt.Errorf("resolving current room %s: %w", p.RoomId, ErrRoomNotFound)
	}

	item := p.removeItem(itemId)
	if item == nil {
		return nil, fmt.Errorf("dropping %q: %w", itemId, ErrItemNotFound)
	}

	rs.AddItem(item)
	return item, nil
}

// EatItem destroys an edible item from the player's inventory. Failure
// leaves the inventory untouched and reports which item was refused.
func (w *WorldState) EatItem(p *PlayerState, itemId string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	item := p.findItem(itemId)
	if item == nil {
		return &EatError{Item: itemId, Reason: "you are not carrying it"}
	}
	if !item.Edible {
		return &EatError{Item: item.Name, Reason: "it is not edible"}
	}

	p.removeItem(itemId)
	return nil
}
