package game

import (
	"strings"

	"github.com/pixil98/go-adventure/internal/storage"
)

// PlayerState is one session's player. It stores the canonical room id
// rather than a room reference, so every redirect and page render reads
// the true location directly instead of reverse-looking it up.
type PlayerState struct {
	Name      string
	RoomId    storage.Identifier
	Inventory []*Item // insertion order is display order
}

func NewPlayerState(name string, roomId storage.Identifier) *PlayerState {
	return &PlayerState{
		Name:   name,
		RoomId: roomId,
	}
}

func (p *PlayerState) addItem(item *Item) {
	p.Inventory = append(p.Inventory, item)
}

func (p *PlayerState) removeItem(itemId string) *Item {
	for i, item := range p.Inventory {
		if item.Id == itemId {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return item
		}
	}
	return nil
}

func (p *PlayerState) findItem(itemId string) *Item {
	for _, item := range p.Inventory {
		if item.Id == itemId {
			return item
		}
	}
	return nil
}

// DescribeInventory lists carried items in pickup order.
func (p *PlayerState) DescribeInventory() string {
	if len(p.Inventory) == 0 {
		return "You are not carrying anything."
	}

	names := make([]string, len(p.Inventory))
	for i, item := range p.Inventory {
		names[i] = item.Name
	}
	return strings.Join(names, ", ")
}
