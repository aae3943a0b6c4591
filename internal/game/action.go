package game

import "fmt"

// Action is the closed set of item actions a request can name.
// Parsing up front means every switch over actions is exhaustive
// instead of comparing route strings at each use site.
type Action int

const (
	ActionTake Action = iota
	ActionDrop
	ActionEat
)

func ParseAction(s string) (Action, error) {
	switch s {
	case "take":
		return ActionTake, nil
	case "drop":
		return ActionDrop, nil
	case "eat":
		return ActionEat, nil
	default:
		return 0, fmt.Errorf("unknown action: %s", s)
	}
}

func (a Action) String() string {
	switch a {
	case ActionTake:
		return "take"
	case ActionDrop:
		return "drop"
	case ActionEat:
		return "eat"
	default:
		return "unknown"
	}
}
