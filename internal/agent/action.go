package agent

// Action enumerates everything an agent can attempt in one tick.
type Action uint8

const (
	ActionSeekFood Action = iota
	ActionDrinkWater
	ActionRest
	ActionExplore
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveObject
)

// NumActions is the size of the learner's output layer.
const NumActions = 9

// String returns the snake_case action name used in logs and the
// episode store.
func (a Action) String() string {
	switch a {
	case ActionSeekFood:
		return "seek_food"
	case ActionDrinkWater:
		return "drink_water"
	case ActionRest:
		return "rest"
	case ActionExplore:
		return "explore"
	case ActionMoveUp:
		return "move_up"
	case ActionMoveDown:
		return "move_down"
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionMoveObject:
		return "move_object"
	default:
		return "unknown"
	}
}

// IsMove reports whether the action is a cardinal movement.
func (a Action) IsMove() bool {
	return a >= ActionMoveUp && a <= ActionMoveRight
}

// ParseAction maps an action name back to its constant. The second
// return is false for unrecognized names; the executor treats those as
// a penalized no-op rather than an error.
func ParseAction(s string) (Action, bool) {
	for a := ActionSeekFood; a <= ActionMoveObject; a++ {
		if a.String() == s {
			return a, true
		}
	}
	return ActionExplore, false
}
