package game

import "fmt"

// Action is an engine-independent input action.
type Action int

const (
	ActionSlot1 Action = iota
	ActionSlot2
	ActionSlot3
	ActionSlot4
	ActionSlot5
	ActionSlot6
	ActionConfirm
	ActionCancel
	ActionNextTurn
	ActionJump
	ActionLeft
	ActionRight
	ActionCopyLog
	actionCount
)

var actionNames = [actionCount]string{
	"slot1", "slot2", "slot3", "slot4", "slot5", "slot6",
	"confirm", "cancel", "next_turn", "jump", "left", "right", "copy_log",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction maps a binding name to its action.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidConfig, name)
}

// SlotAction returns the select action for slot i.
func SlotAction(i SlotIndex) Action { return ActionSlot1 + Action(i) }

// InputFrame is one frame of input. Pressed holds edge-triggered actions;
// Horizontal is the held walking axis.
type InputFrame struct {
	pressed    [actionCount]bool
	Horizontal float64

	Mouse         Vec2 // world coordinates
	MousePressed  bool // went down this frame
	MouseDown     bool
	MouseReleased bool // went up this frame
}

// Press marks a as triggered this frame.
func (f *InputFrame) Press(a Action) {
	if a >= 0 && a < actionCount {
		f.pressed[a] = true
	}
}

// Pressed reports whether a triggered this frame.
func (f InputFrame) Pressed(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return f.pressed[a]
}

// DefaultBindings are the stock key names per action, in ebiten key notation.
func DefaultBindings() map[string][]string {
	return map[string][]string{
		"slot1":     {"Digit1"},
		"slot2":     {"Digit2"},
		"slot3":     {"Digit3"},
		"slot4":     {"Digit4"},
		"slot5":     {"Digit5"},
		"slot6":     {"Digit6"},
		"confirm":   {"Enter"},
		"cancel":    {"Escape"},
		"next_turn": {"Tab"},
		"jump":      {"W", "Space"},
		"left":      {"A", "ArrowLeft"},
		"right":     {"D", "ArrowRight"},
		"copy_log":  {"C"},
	}
}
