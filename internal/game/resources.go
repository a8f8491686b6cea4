package game

import "fmt"

// Unlimited marks a slot whose counter never runs out.
const Unlimited = -1

// SlotIndex is the canonical ability slot order.
type SlotIndex int

const (
	SlotPistol SlotIndex = iota
	SlotShotgun
	SlotRPG
	SlotGrenade
	SlotSuperJump
	SlotShield
	SlotCount
)

var slotNames = [SlotCount]string{"pistol", "shotgun", "rpg", "grenade", "super_jump", "shield"}

func (s SlotIndex) String() string {
	if s < 0 || s >= SlotCount {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

// Valid reports whether s is one of the canonical slots.
func (s SlotIndex) Valid() bool { return s >= 0 && s < SlotCount }

// ParseSlot maps a slot name back to its index.
func ParseSlot(name string) (SlotIndex, error) {
	for i, n := range slotNames {
		if n == name {
			return SlotIndex(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, name)
}

// DefaultAmmo is the stock loadout.
func DefaultAmmo() [SlotCount]int {
	return [SlotCount]int{
		SlotPistol:    Unlimited,
		SlotShotgun:   Unlimited,
		SlotRPG:       4,
		SlotGrenade:   3,
		SlotSuperJump: 3,
		SlotShield:    2,
	}
}

// ResourceObserver is notified after a slot counter changes.
type ResourceObserver interface {
	OnSlotChanged(slot SlotIndex, remaining int)
}

// ResourceObserverFunc adapts a function to ResourceObserver.
type ResourceObserverFunc func(slot SlotIndex, remaining int)

func (f ResourceObserverFunc) OnSlotChanged(slot SlotIndex, remaining int) { f(slot, remaining) }

// CharacterResources holds per-slot counters and the per-turn skill gate for
// one character. Only that character's ability slots consume from it.
type CharacterResources struct {
	remaining     [SlotCount]int
	turnSkillUsed bool
	observers     []ResourceObserver
}

// NewCharacterResources validates the loadout: every count is >= 0 or Unlimited.
func NewCharacterResources(ammo [SlotCount]int) (*CharacterResources, error) {
	for i, n := range ammo {
		if n < Unlimited {
			return nil, fmt.Errorf("%w: %s=%d", ErrInvalidAmmo, SlotIndex(i), n)
		}
	}
	return &CharacterResources{remaining: ammo}, nil
}

// Observe registers o and immediately syncs it with every slot.
func (r *CharacterResources) Observe(o ResourceObserver) {
	if o == nil {
		return
	}
	r.observers = append(r.observers, o)
	for i := range r.remaining {
		o.OnSlotChanged(SlotIndex(i), r.remaining[i])
	}
}

// Remaining returns the counter for slot; invalid slots report 0.
func (r *CharacterResources) Remaining(slot SlotIndex) int {
	if !slot.Valid() {
		return 0
	}
	return r.remaining[slot]
}

// TryConsume takes one unit from slot. It fails without mutation when the
// counter is 0; Unlimited always succeeds and never changes.
func (r *CharacterResources) TryConsume(slot SlotIndex) bool {
	if !slot.Valid() {
		return false
	}
	switch n := r.remaining[slot]; {
	case n == 0:
		return false
	case n > 0:
		r.remaining[slot] = n - 1
	}
	r.notify(slot)
	return true
}

// TurnSkillUsed reports whether an exclusive skill was confirmed this turn.
func (r *CharacterResources) TurnSkillUsed() bool { return r.turnSkillUsed }

func (r *CharacterResources) markSkillUsed() { r.turnSkillUsed = true }

// resetTurnGate is called once per activation by TurnController.
func (r *CharacterResources) resetTurnGate() { r.turnSkillUsed = false }

func (r *CharacterResources) notify(slot SlotIndex) {
	for _, o := range r.observers {
		o.OnSlotChanged(slot, r.remaining[slot])
	}
}
