package game

import (
	"fmt"
	"math/rand"
)

const (
	characterRadius = 0.3
	characterMass   = 1
)

// CharacterSpec is everything needed to place a character.
type CharacterSpec struct {
	Name      string
	Team      string // empty means the character plays alone
	Pos       Vec2
	MaxHealth float64
	Ammo      [SlotCount]int
	Movement  MoveTuning
	Abilities [SlotCount]AbilityConfig
}

// Character bundles one player's body, movement, resources, health and
// ability slots.
type Character struct {
	Name  string
	Team  string
	Index int

	Body    *Body
	Gravity *GravityBody
	Health  *Health
	Loadout *Loadout

	resources *CharacterResources
}

// CharacterDeps are the session services characters are wired to.
type CharacterDeps struct {
	Field     *GravityField
	Spawner   ProjectileSpawner
	Predictor *TrajectoryPredictor
	Rand      *rand.Rand
}

// NewCharacter assembles a character. The body is not added to any world.
func NewCharacter(spec CharacterSpec, deps CharacterDeps) (*Character, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: character needs a name", ErrInvalidConfig)
	}
	team := spec.Team
	if team == "" {
		team = spec.Name
	}
	res, err := NewCharacterResources(spec.Ammo)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", spec.Name, err)
	}
	hp, err := NewHealth(spec.MaxHealth)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", spec.Name, err)
	}
	body := NewBody(LayerCharacter, spec.Pos, characterRadius, characterMass)
	gb, err := NewGravityBody(body, deps.Field, spec.Movement)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", spec.Name, err)
	}
	c := &Character{
		Name:      spec.Name,
		Team:      team,
		Body:      body,
		Gravity:   gb,
		Health:    hp,
		resources: res,
	}
	body.Payload = c

	slots := make([]*AbilitySlot, 0, SlotCount)
	for i, cfg := range spec.Abilities {
		cfg.Slot = SlotIndex(i)
		sd := SlotDeps{Spawner: deps.Spawner, Predictor: deps.Predictor, Rand: deps.Rand}
		switch cfg.Slot {
		case SlotSuperJump:
			sd.Effect = func() { c.Gravity.ArmSuperJump() }
		case SlotShield:
			sd.Effect = func() { c.Health.SetShielded(true) }
		}
		s, err := NewAbilitySlot(cfg, c, sd)
		if err != nil {
			return nil, fmt.Errorf("character %s: %w", spec.Name, err)
		}
		slots = append(slots, s)
	}
	if c.Loadout, err = NewLoadout(slots...); err != nil {
		return nil, fmt.Errorf("character %s: %w", spec.Name, err)
	}
	return c, nil
}

// Label is the short tag used in logs.
func (c *Character) Label() string { return c.Name }

func (c *Character) Active() bool                   { return c.Gravity.Active() }
func (c *Character) Resources() *CharacterResources { return c.resources }
func (c *Character) Alive() bool                    { return !c.Health.Dead() }
func (c *Character) Pos() Vec2                      { return c.Body.Pos }

// TakeDamage forwards to Health so the body payload is Damageable.
func (c *Character) TakeDamage(amount float64) { c.Health.TakeDamage(amount) }

// Muzzle is where this character's shots spawn: just above its head.
func (c *Character) Muzzle() Vec2 {
	return c.Body.Pos.Add(c.Gravity.Up().Scale(characterRadius * 1.5))
}

// Resettables lists the per-turn state TurnController resets.
func (c *Character) Resettables() []Resettable {
	return c.Loadout.Resettables()
}

// onTurnStart clears movement state and drops last turn's shield.
func (c *Character) onTurnStart() {
	c.Gravity.OnTurnStart()
	c.Health.SetShielded(false)
}
