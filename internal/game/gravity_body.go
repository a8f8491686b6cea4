package game

import "fmt"

// MoveTuning holds walking and jumping parameters for a GravityBody.
type MoveTuning struct {
	MaxWalkSpeed    float64 `yaml:"max_walk_speed"`
	MaxAirSpeed     float64 `yaml:"max_air_speed"`
	Smoothing       float64 `yaml:"smoothing"`        // 0 = instant, 1 = no damping; applied per tick
	JumpForce       float64 `yaml:"jump_force"`       // impulse magnitude
	SuperMultiplier float64 `yaml:"super_multiplier"`
	JumpCooldown    float64 `yaml:"jump_cooldown"`    // seconds, shared by every jump variant
}

// DefaultMoveTuning returns the stock character tuning.
func DefaultMoveTuning() MoveTuning {
	return MoveTuning{
		MaxWalkSpeed:    3,
		MaxAirSpeed:     3,
		Smoothing:       0,
		JumpForce:       5,
		SuperMultiplier: 2,
		JumpCooldown:    0.5,
	}
}

// Validate rejects tunings that would break the movement rules.
func (m MoveTuning) Validate() error {
	switch {
	case m.MaxWalkSpeed < 0 || m.MaxAirSpeed < 0:
		return fmt.Errorf("%w: negative walk speed", ErrInvalidConfig)
	case m.Smoothing < 0 || m.Smoothing > 1:
		return fmt.Errorf("%w: smoothing %.2f outside [0,1]", ErrInvalidConfig, m.Smoothing)
	case m.JumpForce < 0 || m.SuperMultiplier < 0:
		return fmt.Errorf("%w: negative jump force", ErrInvalidConfig)
	case m.JumpCooldown < 0:
		return fmt.Errorf("%w: negative jump cooldown", ErrInvalidConfig)
	}
	return nil
}

// JumpKind distinguishes the jump variants for logging.
type JumpKind int

const (
	JumpGrounded JumpKind = iota
	JumpDouble
)

func (k JumpKind) String() string {
	if k == JumpDouble {
		return "double"
	}
	return "grounded"
}

// JumpEvent describes a jump that was actually performed.
type JumpEvent struct {
	Kind    JumpKind
	Super   bool
	Impulse float64
}

// GravityBody drives a character body across planet surfaces: attachment to
// gravity sources, surface alignment, tangential walking and the jump chain.
type GravityBody struct {
	Body   *Body
	field  *GravityField
	tuning MoveTuning

	attached *GravitySource
	inside   map[string]bool
	up       Vec2

	// active is written only by TurnController.
	active bool

	horizontal    float64
	jumpCount     int
	canDoubleJump bool
	superArmed    bool
	jumpTimer     float64

	OnJump   func(JumpEvent)
	OnAttach func(prev, next *GravitySource)
}

// NewGravityBody wires a body to a field. Both are required.
func NewGravityBody(body *Body, field *GravityField, tuning MoveTuning) (*GravityBody, error) {
	if body == nil || field == nil {
		return nil, fmt.Errorf("%w: gravity body needs a body and a field", ErrInvalidConfig)
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	gb := &GravityBody{
		Body:   body,
		field:  field,
		tuning: tuning,
		inside: make(map[string]bool),
		up:     Vec2{Y: 1},
	}
	gb.updateAttachment()
	return gb, nil
}

func (gb *GravityBody) Attached() *GravitySource { return gb.attached }
func (gb *GravityBody) Up() Vec2                 { return gb.up }
func (gb *GravityBody) Active() bool             { return gb.active }
func (gb *GravityBody) JumpCount() int           { return gb.jumpCount }
func (gb *GravityBody) CanDoubleJump() bool      { return gb.canDoubleJump }
func (gb *GravityBody) SuperJumpArmed() bool     { return gb.superArmed }
func (gb *GravityBody) JumpCooldown() float64    { return max(0, gb.jumpTimer) }
func (gb *GravityBody) Tuning() MoveTuning       { return gb.tuning }

func (gb *GravityBody) setActive(v bool) { gb.active = v }

// SetHorizontal stores the walking axis in [-1, 1]; +1 walks clockwise
// ("right" when standing on top of a planet).
func (gb *GravityBody) SetHorizontal(h float64) {
	gb.horizontal = max(-1, min(1, h))
}

// ArmSuperJump makes the next jump a super jump. Returns false if one is
// already armed.
func (gb *GravityBody) ArmSuperJump() bool {
	if gb.superArmed {
		return false
	}
	gb.superArmed = true
	return true
}

// Tick runs the jump cooldown. Inactive bodies keep their timer frozen.
func (gb *GravityBody) Tick(dt float64) {
	if !gb.active || gb.jumpTimer <= 0 {
		return
	}
	gb.jumpTimer -= dt
}

// Jump attempts a jump and reports whether one happened. Only the active body
// jumps, and only once the shared cooldown has elapsed.
func (gb *GravityBody) Jump() bool {
	if !gb.active || gb.jumpTimer > 0 {
		return false
	}
	var ev JumpEvent
	var dir Vec2
	switch {
	case gb.attached != nil:
		dir = gb.normal()
		ev.Kind = JumpGrounded
		gb.jumpCount = 1
		gb.canDoubleJump = true
	case gb.jumpCount == 1 && gb.canDoubleJump:
		dir = gb.up
		ev.Kind = JumpDouble
		gb.jumpCount = 2
		gb.canDoubleJump = false
	default:
		return false
	}
	ev.Impulse = gb.tuning.JumpForce
	if gb.superArmed {
		ev.Impulse *= gb.tuning.SuperMultiplier
		ev.Super = true
		gb.superArmed = false
	}
	gb.Body.AddImpulse(dir.Scale(ev.Impulse))
	gb.jumpTimer = gb.tuning.JumpCooldown
	if gb.OnJump != nil {
		gb.OnJump(ev)
	}
	return true
}

// FixedStep runs once per physics tick before the world integrates.
func (gb *GravityBody) FixedStep(dt float64) {
	gb.updateAttachment()

	if src := gb.attached; src != nil {
		n := gb.normal()
		if gb.Body.Pos.Dist(src.Pos()) <= src.Radius() {
			gb.Body.AddForce(n.Scale(-src.Strength()))
		}
		if !n.IsZero() {
			gb.up = n
		}
	}

	if !gb.active {
		return
	}

	limit := gb.tuning.MaxAirSpeed
	if gb.attached != nil {
		limit = gb.tuning.MaxWalkSpeed
	}
	t := gb.tangent()
	v := gb.Body.Vel
	curr := v.Dot(t)
	normal := v.Sub(t.Scale(curr))
	if gb.horizontal == 0 {
		gb.Body.Vel = normal
		return
	}
	target := gb.horizontal * limit
	next := curr + (target-curr)*(1-gb.tuning.Smoothing)
	gb.Body.Vel = normal.Add(t.Scale(next))
}

// ZeroTangentialVelocity removes walking momentum and keeps the radial part.
func (gb *GravityBody) ZeroTangentialVelocity() {
	t := gb.tangent()
	gb.Body.Vel = gb.Body.Vel.Sub(t.Scale(gb.Body.Vel.Dot(t)))
}

// OnTurnStart clears per-turn movement state for the newly active character.
func (gb *GravityBody) OnTurnStart() {
	gb.jumpTimer = 0
	gb.superArmed = false
	gb.jumpCount = 0
	gb.canDoubleJump = false
	gb.horizontal = 0
	gb.ZeroTangentialVelocity()
}

// normal is the outward radial direction from the attached source.
func (gb *GravityBody) normal() Vec2 {
	if gb.attached == nil {
		return gb.up
	}
	return gb.Body.Pos.Sub(gb.attached.Pos()).Normalized()
}

// tangent points clockwise around the attached source, or to the right of up
// while in free fall.
func (gb *GravityBody) tangent() Vec2 {
	n := gb.up
	if gb.attached != nil {
		if nn := gb.normal(); !nn.IsZero() {
			n = nn
		}
	}
	return Vec2{X: n.Y, Y: -n.X}
}

// updateAttachment applies the enter/leave rules: a newly entered source
// always takes over; leaving the current one falls back to the nearest source
// still overlapping, or none.
func (gb *GravityBody) updateAttachment() {
	overlapping := gb.field.Overlapping(gb.Body.Pos)
	var entered *GravitySource
	current := false
	now := make(map[string]bool, len(overlapping))
	for _, s := range overlapping {
		now[s.ID()] = true
		if !gb.inside[s.ID()] && entered == nil {
			entered = s
		}
		if s == gb.attached {
			current = true
		}
	}
	gb.inside = now

	next := gb.attached
	switch {
	case entered != nil:
		next = entered
	case !current && len(overlapping) > 0:
		next = overlapping[0]
	case !current:
		next = nil
	}
	if next == gb.attached {
		return
	}
	prev := gb.attached
	gb.attached = next
	if next != nil {
		gb.jumpCount = 0
		gb.canDoubleJump = true
	}
	if gb.OnAttach != nil {
		gb.OnAttach(prev, next)
	}
}
