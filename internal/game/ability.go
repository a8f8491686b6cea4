package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"
)

// SlotState is the AbilitySlot state machine.
type SlotState int

const (
	SlotIdle SlotState = iota
	SlotAwaitingConfirm
	SlotArmed
	SlotCooldown
)

func (s SlotState) String() string {
	switch s {
	case SlotIdle:
		return "idle"
	case SlotAwaitingConfirm:
		return "awaiting_confirm"
	case SlotArmed:
		return "armed"
	case SlotCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// FireMode selects what happens once a slot is armed.
type FireMode int

const (
	// FireInstant applies its effect at confirm.
	FireInstant FireMode = iota
	// FireDragAim waits for a drag gesture and launches impact projectiles.
	FireDragAim
	// FireSpawnAndArm waits for a drag gesture and launches a fused
	// projectile that ignores impacts until its fuse runs out.
	FireSpawnAndArm
)

func (m FireMode) String() string {
	switch m {
	case FireInstant:
		return "instant"
	case FireDragAim:
		return "drag_aim"
	case FireSpawnAndArm:
		return "spawn_and_arm"
	default:
		return "unknown"
	}
}

// ParseFireMode maps a mode name back to its value.
func ParseFireMode(s string) (FireMode, error) {
	for _, m := range []FireMode{FireInstant, FireDragAim, FireSpawnAndArm} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: fire mode %q", ErrInvalidConfig, s)
}

func (m FireMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *FireMode) UnmarshalText(b []byte) error {
	v, err := ParseFireMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// minDragDistance is the smallest pull that counts as a shot; shorter
// releases leave the slot armed.
const minDragDistance = 0.05

// AbilityConfig parameterises one slot.
type AbilityConfig struct {
	Slot      SlotIndex `yaml:"-"`
	Mode      FireMode  `yaml:"mode"`
	Exclusive bool      `yaml:"exclusive"` // confirming sets and honours the per-turn skill gate
	Cooldown  float64   `yaml:"cooldown"`  // seconds, counted only on the owner's turn

	Aim         AimTuning      `yaml:"aim"`
	Projectile  ProjectileSpec `yaml:"projectile"`
	Pellets     int            `yaml:"pellets"`      // projectiles per release, 0 means 1
	Spread      float64        `yaml:"spread"`       // degrees either side of the aim line
	IgnoreOwner float64        `yaml:"ignore_owner"` // seconds the owner is immune to its own shot
}

// Validate checks the numeric tuning. Projectile slots also need a usable
// projectile spec.
func (c AbilityConfig) Validate() error {
	switch {
	case !(c.Cooldown >= 0):
		return fmt.Errorf("%w: %s cooldown %.2f", ErrInvalidConfig, c.Slot, c.Cooldown)
	case c.Pellets < 0:
		return fmt.Errorf("%w: %s pellets %d", ErrInvalidConfig, c.Slot, c.Pellets)
	case !(c.Spread >= 0):
		return fmt.Errorf("%w: %s spread %.2f", ErrInvalidConfig, c.Slot, c.Spread)
	case !(c.IgnoreOwner >= 0):
		return fmt.Errorf("%w: %s ignore_owner %.2f", ErrInvalidConfig, c.Slot, c.IgnoreOwner)
	}
	if c.Mode == FireInstant {
		return nil
	}
	if err := c.Projectile.Validate(); err != nil {
		return fmt.Errorf("%s: %w", c.Slot, err)
	}
	return nil
}

// DefaultAbilityConfigs returns the stock six-slot tuning.
func DefaultAbilityConfigs() [SlotCount]AbilityConfig {
	pistolAim := DefaultAimTuning()
	rpgAim := DefaultAimTuning()
	rpgAim.PowerMultiplier = 6
	return [SlotCount]AbilityConfig{
		SlotPistol: {
			Slot: SlotPistol, Mode: FireDragAim, Cooldown: 1,
			Aim: pistolAim, Projectile: PistolProjectile(), IgnoreOwner: 1,
		},
		SlotShotgun: {
			Slot: SlotShotgun, Mode: FireDragAim, Cooldown: 2,
			Aim: pistolAim, Projectile: PelletProjectile(), Pellets: 5, Spread: 15, IgnoreOwner: 1,
		},
		SlotRPG: {
			Slot: SlotRPG, Mode: FireDragAim, Exclusive: true, Cooldown: 7,
			Aim: rpgAim, Projectile: RocketProjectile(), IgnoreOwner: 1.5,
		},
		SlotGrenade: {
			Slot: SlotGrenade, Mode: FireSpawnAndArm, Exclusive: true, Cooldown: 6,
			Aim: pistolAim, Projectile: GrenadeProjectile(), IgnoreOwner: 0.5,
		},
		SlotSuperJump: {Slot: SlotSuperJump, Mode: FireInstant, Exclusive: true, Cooldown: 5},
		SlotShield:    {Slot: SlotShield, Mode: FireInstant, Exclusive: true, Cooldown: 5},
	}
}

// AbilityOwner is the character side of a slot.
type AbilityOwner interface {
	Active() bool
	Resources() *CharacterResources
	Muzzle() Vec2
}

// SpawnRequest is what a slot hands to the projectile spawner.
type SpawnRequest struct {
	Pos         Vec2
	Vel         Vec2
	Owner       AbilityOwner
	Slot        SlotIndex
	IgnoreOwner float64
	Spec        ProjectileSpec
}

// ProjectileSpawner creates live projectiles.
type ProjectileSpawner interface {
	Spawn(req SpawnRequest) *Projectile
}

// SlotDeps are the collaborators a slot needs. Drag modes need Spawner and
// Predictor; instant modes need Effect.
type SlotDeps struct {
	Spawner   ProjectileSpawner
	Predictor *TrajectoryPredictor
	Effect    func()
	Rand      *rand.Rand
}

// Resettable is implemented by everything TurnController resets on activation.
type Resettable interface {
	ResetCooldown()
}

// AbilitySlot is one weapon or skill: select → confirm/cancel → armed → fire
// → cooldown.
type AbilitySlot struct {
	cfg      AbilityConfig
	owner    AbilityOwner
	deps     SlotDeps
	disabled bool

	state    SlotState
	cooldown float64

	dragging    bool
	dragStart   Vec2
	dragCurrent Vec2

	OnStateChange func(slot SlotIndex, from, to SlotState)
	OnFire        func(slot SlotIndex, shots int)
}

// NewAbilitySlot builds a slot. An unknown slot index or nil owner is an
// error; missing collaborators leave the slot disabled with a diagnostic.
func NewAbilitySlot(cfg AbilityConfig, owner AbilityOwner, deps SlotDeps) (*AbilitySlot, error) {
	if !cfg.Slot.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, int(cfg.Slot))
	}
	if owner == nil || owner.Resources() == nil {
		return nil, fmt.Errorf("%w: %s slot has no owner", ErrInvalidConfig, cfg.Slot)
	}
	if cfg.Cooldown < 0 {
		return nil, fmt.Errorf("%w: %s cooldown %.2f", ErrInvalidConfig, cfg.Slot, cfg.Cooldown)
	}
	s := &AbilitySlot{cfg: cfg, owner: owner, deps: deps}
	switch cfg.Mode {
	case FireInstant:
		if deps.Effect == nil {
			s.disable("no instant effect")
		}
	case FireDragAim, FireSpawnAndArm:
		if deps.Spawner == nil {
			s.disable("no projectile spawner")
		} else if deps.Predictor == nil {
			s.disable("no trajectory predictor")
		} else if cfg.Aim.MaxDragDistance <= 0 || cfg.Aim.PowerMultiplier <= 0 {
			s.disable("aim tuning must be positive")
		}
	default:
		s.disable(fmt.Sprintf("unknown fire mode %d", cfg.Mode))
	}
	if s.deps.Rand == nil {
		s.deps.Rand = rand.New(rand.NewSource(1))
	}
	return s, nil
}

func (s *AbilitySlot) disable(reason string) {
	s.disabled = true
	log.Printf("[AbilitySlot] %s: %s, slot disabled", s.cfg.Slot, reason)
}

func (s *AbilitySlot) Slot() SlotIndex       { return s.cfg.Slot }
func (s *AbilitySlot) Config() AbilityConfig { return s.cfg }
func (s *AbilitySlot) State() SlotState      { return s.state }
func (s *AbilitySlot) Cooldown() float64     { return s.cooldown }
func (s *AbilitySlot) Disabled() bool        { return s.disabled }
func (s *AbilitySlot) Dragging() bool        { return s.dragging }

// DragStart returns the gesture anchor while dragging.
func (s *AbilitySlot) DragStart() Vec2 { return s.dragStart }

func (s *AbilitySlot) setState(to SlotState) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	if to != SlotArmed {
		s.dragging = false
	}
	if s.OnStateChange != nil {
		s.OnStateChange(s.cfg.Slot, from, to)
	}
}

// canSelect checks every precondition for Idle → AwaitingConfirm.
func (s *AbilitySlot) canSelect() bool {
	if s.disabled || !s.owner.Active() || s.state != SlotIdle || s.cooldown > 0 {
		return false
	}
	res := s.owner.Resources()
	if s.cfg.Exclusive && res.TurnSkillUsed() {
		return false
	}
	return res.Remaining(s.cfg.Slot) != 0
}

// Select moves Idle → AwaitingConfirm. Nothing is consumed.
func (s *AbilitySlot) Select() bool {
	if !s.canSelect() {
		return false
	}
	s.setState(SlotAwaitingConfirm)
	return true
}

// Confirm consumes one unit and arms the slot. Instant slots fire at once.
func (s *AbilitySlot) Confirm() bool {
	if s.disabled || s.state != SlotAwaitingConfirm || !s.owner.Active() {
		return false
	}
	res := s.owner.Resources()
	if s.cfg.Exclusive && res.TurnSkillUsed() {
		return false
	}
	if !res.TryConsume(s.cfg.Slot) {
		return false
	}
	if s.cfg.Exclusive {
		res.markSkillUsed()
	}
	s.setState(SlotArmed)
	if s.cfg.Mode == FireInstant {
		s.deps.Effect()
		if s.OnFire != nil {
			s.OnFire(s.cfg.Slot, 1)
		}
		s.startCooldown()
	}
	return true
}

// Cancel drops a pending selection. Only AwaitingConfirm can be cancelled.
func (s *AbilitySlot) Cancel() bool {
	if s.state != SlotAwaitingConfirm {
		return false
	}
	s.setState(SlotIdle)
	return true
}

// BeginDrag anchors the aim gesture at p.
func (s *AbilitySlot) BeginDrag(p Vec2) bool {
	if s.disabled || s.state != SlotArmed || s.cfg.Mode == FireInstant || !s.owner.Active() {
		return false
	}
	s.dragging = true
	s.dragStart = p
	s.dragCurrent = p
	return true
}

// UpdateDrag moves the gesture to p and returns the preview path.
func (s *AbilitySlot) UpdateDrag(p Vec2) []Vec2 {
	if !s.dragging || s.state != SlotArmed {
		return nil
	}
	s.dragCurrent = p
	return s.deps.Predictor.PredictAim(s.cfg.Aim, s.owner.Muzzle(), s.dragStart, p)
}

// LaunchVelocity is the velocity a release at the current drag point would use.
func (s *AbilitySlot) LaunchVelocity() Vec2 {
	return s.cfg.Aim.LaunchVelocity(s.dragStart, s.dragCurrent)
}

// Release ends the gesture at p. A pull shorter than minDragDistance leaves
// the slot armed; otherwise the projectiles spawn and cooldown starts.
func (s *AbilitySlot) Release(p Vec2) bool {
	if !s.dragging || s.state != SlotArmed || !s.owner.Active() {
		return false
	}
	s.dragCurrent = p
	s.dragging = false
	if s.dragStart.Sub(p).Len() < minDragDistance {
		return false
	}
	vel := s.LaunchVelocity()
	shots := max(1, s.cfg.Pellets)
	spread := s.cfg.Spread * math.Pi / 180
	for i := 0; i < shots; i++ {
		v := vel
		if shots > 1 && spread > 0 {
			v = v.Rotate((s.deps.Rand.Float64()*2 - 1) * spread)
		}
		s.deps.Spawner.Spawn(SpawnRequest{
			Pos:         s.owner.Muzzle(),
			Vel:         v,
			Owner:       s.owner,
			Slot:        s.cfg.Slot,
			IgnoreOwner: s.cfg.IgnoreOwner,
			Spec:        s.cfg.Projectile,
		})
	}
	if s.OnFire != nil {
		s.OnFire(s.cfg.Slot, shots)
	}
	s.startCooldown()
	return true
}

func (s *AbilitySlot) startCooldown() {
	s.cooldown = s.cfg.Cooldown
	if s.cooldown <= 0 {
		s.cooldown = 0
		s.setState(SlotIdle)
		return
	}
	s.setState(SlotCooldown)
}

// Tick counts the cooldown down, only while the owner holds the turn.
func (s *AbilitySlot) Tick(dt float64) {
	if s.state != SlotCooldown || !s.owner.Active() {
		return
	}
	s.cooldown -= dt
	if s.cooldown <= 0 {
		s.cooldown = 0
		s.setState(SlotIdle)
	}
}

// ResetCooldown clears every transient state back to Idle.
func (s *AbilitySlot) ResetCooldown() {
	s.cooldown = 0
	s.dragging = false
	s.setState(SlotIdle)
}

// Loadout is a character's six slots plus the cross-slot selection rules:
// selecting a slot cancels any other pending selection, and nothing can be
// selected while a slot is armed.
type Loadout struct {
	slots [SlotCount]*AbilitySlot
}

// NewLoadout groups slots by their index. Nil entries are allowed.
func NewLoadout(slots ...*AbilitySlot) (*Loadout, error) {
	l := &Loadout{}
	for _, s := range slots {
		if s == nil {
			continue
		}
		if l.slots[s.Slot()] != nil {
			return nil, fmt.Errorf("%w: %s bound twice", ErrInvalidSlot, s.Slot())
		}
		l.slots[s.Slot()] = s
	}
	return l, nil
}

// Slot returns the slot at i, or nil.
func (l *Loadout) Slot(i SlotIndex) *AbilitySlot {
	if !i.Valid() {
		return nil
	}
	return l.slots[i]
}

// Slots returns the non-nil slots in index order.
func (l *Loadout) Slots() []*AbilitySlot {
	out := make([]*AbilitySlot, 0, SlotCount)
	for _, s := range l.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (l *Loadout) find(state SlotState) *AbilitySlot {
	for _, s := range l.slots {
		if s != nil && s.state == state {
			return s
		}
	}
	return nil
}

// Pending is the slot awaiting confirmation, if any.
func (l *Loadout) Pending() *AbilitySlot { return l.find(SlotAwaitingConfirm) }

// Armed is the slot waiting for a drag, if any.
func (l *Loadout) Armed() *AbilitySlot { return l.find(SlotArmed) }

// Select moves slot i to AwaitingConfirm and cancels any other pending slot.
func (l *Loadout) Select(i SlotIndex) bool {
	s := l.Slot(i)
	if s == nil || l.Armed() != nil || !s.canSelect() {
		return false
	}
	for _, o := range l.slots {
		if o != nil && o != s {
			o.Cancel()
		}
	}
	return s.Select()
}

// Confirm confirms the pending slot.
func (l *Loadout) Confirm() bool {
	if s := l.Pending(); s != nil {
		return s.Confirm()
	}
	return false
}

// Cancel cancels the pending slot.
func (l *Loadout) Cancel() bool {
	if s := l.Pending(); s != nil {
		return s.Cancel()
	}
	return false
}

func (l *Loadout) BeginDrag(p Vec2) bool {
	if s := l.Armed(); s != nil {
		return s.BeginDrag(p)
	}
	return false
}

func (l *Loadout) UpdateDrag(p Vec2) []Vec2 {
	if s := l.Armed(); s != nil {
		return s.UpdateDrag(p)
	}
	return nil
}

func (l *Loadout) Release(p Vec2) bool {
	if s := l.Armed(); s != nil {
		return s.Release(p)
	}
	return false
}

func (l *Loadout) Tick(dt float64) {
	for _, s := range l.slots {
		if s != nil {
			s.Tick(dt)
		}
	}
}

// Resettables exposes the slots to TurnController.
func (l *Loadout) Resettables() []Resettable {
	out := make([]Resettable, 0, SlotCount)
	for _, s := range l.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
