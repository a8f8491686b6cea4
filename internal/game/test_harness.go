package game

import (
	"fmt"
)

// TestMatch is a headless match harness used by tests and the headless
// report. It drives a Session with synthetic InputFrames, has no Ebiten
// dependency and supports deterministic seeding and structured logging.
type TestMatch struct {
	*Session

	level   Level
	opts    SessionOptions
	planets bool
	chars   bool
}

// matchOptionKind controls the pass in which an option is applied.
type matchOptionKind int

const (
	matchOptInfra     matchOptionKind = iota // seed, verbose, durations, tuning; applied first
	matchOptPlanet                           // planets, applied before characters reference them
	matchOptCharacter                        // characters
	matchOptLoadout                          // per-character overrides, applied after characters exist
)

// MatchOption is a builder function applied to a TestMatch during construction.
type MatchOption struct {
	kind matchOptionKind
	fn   func(*TestMatch)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.opts.Seed = seed
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.opts.Verbose = v
	}}
}

// WithTurnDuration sets the turn length in seconds.
func WithTurnDuration(sec float64) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.level.TurnDuration = sec
	}}
}

// WithShaker routes explosion shakes to sh.
func WithShaker(sh Shaker) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.opts.Shaker = sh
	}}
}

// WithMovement edits the shared movement tuning.
func WithMovement(edit func(*MoveTuning)) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		edit(&tm.level.Movement)
	}}
}

// WithAbility edits the tuning of one slot for every character.
func WithAbility(slot SlotIndex, edit func(*AbilityConfig)) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		arr := tm.level.Abilities.Array()
		edit(&arr[slot])
		tm.level.Abilities = AbilityDefs{
			Pistol: arr[SlotPistol], Shotgun: arr[SlotShotgun], RPG: arr[SlotRPG],
			Grenade: arr[SlotGrenade], SuperJump: arr[SlotSuperJump], Shield: arr[SlotShield],
		}
	}}
}

// WithPlanet adds a smooth planet: a gravity source of the given reach and
// strength around a solid disc of surfaceRadius.
func WithPlanet(id string, x, y, gravityRadius, strength, surfaceRadius float64) MatchOption {
	return MatchOption{matchOptPlanet, func(tm *TestMatch) {
		tm.planets = true
		tm.level.Planets = append(tm.level.Planets, PlanetDef{
			ID:            id,
			Pos:           [2]float64{x, y},
			GravityRadius: gravityRadius,
			Strength:      strength,
			SurfaceRadius: surfaceRadius,
		})
	}}
}

// WithCharacter stands a character on planet at angleDeg (0 = +X, CCW).
func WithCharacter(name, team, planet string, angleDeg float64) MatchOption {
	return MatchOption{matchOptCharacter, func(tm *TestMatch) {
		tm.chars = true
		tm.level.Characters = append(tm.level.Characters, CharacterDef{
			Name: name, Team: team, Planet: planet, Angle: angleDeg,
		})
	}}
}

// WithAmmo overrides one slot's starting ammo for the named character.
func WithAmmo(name string, slot SlotIndex, n int) MatchOption {
	return MatchOption{matchOptLoadout, func(tm *TestMatch) {
		for i := range tm.level.Characters {
			c := &tm.level.Characters[i]
			if c.Name != name {
				continue
			}
			if c.Ammo == nil {
				c.Ammo = map[string]int{}
			}
			c.Ammo[slot.String()] = n
		}
	}}
}

// WithHealth overrides the named character's max health.
func WithHealth(name string, hp float64) MatchOption {
	return MatchOption{matchOptLoadout, func(tm *TestMatch) {
		for i := range tm.level.Characters {
			if tm.level.Characters[i].Name == name {
				tm.level.Characters[i].Health = hp
			}
		}
	}}
}

// NewTestMatch constructs a TestMatch from the given options in ordered passes:
//  1. Infrastructure (seed, verbose, durations, tuning)
//  2. Planets
//  3. Characters
//  4. Per-character loadout overrides
//
// Without any planet or character options the embedded default level is used.
// It panics when the resulting level is invalid.
func NewTestMatch(opts ...MatchOption) *TestMatch {
	tm := &TestMatch{
		level: levelDefaults(),
		opts:  SessionOptions{TickRate: 60, Seed: 1},
	}
	tm.level.Name = "test"
	for _, kind := range []matchOptionKind{matchOptInfra, matchOptPlanet, matchOptCharacter, matchOptLoadout} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(tm)
			}
		}
	}
	if !tm.planets && !tm.chars {
		def := DefaultLevel()
		def.TurnDuration = tm.level.TurnDuration
		def.Movement = tm.level.Movement
		def.Abilities = tm.level.Abilities
		tm.level = *def
	}
	s, err := NewSession(&tm.level, tm.opts)
	if err != nil {
		panic(fmt.Sprintf("test match: %v", err))
	}
	tm.Session = s
	return tm
}

// Character returns the character called name, or nil.
func (tm *TestMatch) Character(name string) *Character {
	for _, c := range tm.Characters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// RunTicks advances the match n ticks with no input.
func (tm *TestMatch) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tm.Update(InputFrame{})
	}
}

// RunUntil advances the match up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (tm *TestMatch) RunUntil(predicate func(*TestMatch) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tm.Update(InputFrame{})
		if predicate(tm) {
			return tm.Tick()
		}
	}
	return -1
}

// Press runs one tick with the given actions triggered.
func (tm *TestMatch) Press(actions ...Action) {
	var in InputFrame
	for _, a := range actions {
		in.Press(a)
	}
	tm.Update(in)
}

// Hold runs n ticks with the walking axis held at h.
func (tm *TestMatch) Hold(h float64, n int) {
	for i := 0; i < n; i++ {
		tm.Update(InputFrame{Horizontal: h})
	}
}

// Drag performs a mouse gesture from one world point to another over frames
// ticks: press, move, release.
func (tm *TestMatch) Drag(from, to Vec2, frames int) {
	frames = max(frames, 2)
	tm.Update(InputFrame{Mouse: from, MousePressed: true, MouseDown: true})
	for i := 1; i < frames-1; i++ {
		t := float64(i) / float64(frames-1)
		tm.Update(InputFrame{Mouse: Vec2{X: Lerp(from.X, to.X, t), Y: Lerp(from.Y, to.Y, t)}, MouseDown: true})
	}
	tm.Update(InputFrame{Mouse: to, MouseReleased: true})
}

// Fire selects slot, confirms it and, for aimed slots, drags from the
// muzzle by pull (the launch velocity points opposite to pull).
func (tm *TestMatch) Fire(slot SlotIndex, pull Vec2) {
	tm.Press(SlotAction(slot))
	tm.Press(ActionConfirm)
	if tm.Active().Loadout.Armed() == nil {
		return
	}
	start := tm.Active().Muzzle()
	tm.Drag(start, start.Add(pull), 6)
}

// CurrentTick returns the current simulation tick.
func (tm *TestMatch) CurrentTick() int {
	return tm.Tick()
}

// MatchSnapshot captures a lightweight state summary.
type MatchSnapshot struct {
	Tick       int
	Characters []CharacterSnapshot
}

// CharacterSnapshot is a lightweight copy of a character's state at a tick.
type CharacterSnapshot struct {
	Label  string
	Team   string
	Pos    Vec2
	Vel    Vec2
	Health float64
	Active bool
}

// Snapshot returns the current state of all characters.
func (tm *TestMatch) Snapshot() MatchSnapshot {
	snap := MatchSnapshot{Tick: tm.Tick()}
	for _, c := range tm.Characters {
		snap.Characters = append(snap.Characters, CharacterSnapshot{
			Label:  c.Label(),
			Team:   c.Team,
			Pos:    c.Body.Pos,
			Vel:    c.Body.Vel,
			Health: c.Health.Current(),
			Active: c.Active(),
		})
	}
	return snap
}
