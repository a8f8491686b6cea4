package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed levels/default.yaml
var defaultLevelYAML []byte

// PlanetDef is one gravity source plus its terrain.
type PlanetDef struct {
	ID              string     `yaml:"id"`
	Pos             [2]float64 `yaml:"pos"`
	GravityRadius   float64    `yaml:"gravity_radius"`
	Strength        float64    `yaml:"strength"`
	Scale           float64    `yaml:"scale"`
	ForceMultiplier float64    `yaml:"force_multiplier"`
	SurfaceRadius   float64    `yaml:"surface_radius"`
	Roughness       float64    `yaml:"roughness"`
	Seed            int64      `yaml:"seed"`
}

// CharacterDef places a character on a planet.
type CharacterDef struct {
	Name   string         `yaml:"name"`
	Team   string         `yaml:"team"`
	Planet string         `yaml:"planet"`
	Angle  float64        `yaml:"angle"` // degrees, 0 = +X, counter-clockwise
	Health float64        `yaml:"health"`
	Ammo   map[string]int `yaml:"ammo"`
}

// AbilityDefs is the per-slot tuning block of a level file.
type AbilityDefs struct {
	Pistol    AbilityConfig `yaml:"pistol"`
	Shotgun   AbilityConfig `yaml:"shotgun"`
	RPG       AbilityConfig `yaml:"rpg"`
	Grenade   AbilityConfig `yaml:"grenade"`
	SuperJump AbilityConfig `yaml:"super_jump"`
	Shield    AbilityConfig `yaml:"shield"`
}

// Array returns the configs in slot order with Slot filled in.
func (a AbilityDefs) Array() [SlotCount]AbilityConfig {
	out := [SlotCount]AbilityConfig{a.Pistol, a.Shotgun, a.RPG, a.Grenade, a.SuperJump, a.Shield}
	for i := range out {
		out[i].Slot = SlotIndex(i)
	}
	return out
}

// Level is a decoded level file.
type Level struct {
	Name         string         `yaml:"name"`
	TurnDuration float64        `yaml:"turn_duration"`
	Health       float64        `yaml:"health"`
	Ammo         map[string]int `yaml:"ammo"`
	Movement     MoveTuning     `yaml:"movement"`
	Abilities    AbilityDefs    `yaml:"abilities"`
	Planets      []PlanetDef    `yaml:"planets"`
	Characters   []CharacterDef `yaml:"characters"`
}

func levelDefaults() Level {
	ab := DefaultAbilityConfigs()
	return Level{
		TurnDuration: 30,
		Health:       100,
		Movement:     DefaultMoveTuning(),
		Abilities: AbilityDefs{
			Pistol: ab[SlotPistol], Shotgun: ab[SlotShotgun], RPG: ab[SlotRPG],
			Grenade: ab[SlotGrenade], SuperJump: ab[SlotSuperJump], Shield: ab[SlotShield],
		},
	}
}

// DecodeLevel reads a level strictly: unknown keys are errors. Fields the
// file omits keep their defaults.
func DecodeLevel(r io.Reader) (*Level, error) {
	lvl := levelDefaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lvl); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// LoadLevel reads path, or the embedded default level when path is empty.
func LoadLevel(path string) (*Level, error) {
	if path == "" {
		return DecodeLevel(bytes.NewReader(defaultLevelYAML))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer f.Close()
	return DecodeLevel(f)
}

// DefaultLevel returns the embedded level. It panics only if the embedded
// file is broken, which the tests guard.
func DefaultLevel() *Level {
	lvl, err := LoadLevel("")
	if err != nil {
		panic(err)
	}
	return lvl
}

// Validate checks references and value ranges.
func (l *Level) Validate() error {
	if !(l.TurnDuration > 0) {
		return fmt.Errorf("%w: turn_duration %.2f", ErrInvalidConfig, l.TurnDuration)
	}
	if err := l.Movement.Validate(); err != nil {
		return err
	}
	if _, err := l.ammoFor(nil); err != nil {
		return err
	}
	for _, ab := range l.Abilities.Array() {
		if err := ab.Validate(); err != nil {
			return err
		}
	}
	planets := make(map[string]bool, len(l.Planets))
	for _, p := range l.Planets {
		if planets[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, p.ID)
		}
		planets[p.ID] = true
		if !(p.SurfaceRadius > 0) || p.SurfaceRadius*(1+p.Roughness) >= p.GravityRadius*scaleOr1(p.Scale) {
			return fmt.Errorf("%w: planet %s surface must lie inside its gravity radius", ErrInvalidConfig, p.ID)
		}
	}
	if len(l.Characters) == 0 {
		return ErrNoCharacters
	}
	for _, c := range l.Characters {
		if !planets[c.Planet] {
			return fmt.Errorf("%w: %q (character %s)", ErrUnknownPlanet, c.Planet, c.Name)
		}
		if _, err := l.ammoFor(c.Ammo); err != nil {
			return fmt.Errorf("character %s: %w", c.Name, err)
		}
	}
	return nil
}

func scaleOr1(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

// ammoFor layers level-wide and per-character overrides on the stock loadout.
func (l *Level) ammoFor(override map[string]int) ([SlotCount]int, error) {
	ammo := DefaultAmmo()
	for _, m := range []map[string]int{l.Ammo, override} {
		for name, n := range m {
			slot, err := ParseSlot(name)
			if err != nil {
				return ammo, err
			}
			if n < Unlimited {
				return ammo, fmt.Errorf("%w: %s=%d", ErrInvalidAmmo, name, n)
			}
			ammo[slot] = n
		}
	}
	return ammo, nil
}

// sourceSpec converts a planet to its gravity source.
func (p PlanetDef) sourceSpec() SourceSpec {
	return SourceSpec{
		ID:              p.ID,
		Pos:             Vec2{X: p.Pos[0], Y: p.Pos[1]},
		BaseRadius:      p.GravityRadius,
		BaseStrength:    p.Strength,
		Scale:           p.Scale,
		ForceMultiplier: p.ForceMultiplier,
	}
}

func (p PlanetDef) terrainSpec() TerrainSpec {
	return TerrainSpec{
		PlanetID:  p.ID,
		Center:    Vec2{X: p.Pos[0], Y: p.Pos[1]},
		Radius:    p.SurfaceRadius,
		Roughness: p.Roughness,
		Seed:      p.Seed,
	}
}

// characterSpec resolves a character definition against its planet terrain.
func (l *Level) characterSpec(def CharacterDef, terrain *DestructibleTerrain) (CharacterSpec, error) {
	ammo, err := l.ammoFor(def.Ammo)
	if err != nil {
		return CharacterSpec{}, err
	}
	hp := def.Health
	if hp == 0 {
		hp = l.Health
	}
	angle := def.Angle * math.Pi / 180
	pos, ok := terrain.SurfacePoint(angle)
	if !ok {
		pos = terrain.Center.Add(FromAngle(angle).Scale(terrain.Radius()))
	}
	pos = pos.Add(FromAngle(angle).Scale(characterRadius))
	return CharacterSpec{
		Name:      def.Name,
		Team:      def.Team,
		Pos:       pos,
		MaxHealth: hp,
		Ammo:      ammo,
		Movement:  l.Movement,
		Abilities: l.Abilities.Array(),
	}, nil
}
