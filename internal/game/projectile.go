package game

import "fmt"

// ProjectileSpec describes a projectile type.
type ProjectileSpec struct {
	Kind         string  `yaml:"kind"`
	BodyRadius   float64 `yaml:"body_radius"`
	Mass         float64 `yaml:"mass"`
	GravityScale float64 `yaml:"gravity_scale"`
	TTL          float64 `yaml:"ttl"` // seconds before silent removal, 0 = forever

	// ExplosionRadius 0 means single-target direct hit.
	ExplosionRadius float64 `yaml:"explosion_radius"`
	ExplosionForce  float64 `yaml:"explosion_force"`
	MaxDamage       float64 `yaml:"max_damage"`

	// Fuse > 0 makes the projectile ignore impacts and detonate when it
	// runs out.
	Fuse float64 `yaml:"fuse"`

	ShakeDuration  float64 `yaml:"shake_duration"`
	ShakeMagnitude float64 `yaml:"shake_magnitude"`
}

// Validate rejects specs that would heal on impact or break integration.
func (p ProjectileSpec) Validate() error {
	if !(p.BodyRadius > 0) || !(p.Mass > 0) {
		return fmt.Errorf("%w: %s needs a positive body_radius and mass", ErrInvalidConfig, p.Kind)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"gravity_scale", p.GravityScale},
		{"ttl", p.TTL},
		{"explosion_radius", p.ExplosionRadius},
		{"explosion_force", p.ExplosionForce},
		{"max_damage", p.MaxDamage},
		{"fuse", p.Fuse},
		{"shake_duration", p.ShakeDuration},
		{"shake_magnitude", p.ShakeMagnitude},
	} {
		if !(f.v >= 0) {
			return fmt.Errorf("%w: %s %s %.2f must be >= 0", ErrInvalidConfig, p.Kind, f.name, f.v)
		}
	}
	return nil
}

func PistolProjectile() ProjectileSpec {
	return ProjectileSpec{
		Kind: "bullet", BodyRadius: 0.08, Mass: 0.1, GravityScale: 1, TTL: 5,
		ExplosionForce: 5, MaxDamage: 10,
	}
}

func PelletProjectile() ProjectileSpec {
	return ProjectileSpec{
		Kind: "pellet", BodyRadius: 0.06, Mass: 0.05, GravityScale: 1, TTL: 3,
		ExplosionForce: 2, MaxDamage: 6,
	}
}

func RocketProjectile() ProjectileSpec {
	return ProjectileSpec{
		Kind: "rocket", BodyRadius: 0.12, Mass: 0.5, GravityScale: 1, TTL: 5,
		ExplosionRadius: 1.5, ExplosionForce: 8, MaxDamage: 35,
		ShakeDuration: 0.2, ShakeMagnitude: 0.1,
	}
}

func GrenadeProjectile() ProjectileSpec {
	return ProjectileSpec{
		Kind: "grenade", BodyRadius: 0.12, Mass: 0.4, GravityScale: 1, TTL: 0,
		ExplosionRadius: 1, ExplosionForce: 5, MaxDamage: 20, Fuse: 6,
	}
}

// Projectile is a live shot in flight.
type Projectile struct {
	Body        *Body
	Owner       AbilityOwner
	Slot        SlotIndex
	Spec        ProjectileSpec
	ignoreOwner float64
	age         float64
	done        bool
}

// NewProjectile builds the projectile and its body from a spawn request. The
// caller adds the body to the world.
func NewProjectile(req SpawnRequest) *Projectile {
	b := NewBody(LayerProjectile, req.Pos, req.Spec.BodyRadius, req.Spec.Mass)
	b.Vel = req.Vel
	b.GravityScale = req.Spec.GravityScale
	p := &Projectile{
		Body:        b,
		Owner:       req.Owner,
		Slot:        req.Slot,
		Spec:        req.Spec,
		ignoreOwner: req.IgnoreOwner,
	}
	b.Payload = p
	return p
}

func (p *Projectile) ID() string     { return p.Body.ID }
func (p *Projectile) Age() float64   { return p.age }
func (p *Projectile) Done() bool     { return p.done }
func (p *Projectile) Fused() bool    { return p.Spec.Fuse > 0 }
func (p *Projectile) Pos() Vec2      { return p.Body.Pos }
func (p *Projectile) finish()        { p.done = true }

// FuseLeft is the time until a fused projectile detonates.
func (p *Projectile) FuseLeft() float64 {
	if !p.Fused() {
		return 0
	}
	return max(0, p.Spec.Fuse-p.age)
}

// IgnoresOwner reports whether the owner grace period is still running.
func (p *Projectile) IgnoresOwner() bool { return p.age < p.ignoreOwner }

// ProjectileTick is what happened to a projectile during Advance.
type ProjectileTick int

const (
	ProjectileFlying ProjectileTick = iota
	ProjectileExpired
	ProjectileFuseDone
)

// Advance ages the projectile by dt.
func (p *Projectile) Advance(dt float64) ProjectileTick {
	if p.done {
		return ProjectileFlying
	}
	p.age += dt
	switch {
	case p.Fused() && p.age >= p.Spec.Fuse:
		return ProjectileFuseDone
	case p.Spec.TTL > 0 && p.age >= p.Spec.TTL:
		return ProjectileExpired
	}
	return ProjectileFlying
}

// Hits reports whether a contact with other should detonate the projectile.
// Fused projectiles only bounce; the owner is ignored during the grace period.
func (p *Projectile) Hits(other *Body, ownerBody *Body) bool {
	if p.done || p.Fused() {
		return false
	}
	if other != nil && other == ownerBody && p.IgnoresOwner() {
		return false
	}
	return true
}
