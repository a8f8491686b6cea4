package game

import (
	"math"

	"github.com/google/uuid"
)

// Layer separates bodies for contact generation.
type Layer int

const (
	LayerCharacter Layer = iota
	LayerProjectile
)

func (l Layer) String() string {
	switch l {
	case LayerCharacter:
		return "character"
	case LayerProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Body is a point mass with a circular collider.
type Body struct {
	ID           string
	Pos          Vec2
	Vel          Vec2
	Mass         float64
	Radius       float64
	GravityScale float64
	Kinematic    bool
	Layer        Layer
	// Payload points back at the owning entity (*Character, *Projectile).
	Payload any

	force   Vec2
	removed bool
}

// NewBody creates a body with a fresh id. Mass <= 0 is treated as 1.
func NewBody(layer Layer, pos Vec2, radius, mass float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		ID:           uuid.NewString(),
		Pos:          pos,
		Mass:         mass,
		Radius:       radius,
		GravityScale: 1,
		Layer:        layer,
	}
}

// AddForce accumulates a continuous force for the next step.
func (b *Body) AddForce(f Vec2) {
	b.force = b.force.Add(f)
}

// AddImpulse changes velocity immediately by j/m.
func (b *Body) AddImpulse(j Vec2) {
	if b.Kinematic {
		return
	}
	b.Vel = b.Vel.Add(j.Scale(1 / b.Mass))
}

// Removed reports whether the body has been taken out of its world.
func (b *Body) Removed() bool { return b.removed }

// Contact is a collision reported by World.Step. Exactly one of B and
// Terrain is set.
type Contact struct {
	A       *Body
	B       *Body
	Terrain *DestructibleTerrain
	Point   Vec2
	Normal  Vec2
}

// World integrates bodies under the gravity field and resolves terrain
// contacts. Bodies on the same layer never collide with each other.
type World struct {
	Field    *GravityField
	bodies   []*Body
	terrains []*DestructibleTerrain
	contacts []Contact
}

// NewWorld creates an empty world over field.
func NewWorld(field *GravityField) *World {
	return &World{Field: field}
}

func (w *World) AddBody(b *Body) {
	b.removed = false
	w.bodies = append(w.bodies, b)
}

// RemoveBody marks b removed; it is dropped at the end of the current step.
func (w *World) RemoveBody(b *Body) {
	b.removed = true
}

func (w *World) AddTerrain(t *DestructibleTerrain) {
	w.terrains = append(w.terrains, t)
}

func (w *World) Terrains() []*DestructibleTerrain { return w.terrains }

// Bodies returns live bodies.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		if !b.removed {
			out = append(out, b)
		}
	}
	return out
}

// Step advances every body by dt using semi-implicit Euler and returns the
// contacts found after integration. The returned slice is reused.
func (w *World) Step(dt float64) []Contact {
	w.contacts = w.contacts[:0]
	for _, b := range w.bodies {
		if b.removed {
			continue
		}
		if !b.Kinematic {
			acc := b.force.Scale(1 / b.Mass)
			if w.Field != nil && b.GravityScale != 0 {
				acc = acc.Add(w.Field.AccelerationAt(b.Pos).Scale(b.GravityScale))
			}
			b.Vel = b.Vel.Add(acc.Scale(dt))
			b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		}
		b.force = Vec2{}
	}

	for _, b := range w.bodies {
		if b.removed {
			continue
		}
		for _, t := range w.terrains {
			if c, ok := w.resolveTerrain(b, t); ok {
				w.contacts = append(w.contacts, c)
			}
		}
	}

	for i, a := range w.bodies {
		if a.removed {
			continue
		}
		for _, b := range w.bodies[i+1:] {
			// Only character-projectile pairs collide.
			if b.removed || a.Layer == b.Layer {
				continue
			}
			d := b.Pos.Sub(a.Pos)
			if d.LenSq() > (a.Radius+b.Radius)*(a.Radius+b.Radius) {
				continue
			}
			n := d.Normalized()
			w.contacts = append(w.contacts, Contact{A: a, B: b, Point: a.Pos.Add(n.Scale(a.Radius)), Normal: n})
		}
	}

	w.compact()
	return w.contacts
}

// resolveTerrain pushes b out of t along the planet normal and strips the
// inward normal velocity.
func (w *World) resolveTerrain(b *Body, t *DestructibleTerrain) (Contact, bool) {
	n := b.Pos.Sub(t.Center).Normalized()
	if n.IsZero() {
		n = Vec2{Y: 1}
	}
	foot := b.Pos.Sub(n.Scale(b.Radius))
	if !t.Solid(foot) {
		return Contact{}, false
	}
	if !b.Kinematic {
		step := t.CellSize() * 0.5
		limit := int(math.Ceil(t.Radius()*2/step)) + 2
		for i := 0; i < limit && t.Solid(foot); i++ {
			b.Pos = b.Pos.Add(n.Scale(step))
			foot = b.Pos.Sub(n.Scale(b.Radius))
		}
		if vn := b.Vel.Dot(n); vn < 0 {
			b.Vel = b.Vel.Sub(n.Scale(vn))
		}
	}
	return Contact{A: b, Terrain: t, Point: foot, Normal: n}, true
}

func (w *World) compact() {
	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if !b.removed {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = kept
}

// OverlapCircle returns live bodies whose collider intersects the circle.
// A radius <= 0 degenerates to a point query.
func (w *World) OverlapCircle(center Vec2, radius float64) []*Body {
	if radius < 0 {
		radius = 0
	}
	var out []*Body
	for _, b := range w.bodies {
		if b.removed {
			continue
		}
		r := radius + b.Radius
		if b.Pos.Sub(center).LenSq() <= r*r {
			out = append(out, b)
		}
	}
	return out
}
