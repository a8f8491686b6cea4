package game

import (
	"fmt"
	"math"
)

const (
	// minGravityDist guards the live field against a zero-length direction.
	minGravityDist = 1e-6
	// previewMinDistSq is the squared-distance guard used by the preview integrator.
	previewMinDistSq = 0.001
)

// GravitySource is a circular gravity well ("planet"). Immutable after creation.
type GravitySource struct {
	id       string
	pos      Vec2
	radius   float64 // scaled influence radius
	strength float64 // scaled G
}

// SourceSpec describes a gravity source before scaling.
type SourceSpec struct {
	ID              string
	Pos             Vec2
	BaseRadius      float64
	BaseStrength    float64
	Scale           float64 // multiplies radius and strength; 0 means 1
	ForceMultiplier float64 // extra strength multiplier; 0 means 1
}

// NewGravitySource validates spec and applies the scale multipliers.
// Radius = BaseRadius·Scale, Strength = BaseStrength·Scale·ForceMultiplier.
func NewGravitySource(spec SourceSpec) (*GravitySource, error) {
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	mult := spec.ForceMultiplier
	if mult == 0 {
		mult = 1
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidSource)
	}
	if scale < 0 || mult < 0 {
		return nil, fmt.Errorf("%w: %s has negative multiplier", ErrInvalidSource, spec.ID)
	}
	radius := spec.BaseRadius * scale
	strength := spec.BaseStrength * scale * mult
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: %s radius %.3f must be > 0", ErrInvalidSource, spec.ID, radius)
	}
	if strength < 0 || math.IsNaN(strength) {
		return nil, fmt.Errorf("%w: %s strength %.3f must be >= 0", ErrInvalidSource, spec.ID, strength)
	}
	return &GravitySource{id: spec.ID, pos: spec.Pos, radius: radius, strength: strength}, nil
}

func (s *GravitySource) ID() string        { return s.id }
func (s *GravitySource) Pos() Vec2         { return s.pos }
func (s *GravitySource) Radius() float64   { return s.radius }
func (s *GravitySource) Strength() float64 { return s.strength }

// Contains reports whether p lies inside the influence radius (inclusive).
func (s *GravitySource) Contains(p Vec2) bool {
	return p.Dist(s.pos) <= s.radius
}

// accelerationAt is the inverse-square pull of this source on p, or zero when
// p is outside the radius or degenerate.
func (s *GravitySource) accelerationAt(p Vec2) Vec2 {
	dir := s.pos.Sub(p)
	dist := dir.Len()
	if dist < minGravityDist || dist > s.radius {
		return Vec2{}
	}
	return dir.Normalized().Scale(s.strength / (dist * dist))
}

// GravityField is the set of active sources. It owns no bodies.
type GravityField struct {
	sources []*GravitySource
}

// NewGravityField returns an empty field.
func NewGravityField() *GravityField {
	return &GravityField{}
}

// Register adds a source. IDs must be unique.
func (f *GravityField) Register(src *GravitySource) error {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrInvalidSource)
	}
	for _, s := range f.sources {
		if s.id == src.id {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, src.id)
		}
	}
	f.sources = append(f.sources, src)
	return nil
}

// Unregister removes the source with the given id. Unknown ids are ignored.
func (f *GravityField) Unregister(id string) {
	for i, s := range f.sources {
		if s.id == id {
			f.sources = append(f.sources[:i], f.sources[i+1:]...)
			return
		}
	}
}

// Sources returns the registered sources in registration order.
func (f *GravityField) Sources() []*GravitySource {
	return f.sources
}

// Source looks up a source by id.
func (f *GravityField) Source(id string) (*GravitySource, bool) {
	for _, s := range f.sources {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// AccelerationAt sums direction·(G/dist²) over every source whose radius
// contains p. Sources beyond their radius contribute nothing.
func (f *GravityField) AccelerationAt(p Vec2) Vec2 {
	var acc Vec2
	for _, s := range f.sources {
		acc = acc.Add(s.accelerationAt(p))
	}
	return acc
}

// PreviewAccelerationAt is the coarser model used by trajectory preview:
// every source attracts regardless of radius.
func (f *GravityField) PreviewAccelerationAt(p Vec2) Vec2 {
	var acc Vec2
	for _, s := range f.sources {
		dir := s.pos.Sub(p)
		r2 := dir.LenSq()
		if r2 < previewMinDistSq {
			continue
		}
		acc = acc.Add(dir.Normalized().Scale(s.strength / r2))
	}
	return acc
}

// Overlapping returns every source containing p, nearest centre first.
func (f *GravityField) Overlapping(p Vec2) []*GravitySource {
	var out []*GravitySource
	for _, s := range f.sources {
		if s.Contains(p) {
			out = append(out, s)
		}
	}
	// insertion sort, tiny n
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].pos.Dist(p) < out[j-1].pos.Dist(p); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
