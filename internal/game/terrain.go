package game

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	defaultTerrainCell = 0.125
	// Perlin parameters: smoothing, frequency, octaves.
	terrainNoiseAlpha   = 2.0
	terrainNoiseBeta    = 2.0
	terrainNoiseOctaves = int32(3)
	// terrainNoiseRing is the radius of the circle sampled in noise space;
	// larger values give more bumps around the rim.
	terrainNoiseRing = 1.5
)

// TerrainSpec configures a planet surface.
type TerrainSpec struct {
	PlanetID  string
	Center    Vec2
	Radius    float64 // nominal surface radius
	Roughness float64 // fraction of Radius the rim may deviate, 0 = perfect disc
	Seed      int64
	CellSize  float64 // 0 means default
}

// DestructibleTerrain is a planet's solid body stored as a square cell mask.
// Explosions carve circular holes; nothing ever adds cells back.
type DestructibleTerrain struct {
	PlanetID string
	Center   Vec2

	radius float64
	cell   float64
	dim    int // cells per side
	origin Vec2
	solid  []bool
	carved int
	total  int
}

// NewDestructibleTerrain rasterises a disc whose rim is displaced by 2D Perlin
// noise sampled around a circle, so the outline closes seamlessly.
func NewDestructibleTerrain(spec TerrainSpec) (*DestructibleTerrain, error) {
	if !(spec.Radius > 0) {
		return nil, fmt.Errorf("%w: terrain %s radius %.3f", ErrInvalidConfig, spec.PlanetID, spec.Radius)
	}
	if spec.Roughness < 0 || spec.Roughness >= 1 {
		return nil, fmt.Errorf("%w: terrain %s roughness %.3f outside [0,1)", ErrInvalidConfig, spec.PlanetID, spec.Roughness)
	}
	cell := spec.CellSize
	if cell <= 0 {
		cell = defaultTerrainCell
	}
	maxR := spec.Radius * (1 + spec.Roughness)
	dim := int(math.Ceil(2*maxR/cell)) + 1
	t := &DestructibleTerrain{
		PlanetID: spec.PlanetID,
		Center:   spec.Center,
		radius:   maxR,
		cell:     cell,
		dim:      dim,
		origin:   spec.Center.Sub(Vec2{X: float64(dim) * cell / 2, Y: float64(dim) * cell / 2}),
		solid:    make([]bool, dim*dim),
	}

	noise := perlin.NewPerlin(terrainNoiseAlpha, terrainNoiseBeta, terrainNoiseOctaves, spec.Seed)
	rim := func(angle float64) float64 {
		if spec.Roughness == 0 {
			return spec.Radius
		}
		s, c := math.Sincos(angle)
		n := noise.Noise2D(c*terrainNoiseRing, s*terrainNoiseRing)
		return spec.Radius * (1 + spec.Roughness*math.Max(-1, math.Min(1, n)))
	}

	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			p := t.cellCenter(x, y)
			local := p.Sub(spec.Center)
			if local.Len() <= rim(math.Atan2(local.Y, local.X)) {
				t.solid[y*dim+x] = true
				t.total++
			}
		}
	}
	return t, nil
}

func (t *DestructibleTerrain) cellCenter(x, y int) Vec2 {
	return Vec2{
		X: t.origin.X + (float64(x)+0.5)*t.cell,
		Y: t.origin.Y + (float64(y)+0.5)*t.cell,
	}
}

func (t *DestructibleTerrain) cellAt(p Vec2) (int, int, bool) {
	x := int(math.Floor((p.X - t.origin.X) / t.cell))
	y := int(math.Floor((p.Y - t.origin.Y) / t.cell))
	if x < 0 || y < 0 || x >= t.dim || y >= t.dim {
		return 0, 0, false
	}
	return x, y, true
}

// Solid reports whether p lies in an intact cell.
func (t *DestructibleTerrain) Solid(p Vec2) bool {
	x, y, ok := t.cellAt(p)
	if !ok {
		return false
	}
	return t.solid[y*t.dim+x]
}

func (t *DestructibleTerrain) CellSize() float64 { return t.cell }

// Radius is the outermost extent the rim can reach.
func (t *DestructibleTerrain) Radius() float64 { return t.radius }

// Carved returns how many cells have been destroyed.
func (t *DestructibleTerrain) Carved() int { return t.carved }

// Remaining returns the fraction of the original cells still intact.
func (t *DestructibleTerrain) Remaining() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.total-t.carved) / float64(t.total)
}

// ExplodeWithForce clears every cell whose centre lies within radius of
// center and returns the number of cells removed. The force is accepted for
// interface parity; the carve ignores it. Non-positive radii are ignored.
func (t *DestructibleTerrain) ExplodeWithForce(center Vec2, radius, _ float64) int {
	if radius <= 0 {
		return 0
	}
	x0, y0, _ := t.clampCell(center.Sub(Vec2{X: radius, Y: radius}))
	x1, y1, _ := t.clampCell(center.Add(Vec2{X: radius, Y: radius}))
	r2 := radius * radius
	n := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := y*t.dim + x
			if !t.solid[i] {
				continue
			}
			if t.cellCenter(x, y).Sub(center).LenSq() <= r2 {
				t.solid[i] = false
				n++
			}
		}
	}
	t.carved += n
	return n
}

func (t *DestructibleTerrain) clampCell(p Vec2) (int, int, bool) {
	x := int(math.Floor((p.X - t.origin.X) / t.cell))
	y := int(math.Floor((p.Y - t.origin.Y) / t.cell))
	in := x >= 0 && y >= 0 && x < t.dim && y < t.dim
	x = max(0, min(t.dim-1, x))
	y = max(0, min(t.dim-1, y))
	return x, y, in
}

// SurfacePoint marches inward from outside the rim along angle and returns
// the first point just above solid ground. ok is false when the ray finds no
// ground at all.
func (t *DestructibleTerrain) SurfacePoint(angle float64) (Vec2, bool) {
	dir := FromAngle(angle)
	step := t.cell * 0.5
	for r := t.radius + t.cell; r > 0; r -= step {
		p := t.Center.Add(dir.Scale(r))
		if t.Solid(p) {
			return t.Center.Add(dir.Scale(r + step)), true
		}
	}
	return Vec2{}, false
}

// ForEachSolid calls fn with the centre of every intact cell. Used by the
// renderer.
func (t *DestructibleTerrain) ForEachSolid(fn func(center Vec2)) {
	for y := 0; y < t.dim; y++ {
		for x := 0; x < t.dim; x++ {
			if t.solid[y*t.dim+x] {
				fn(t.cellCenter(x, y))
			}
		}
	}
}
