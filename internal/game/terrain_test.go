package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDestructibleTerrain_Rejects(t *testing.T) {
	_, err := NewDestructibleTerrain(TerrainSpec{PlanetID: "x", Radius: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewDestructibleTerrain(TerrainSpec{PlanetID: "x", Radius: 2, Roughness: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDestructibleTerrain_SolidDisc(t *testing.T) {
	terr, err := NewDestructibleTerrain(TerrainSpec{PlanetID: "x", Center: Vec2{X: 5, Y: 5}, Radius: 2})
	require.NoError(t, err)

	assert.True(t, terr.Solid(Vec2{X: 5, Y: 5}))
	assert.True(t, terr.Solid(Vec2{X: 6.5, Y: 5}))
	assert.False(t, terr.Solid(Vec2{X: 7.5, Y: 5}))
	assert.False(t, terr.Solid(Vec2{X: 100, Y: 100}))
	assert.Equal(t, 1.0, terr.Remaining())
	assert.Zero(t, terr.Carved())
}

func TestDestructibleTerrain_ExplodeNonPositiveRadiusIsNoop(t *testing.T) {
	terr, err := NewDestructibleTerrain(TerrainSpec{PlanetID: "x", Radius: 2})
	require.NoError(t, err)

	assert.Zero(t, terr.ExplodeWithForce(Vec2{}, 0, 10))
	assert.Zero(t, terr.ExplodeWithForce(Vec2{}, -1, 10))
	assert.Zero(t, terr.Carved())
	assert.True(t, terr.Solid(Vec2{}))
}

func TestDestructibleTerrain_ExplodeCarvesHole(t *testing.T) {
	terr, err := NewDestructibleTerrain(TerrainSpec{PlanetID: "x", Radius: 3})
	require.NoError(t, err)

	rim := Vec2{Y: 3}
	n := terr.ExplodeWithForce(rim, 1, 8)
	require.Positive(t, n)
	assert.Equal(t, n, terr.Carved())
	assert.Less(t, terr.Remaining(), 1.0)
	assert.False(t, terr.Solid(Vec2{Y: 2.5}))
	assert.True(t, terr.Solid(Vec2{}), "the core is out of reach")

	// Carving is one-way: the same blast finds nothing left.
	assert.Zero(t, terr.ExplodeWithForce(rim, 1, 8))
	assert.Equal(t, n, terr.Carved())
}

func TestDestructibleTerrain_SurfacePoint(t *testing.T) {
	terr, err := NewDestructibleTerrain(TerrainSpec{PlanetID: "x", Radius: 2})
	require.NoError(t, err)

	p, ok := terr.SurfacePoint(math.Pi / 2)
	require.True(t, ok)
	assert.InDelta(t, 0.0, p.X, 1e-9)
	assert.InDelta(t, 2.0, p.Y, 0.25)
	assert.False(t, terr.Solid(p))

	// After the whole planet is gone the ray finds nothing.
	terr.ExplodeWithForce(Vec2{}, 10, 0)
	_, ok = terr.SurfacePoint(0)
	assert.False(t, ok)
	assert.Zero(t, terr.Remaining())
}

func TestDestructibleTerrain_RoughnessIsSeeded(t *testing.T) {
	spec := TerrainSpec{PlanetID: "x", Radius: 3, Roughness: 0.2, Seed: 7}
	a, err := NewDestructibleTerrain(spec)
	require.NoError(t, err)
	b, err := NewDestructibleTerrain(spec)
	require.NoError(t, err)

	var ca, cb []Vec2
	a.ForEachSolid(func(c Vec2) { ca = append(ca, c) })
	b.ForEachSolid(func(c Vec2) { cb = append(cb, c) })
	assert.Equal(t, ca, cb)
	assert.InDelta(t, 3.6, a.Radius(), 1e-9)
}
