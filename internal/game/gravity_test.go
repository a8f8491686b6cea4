package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, id string, pos Vec2, radius, strength float64) *GravitySource {
	t.Helper()
	src, err := NewGravitySource(SourceSpec{ID: id, Pos: pos, BaseRadius: radius, BaseStrength: strength})
	require.NoError(t, err)
	return src
}

func TestNewGravitySource_AppliesScale(t *testing.T) {
	src, err := NewGravitySource(SourceSpec{
		ID: "p", BaseRadius: 10, BaseStrength: 100, Scale: 2, ForceMultiplier: 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, src.Radius())
	assert.Equal(t, 300.0, src.Strength())
}

func TestNewGravitySource_Rejects(t *testing.T) {
	cases := []struct {
		name string
		spec SourceSpec
	}{
		{"empty id", SourceSpec{BaseRadius: 1, BaseStrength: 1}},
		{"zero radius", SourceSpec{ID: "a", BaseRadius: 0, BaseStrength: 1}},
		{"negative strength", SourceSpec{ID: "a", BaseRadius: 1, BaseStrength: -1}},
		{"negative scale", SourceSpec{ID: "a", BaseRadius: 1, BaseStrength: 1, Scale: -2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGravitySource(tc.spec)
			assert.ErrorIs(t, err, ErrInvalidSource)
		})
	}
}

func TestGravityField_InverseSquareInsideRadius(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "a", Vec2{}, 10, 100)))

	acc := f.AccelerationAt(Vec2{X: 5})
	assert.InDelta(t, -4.0, acc.X, 1e-9)
	assert.InDelta(t, 0.0, acc.Y, 1e-9)

	// The boundary itself is inside.
	edge := f.AccelerationAt(Vec2{X: 10})
	assert.InDelta(t, -1.0, edge.X, 1e-9)

	assert.True(t, f.AccelerationAt(Vec2{X: 10.001}).IsZero(), "beyond the radius contributes nothing")
	assert.True(t, f.AccelerationAt(Vec2{}).IsZero(), "the centre is degenerate")
}

func TestGravityField_SumsOverlappingSources(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "left", Vec2{X: -5}, 10, 100)))
	require.NoError(t, f.Register(newTestSource(t, "right", Vec2{X: 5}, 10, 100)))

	// Symmetric pulls cancel at the midpoint.
	mid := f.AccelerationAt(Vec2{})
	assert.InDelta(t, 0.0, mid.Len(), 1e-9)

	// Above the midpoint both pull downward.
	up := f.AccelerationAt(Vec2{Y: 5})
	assert.InDelta(t, 0.0, up.X, 1e-9)
	assert.Less(t, up.Y, 0.0)
}

func TestGravityField_RegisterRejectsDuplicateID(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "a", Vec2{}, 10, 100)))
	err := f.Register(newTestSource(t, "a", Vec2{X: 50}, 10, 100))
	assert.ErrorIs(t, err, ErrDuplicateSource)
	assert.Len(t, f.Sources(), 1)

	assert.ErrorIs(t, f.Register(nil), ErrInvalidSource)
}

func TestGravityField_Unregister(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "a", Vec2{}, 10, 100)))
	require.NoError(t, f.Register(newTestSource(t, "b", Vec2{X: 30}, 10, 100)))

	f.Unregister("a")
	f.Unregister("missing")
	_, ok := f.Source("a")
	assert.False(t, ok)
	_, ok = f.Source("b")
	assert.True(t, ok)
	assert.True(t, f.AccelerationAt(Vec2{X: 2}).IsZero())
}

func TestGravityField_PreviewIgnoresRadius(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "a", Vec2{}, 10, 100)))

	far := Vec2{X: 20}
	assert.True(t, f.AccelerationAt(far).IsZero())
	pv := f.PreviewAccelerationAt(far)
	assert.InDelta(t, -0.25, pv.X, 1e-9)

	// Inside the radius both models agree.
	near := Vec2{X: 3, Y: 4}
	live := f.AccelerationAt(near)
	preview := f.PreviewAccelerationAt(near)
	assert.InDelta(t, live.X, preview.X, 1e-9)
	assert.InDelta(t, live.Y, preview.Y, 1e-9)
}

func TestGravityField_OverlappingNearestFirst(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "far", Vec2{X: 8}, 10, 1)))
	require.NoError(t, f.Register(newTestSource(t, "near", Vec2{X: 1}, 10, 1)))
	require.NoError(t, f.Register(newTestSource(t, "out", Vec2{X: 100}, 10, 1)))

	got := f.Overlapping(Vec2{})
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID())
	assert.Equal(t, "far", got[1].ID())
}
