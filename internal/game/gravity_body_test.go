package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGravityBody stands a unit-mass body above a planet at the origin.
func newTestGravityBody(t *testing.T) (*GravityBody, *GravityField) {
	t.Helper()
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "home", Vec2{}, 10, 50)))
	b := NewBody(LayerCharacter, Vec2{Y: 2.5}, 0.3, 1)
	gb, err := NewGravityBody(b, f, DefaultMoveTuning())
	require.NoError(t, err)
	return gb, f
}

func TestNewGravityBody_Validates(t *testing.T) {
	_, err := NewGravityBody(nil, NewGravityField(), DefaultMoveTuning())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad := DefaultMoveTuning()
	bad.Smoothing = 2
	_, err = NewGravityBody(NewBody(LayerCharacter, Vec2{}, 0.3, 1), NewGravityField(), bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGravityBody_InwardPullAtDistanceThree(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "small", Vec2{}, 5, 10)))
	gb, err := NewGravityBody(NewBody(LayerCharacter, Vec2{Y: 3}, 0.3, 1), f, DefaultMoveTuning())
	require.NoError(t, err)
	require.NotNil(t, gb.Attached())

	acc := f.AccelerationAt(gb.Body.Pos)
	assert.InDelta(t, 10.0/9, acc.Len(), 1e-12)
	assert.InDelta(t, 0.0, acc.X, 1e-12)
	assert.Less(t, acc.Y, 0.0, "pull points at the centre")
}

func TestGravityBody_AttachesOnCreation(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	require.NotNil(t, gb.Attached())
	assert.Equal(t, "home", gb.Attached().ID())
	assert.True(t, gb.CanDoubleJump())
	assert.Zero(t, gb.JumpCount())
}

func TestGravityBody_InactiveCannotJump(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	assert.False(t, gb.Jump())
	assert.True(t, gb.Body.Vel.IsZero())
}

func TestGravityBody_JumpChain(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	gb.setActive(true)

	var events []JumpEvent
	gb.OnJump = func(ev JumpEvent) { events = append(events, ev) }

	require.True(t, gb.Jump())
	assert.Equal(t, 1, gb.JumpCount())
	assert.InDelta(t, 5.0, gb.Body.Vel.Y, 1e-9, "grounded jump pushes along the surface normal")

	// Shared cooldown blocks an immediate second jump.
	assert.False(t, gb.Jump())
	assert.InDelta(t, 0.5, gb.JumpCooldown(), 1e-9)

	// Leave every source: the next jump is the double jump.
	gb.Body.Pos = Vec2{Y: 20}
	gb.FixedStep(1.0 / 60)
	require.Nil(t, gb.Attached())
	gb.Tick(0.5)
	require.True(t, gb.Jump())
	assert.Equal(t, 2, gb.JumpCount())
	assert.False(t, gb.CanDoubleJump())

	// No third jump in the air.
	gb.Tick(0.5)
	assert.False(t, gb.Jump())

	require.Len(t, events, 2)
	assert.Equal(t, JumpGrounded, events[0].Kind)
	assert.Equal(t, JumpDouble, events[1].Kind)
}

func TestGravityBody_SuperJump(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	gb.setActive(true)

	require.True(t, gb.ArmSuperJump())
	assert.False(t, gb.ArmSuperJump(), "already armed")

	var ev JumpEvent
	gb.OnJump = func(e JumpEvent) { ev = e }
	require.True(t, gb.Jump())
	assert.True(t, ev.Super)
	assert.InDelta(t, 10.0, ev.Impulse, 1e-9)
	assert.InDelta(t, 10.0, gb.Body.Vel.Y, 1e-9)
	assert.False(t, gb.SuperJumpArmed(), "consumed by the jump")
}

func TestGravityBody_CooldownFrozenWhileInactive(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	gb.setActive(true)
	require.True(t, gb.Jump())

	gb.setActive(false)
	gb.Tick(5)
	assert.InDelta(t, 0.5, gb.JumpCooldown(), 1e-9)
}

func TestGravityBody_WalkAndHardStop(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	gb.setActive(true)
	gb.Body.Vel = Vec2{Y: -1}

	gb.SetHorizontal(1)
	gb.FixedStep(1.0 / 60)
	assert.InDelta(t, 3.0, gb.Body.Vel.X, 1e-9, "clockwise on top of the planet is +X")
	assert.InDelta(t, -1.0, gb.Body.Vel.Y, 1e-9, "radial velocity is kept")

	gb.SetHorizontal(0)
	gb.FixedStep(1.0 / 60)
	assert.InDelta(t, 0.0, gb.Body.Vel.X, 1e-9)
	assert.InDelta(t, -1.0, gb.Body.Vel.Y, 1e-9)
}

func TestGravityBody_SmoothingEasesTowardTarget(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "home", Vec2{}, 10, 50)))
	tuning := DefaultMoveTuning()
	tuning.Smoothing = 0.5
	gb, err := NewGravityBody(NewBody(LayerCharacter, Vec2{Y: 2.5}, 0.3, 1), f, tuning)
	require.NoError(t, err)
	gb.setActive(true)

	gb.SetHorizontal(1)
	gb.FixedStep(1.0 / 60)
	assert.InDelta(t, 1.5, gb.Body.Vel.X, 1e-9)
	gb.FixedStep(1.0 / 60)
	assert.InDelta(t, 2.25, gb.Body.Vel.X, 1e-9)
}

func TestGravityBody_InactiveIgnoresWalking(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	gb.Body.Vel = Vec2{X: 2}
	gb.SetHorizontal(1)
	gb.FixedStep(1.0 / 60)
	assert.InDelta(t, 2.0, gb.Body.Vel.X, 1e-9)
}

func TestGravityBody_SurfacePullAndAlignment(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	gb.Body.Pos = Vec2{X: 3}
	gb.FixedStep(1.0 / 60)

	assert.InDelta(t, 1.0, gb.Up().X, 1e-9)
	assert.InDelta(t, 0.0, gb.Up().Y, 1e-9)

	// The pull lands as a force on the next world step.
	w := NewWorld(nil)
	w.AddBody(gb.Body)
	w.Step(0.1)
	assert.InDelta(t, -5.0, gb.Body.Vel.X, 1e-9)
}

func TestGravityBody_AttachmentRule(t *testing.T) {
	f := NewGravityField()
	require.NoError(t, f.Register(newTestSource(t, "a", Vec2{}, 10, 50)))
	require.NoError(t, f.Register(newTestSource(t, "b", Vec2{X: 15}, 10, 50)))
	gb, err := NewGravityBody(NewBody(LayerCharacter, Vec2{X: -5}, 0.3, 1), f, DefaultMoveTuning())
	require.NoError(t, err)
	require.Equal(t, "a", gb.Attached().ID())

	var changes [][2]string
	gb.OnAttach = func(prev, next *GravitySource) {
		p, n := "", ""
		if prev != nil {
			p = prev.ID()
		}
		if next != nil {
			n = next.ID()
		}
		changes = append(changes, [2]string{p, n})
	}

	// Entering b while still inside a: the newly entered source wins.
	gb.Body.Pos = Vec2{X: 7}
	gb.FixedStep(0)
	assert.Equal(t, "b", gb.Attached().ID())

	// Leaving b falls back to the nearest overlapping source.
	gb.Body.Pos = Vec2{X: -5}
	gb.FixedStep(0)
	assert.Equal(t, "a", gb.Attached().ID())

	// Leaving everything detaches.
	gb.Body.Pos = Vec2{X: -30}
	gb.FixedStep(0)
	assert.Nil(t, gb.Attached())

	assert.Equal(t, [][2]string{{"a", "b"}, {"b", "a"}, {"a", ""}}, changes)
}

func TestGravityBody_OnTurnStartClearsState(t *testing.T) {
	gb, _ := newTestGravityBody(t)
	gb.setActive(true)
	gb.ArmSuperJump()
	gb.SetHorizontal(1)
	gb.FixedStep(1.0 / 60)
	require.True(t, gb.Jump())

	gb.OnTurnStart()
	assert.Zero(t, gb.JumpCount())
	assert.False(t, gb.SuperJumpArmed())
	assert.Zero(t, gb.JumpCooldown())
	assert.InDelta(t, 0.0, gb.Body.Vel.X, 1e-9)
}
