package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeCount(chars []*Character) int {
	n := 0
	for _, c := range chars {
		if c.Active() {
			n++
		}
	}
	return n
}

func TestNewTurnController_Validation(t *testing.T) {
	_, err := NewTurnController(nil, 30)
	assert.ErrorIs(t, err, ErrNoCharacters)
	_, err = NewTurnController(newTestCharacters(t, 1), 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTurnController_StartActivatesExactlyOne(t *testing.T) {
	chars := newTestCharacters(t, 3)
	tc, err := NewTurnController(chars, 30)
	require.NoError(t, err)
	assert.False(t, tc.Started())
	assert.Zero(t, activeCount(chars))

	require.True(t, tc.Start())
	assert.Same(t, chars[0], tc.Current())
	assert.Equal(t, 1, activeCount(chars))
	for i, c := range chars {
		assert.Equal(t, i, c.Index)
	}
}

func TestTurnController_ActivateIsIdempotent(t *testing.T) {
	chars := newTestCharacters(t, 2)
	tc, err := NewTurnController(chars, 30)
	require.NoError(t, err)
	require.True(t, tc.Start())

	tc.Tick(3)
	require.True(t, tc.Activate(0))
	assert.True(t, chars[0].Active())
	assert.Equal(t, 1, activeCount(chars))
	assert.Equal(t, 30.0, tc.Remaining(), "activation restarts the timer")

	assert.False(t, tc.Activate(-1))
	assert.False(t, tc.Activate(2))
}

func TestTurnController_AdvanceCycles(t *testing.T) {
	chars := newTestCharacters(t, 3)
	tc, err := NewTurnController(chars, 30)
	require.NoError(t, err)
	require.True(t, tc.Start())

	var order []int
	tc.OnActivate = func(_, next *Character) { order = append(order, next.Index) }
	for i := 0; i < 3; i++ {
		require.True(t, tc.Advance())
		assert.Equal(t, 1, activeCount(chars))
	}
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestTurnController_AdvanceTwiceReturnsWithTwo(t *testing.T) {
	chars := newTestCharacters(t, 2)
	tc, err := NewTurnController(chars, 30)
	require.NoError(t, err)
	require.True(t, tc.Start())

	require.True(t, tc.Advance())
	require.True(t, tc.Advance())
	assert.Same(t, chars[0], tc.Current())
}

func TestTurnController_SkipsDead(t *testing.T) {
	chars := newTestCharacters(t, 3)
	tc, err := NewTurnController(chars, 30)
	require.NoError(t, err)
	require.True(t, tc.Start())

	chars[1].TakeDamage(1000)
	assert.False(t, tc.Activate(1))
	require.True(t, tc.Advance())
	assert.Same(t, chars[2], tc.Current())

	chars[2].TakeDamage(1000)
	require.True(t, tc.Advance())
	assert.Same(t, chars[0], tc.Current())
	assert.False(t, tc.Advance(), "nobody else is alive")
}

func TestTurnController_SingleCharacterNeverExpires(t *testing.T) {
	chars := newTestCharacters(t, 1)
	tc, err := NewTurnController(chars, 5)
	require.NoError(t, err)
	require.True(t, tc.Start())
	assert.False(t, tc.Advance())

	tc.Tick(100)
	assert.Equal(t, 5.0, tc.Remaining())
	assert.True(t, chars[0].Active())
}

func TestTurnController_TimerExpiryAdvances(t *testing.T) {
	chars := newTestCharacters(t, 2)
	tc, err := NewTurnController(chars, 1)
	require.NoError(t, err)

	var last [2]float64
	tc.ObserveTimer(func(remaining, limit float64) { last = [2]float64{remaining, limit} })
	require.True(t, tc.Start())

	tc.Tick(0.6)
	assert.Same(t, chars[0], tc.Current())
	assert.InDelta(t, 0.4, last[0], 1e-9)
	assert.Equal(t, 1.0, last[1])
	assert.True(t, tc.Danger())

	tc.Tick(0.6)
	assert.Same(t, chars[1], tc.Current())
	assert.Equal(t, 1.0, tc.Remaining())
}

func TestTurnController_ActivationResetsTurnState(t *testing.T) {
	chars := newTestCharacters(t, 2)
	tc, err := NewTurnController(chars, 30)
	require.NoError(t, err)
	require.True(t, tc.Start())

	a := chars[0]
	require.True(t, a.Loadout.Select(SlotShield))
	require.True(t, a.Loadout.Confirm())
	require.True(t, a.Health.Shielded())
	require.True(t, a.Resources().TurnSkillUsed())
	require.Equal(t, SlotCooldown, a.Loadout.Slot(SlotShield).State())

	require.True(t, tc.Advance())
	assert.True(t, a.Health.Shielded(), "the shield lasts through the opponent's turn")

	require.True(t, tc.Advance())
	assert.False(t, a.Health.Shielded())
	assert.False(t, a.Resources().TurnSkillUsed())
	assert.Equal(t, SlotIdle, a.Loadout.Slot(SlotShield).State())
	assert.Equal(t, 1, a.Resources().Remaining(SlotShield), "ammo is not refunded")
}
