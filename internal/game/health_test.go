package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHealth_RejectsNonPositive(t *testing.T) {
	_, err := NewHealth(0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestHealth_DamageAndDeath(t *testing.T) {
	h, err := NewHealth(100)
	require.NoError(t, err)

	var values []float64
	h.OnHealthChanged(func(v float64) { values = append(values, v) })
	deaths := 0
	h.OnDeath(func() { deaths++ })

	h.TakeDamage(30)
	assert.Equal(t, 70.0, h.Current())
	assert.InDelta(t, 0.7, h.Fraction(), 1e-9)

	h.TakeDamage(500)
	assert.Zero(t, h.Current())
	assert.True(t, h.Dead())

	// Dead characters ignore further damage and die only once.
	h.TakeDamage(10)
	assert.Equal(t, 1, deaths)
	assert.Equal(t, []float64{100, 70, 0}, values)
}

func TestHealth_NegativeDamageHealsToMax(t *testing.T) {
	h, err := NewHealth(100)
	require.NoError(t, err)
	h.TakeDamage(40)
	h.TakeDamage(-100)
	assert.Equal(t, 100.0, h.Current())
}

func TestHealth_ShieldBlocks(t *testing.T) {
	h, err := NewHealth(100)
	require.NoError(t, err)
	var blocked float64
	h.OnBlocked = func(a float64) { blocked += a }

	h.SetShielded(true)
	h.TakeDamage(25)
	assert.Equal(t, 100.0, h.Current())
	assert.Equal(t, 25.0, blocked)

	h.SetShielded(false)
	h.TakeDamage(25)
	assert.Equal(t, 75.0, h.Current())
}
