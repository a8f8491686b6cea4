package game

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("t")
	m.TurnStarted()
	m.TurnStarted()
	m.Fired(SlotRPG, 1)
	m.Fired(SlotShotgun, 5)
	m.Confirmed(SlotShield)
	m.Jumped(JumpDouble)
	m.SetAlive(3)
	m.Died()
	m.Exploded(ExplosionReport{Hits: []ExplosionHit{{Damage: 12}, {Damage: 3}}, Carved: 40})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shots.WithLabelValues("rpg")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.shots.WithLabelValues("shotgun")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.confirms.WithLabelValues("shield")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jumps.WithLabelValues("double")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.alive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deaths))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.explosions))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.damage))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.cellsCarved))
}

func TestMetrics_PrivateRegistries(t *testing.T) {
	a := NewMetrics("")
	b := NewMetrics("")
	a.TurnStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.turns))
	assert.Zero(t, testutil.ToFloat64(b.turns))
}

func TestMetrics_WriteText(t *testing.T) {
	m := NewMetrics("")
	m.TurnStarted()
	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), "gravsiege_turns_total 1")
	assert.Contains(t, buf.String(), "# TYPE gravsiege_characters_alive gauge")
}

func TestMetrics_SessionWiring(t *testing.T) {
	tm := NewTestMatch()
	assert.Equal(t, 1.0, testutil.ToFloat64(tm.Metrics.turns))
	assert.Equal(t, 2.0, testutil.ToFloat64(tm.Metrics.alive))

	tm.Press(ActionNextTurn)
	assert.Equal(t, 2.0, testutil.ToFloat64(tm.Metrics.turns))
}
