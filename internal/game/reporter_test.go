package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimReporter_CollectAndWindow(t *testing.T) {
	tm := NewTestMatch()
	r := NewSimReporter(0, true)
	assert.Nil(t, r.Latest())
	assert.Nil(t, r.WindowSummary())
	assert.Equal(t, "No data collected yet.\n", r.WindowSummary().Format())

	r.Collect(tm.Session)
	tm.RunTicks(60)
	r.Collect(tm.Session)

	latest := r.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, 60, latest.Tick)
	assert.Equal(t, "Red", latest.ActiveLabel)
	require.Len(t, latest.Teams, 2)
	assert.Equal(t, "blue", latest.Teams[0].Team)
	assert.Equal(t, "red", latest.Teams[1].Team)
	require.NotNil(t, latest.Team("red"))
	assert.Equal(t, 1, latest.Team("red").Alive)
	assert.Nil(t, latest.Team("green"))
	require.Len(t, latest.Characters, 2)
	assert.Equal(t, "ember", latest.Characters[0].Attached)
	assert.Equal(t, 4, latest.Characters[0].Ammo[SlotRPG])

	wr := r.WindowSummary()
	require.NotNil(t, wr)
	assert.Equal(t, 0, wr.FromTick)
	assert.Equal(t, 60, wr.ToTick)
	assert.Equal(t, 2, wr.SampleCount)
	assert.Equal(t, 1.0, wr.AvgAlive["red"])
	assert.Equal(t, 100.0, wr.AvgHealth["blue"])
	assert.Contains(t, wr.Format(), "avg_alive=1.00")
	assert.Contains(t, r.FormatLatest(), "active=Red")
	assert.Len(t, r.History(), 2)
}

func TestSimReporter_WindowDropsOldSamples(t *testing.T) {
	tm := NewTestMatch()
	r := NewSimReporter(30, false)
	r.Collect(tm.Session)
	tm.RunTicks(60)
	r.Collect(tm.Session)

	wr := r.WindowSummary()
	assert.Equal(t, 1, wr.SampleCount)
	assert.Equal(t, 60, wr.FromTick)
	assert.Empty(t, r.Latest().Characters, "character detail only in verbose mode")
}
