package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventFeed_RingBuffer(t *testing.T) {
	f := NewEventFeed()
	assert.Empty(t, f.Recent())

	for i := 0; i < feedMaxEntries+5; i++ {
		f.Add(i, "Red", "red", "tick")
	}
	assert.Equal(t, feedMaxEntries, f.Len())
	recent := f.Recent()
	assert.Equal(t, 5, recent[0].Tick, "oldest entries are overwritten")
	assert.Equal(t, feedMaxEntries+4, recent[len(recent)-1].Tick)
}

func TestTeamColor(t *testing.T) {
	assert.NotEqual(t, teamColor("red"), teamColor("blue"))
	assert.Equal(t, teamColor("green"), teamColor("green"), "extra teams hash stably")
	assert.Equal(t, teamColor(""), teamColor("--"))
}
