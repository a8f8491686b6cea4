package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineMatchOutcome(t *testing.T) {
	t.Run("both teams alive", func(t *testing.T) {
		res := DetermineMatchOutcome(newTestCharacters(t, 2))
		assert.Equal(t, MatchInProgress, res.Outcome)
		assert.Equal(t, 2, res.Teams)
	})
	t.Run("last team standing", func(t *testing.T) {
		chars := newTestCharacters(t, 2)
		chars[1].TakeDamage(1000)
		res := DetermineMatchOutcome(chars)
		assert.Equal(t, MatchVictory, res.Outcome)
		assert.Equal(t, "red", res.Winner)
		assert.Equal(t, 1, res.Survivors)
		assert.Equal(t, "red_victory_last_standing", res.Description)
	})
	t.Run("everyone dead", func(t *testing.T) {
		chars := newTestCharacters(t, 2)
		chars[0].TakeDamage(1000)
		chars[1].TakeDamage(1000)
		assert.Equal(t, MatchDraw, DetermineMatchOutcome(chars).Outcome)
	})
	t.Run("no characters", func(t *testing.T) {
		assert.Equal(t, MatchInconclusive, DetermineMatchOutcome(nil).Outcome)
	})
	t.Run("single team plays on", func(t *testing.T) {
		res := DetermineMatchOutcome(newTestCharacters(t, 2, "red", "red"))
		assert.Equal(t, MatchInProgress, res.Outcome)
	})
}

func TestFinalizeOutcome(t *testing.T) {
	res := FinalizeOutcome(MatchResult{Outcome: MatchInProgress, Teams: 2})
	assert.Equal(t, MatchInconclusive, res.Outcome)
	assert.Equal(t, "inconclusive_2_teams_alive", res.Description)

	won := MatchResult{Outcome: MatchVictory, Winner: "blue"}
	assert.Equal(t, won, FinalizeOutcome(won))
	assert.Equal(t, "victory", MatchVictory.String())
}
