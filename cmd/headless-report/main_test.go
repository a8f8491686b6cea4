package main

import (
	"strings"
	"testing"

	"github.com/Garsondee/Gravity-Siege/internal/game"
)

func TestTeamSurvivalCounts(t *testing.T) {
	rs := runStats{
		totals:    map[string]int{"red": 2, "blue": 2},
		survivors: map[string]int{"red": 1, "blue": 2},
	}

	teams, totals, survivors := teamSurvivalCounts(rs)
	if len(teams) != 2 || teams[0] != "blue" || teams[1] != "red" {
		t.Fatalf("expected teams [blue red], got %v", teams)
	}
	if totals[0] != 2 || totals[1] != 2 {
		t.Fatalf("expected totals blue=2 red=2, got %v", totals)
	}
	if survivors[0] != 2 || survivors[1] != 1 {
		t.Fatalf("expected survivors blue=2 red=1, got %v", survivors)
	}
}

func TestDetectStalemate_TrueWhenBothAliveAndDamageLow(t *testing.T) {
	rs := runStats{
		result:      game.MatchResult{Outcome: game.MatchInconclusive},
		survivors:   map[string]int{"red": 1, "blue": 1},
		turns:       40,
		totalDamage: 20,
	}

	isStalemate, reason := detectStalemate(rs)
	if !isStalemate {
		t.Fatalf("expected stalemate=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "low_damage_per_turn") {
		t.Fatalf("expected reason to mention low_damage_per_turn, got: %s", reason)
	}
}

func TestDetectStalemate_FalseWhenMatchDecided(t *testing.T) {
	rs := runStats{
		result:    game.MatchResult{Outcome: game.MatchVictory, Winner: "red"},
		survivors: map[string]int{"red": 1},
		turns:     40,
	}

	isStalemate, reason := detectStalemate(rs)
	if isStalemate {
		t.Fatalf("expected stalemate=false for a decided match (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseWhenDamageFlows(t *testing.T) {
	rs := runStats{
		result:      game.MatchResult{Outcome: game.MatchInconclusive},
		survivors:   map[string]int{"red": 1, "blue": 1},
		turns:       10,
		totalDamage: 150,
	}

	isStalemate, reason := detectStalemate(rs)
	if isStalemate {
		t.Fatalf("expected stalemate=false under heavy damage (reason=%s)", reason)
	}
}

func TestRunMatchIsDeterministic(t *testing.T) {
	lvl := game.DefaultLevel()
	a, _, err := runMatch(lvl, 1, 7, 1800)
	if err != nil {
		t.Fatalf("run a: %v", err)
	}
	b, _, err := runMatch(lvl, 1, 7, 1800)
	if err != nil {
		t.Fatalf("run b: %v", err)
	}
	if a.ticks != b.ticks || a.shots != b.shots || a.turns != b.turns || a.totalDamage != b.totalDamage {
		t.Fatalf("same seed diverged: a=%+v b=%+v", a, b)
	}
	if a.turns < 1 {
		t.Fatalf("expected at least one turn, got %d", a.turns)
	}
}
