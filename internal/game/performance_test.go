package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfBook_Attribution(t *testing.T) {
	chars := newTestCharacters(t, 3) // A red, B blue, C red
	a, b, c := chars[0], chars[1], chars[2]
	pb := newPerfBook(chars)

	before := pb.healthSnapshot()
	a.TakeDamage(5)
	b.TakeDamage(30)
	c.TakeDamage(10)
	pb.attribute(a, before)

	pa := pb.of(a)
	assert.Equal(t, 5.0, pa.SelfDamage)
	assert.Equal(t, 30.0, pa.DamageDealt)
	assert.Equal(t, 10.0, pa.FriendlyDamage)
	assert.Equal(t, 1, pa.Hits)
	assert.Zero(t, pa.Kills)
	assert.Equal(t, 30.0, pb.of(b).DamageTaken)
	assert.Equal(t, 10.0, pb.of(c).DamageTaken)

	before = pb.healthSnapshot()
	b.TakeDamage(500)
	pb.attribute(a, before)
	assert.Equal(t, 1, pa.Kills)
	assert.Equal(t, 100.0, pa.DamageDealt)
	assert.Equal(t, 2, pa.Hits)
}

func TestPerfBook_ShieldedDamageIsNotCounted(t *testing.T) {
	chars := newTestCharacters(t, 2)
	pb := newPerfBook(chars)
	chars[1].Health.SetShielded(true)

	before := pb.healthSnapshot()
	chars[1].TakeDamage(40)
	pb.attribute(chars[0], before)
	assert.Zero(t, pb.of(chars[0]).DamageDealt)
	assert.Zero(t, pb.of(chars[0]).Hits)
}

func TestComputeGrade(t *testing.T) {
	t.Run("few shots", func(t *testing.T) {
		g := computeGrade(&PerfTracker{MaxHealth: 100, Shots: 2, Survived: true})
		assert.Equal(t, -1.0, g.Accuracy)
		assert.Equal(t, 55.0, g.Score)
		assert.Equal(t, "C", g.Grade)
		assert.Contains(t, g.GoodTraits, "untouched")
	})
	t.Run("deadeye", func(t *testing.T) {
		g := computeGrade(&PerfTracker{MaxHealth: 100, Shots: 4, Hits: 2, DamageDealt: 100, Kills: 1, Survived: true})
		assert.Equal(t, 0.5, g.Accuracy)
		assert.Equal(t, 100.0, g.Score)
		assert.Equal(t, "A+", g.Grade)
		assert.Contains(t, g.GoodTraits, "sharpshooter")
		assert.Contains(t, g.GoodTraits, "finisher")
	})
	t.Run("spray and pray", func(t *testing.T) {
		g := computeGrade(&PerfTracker{MaxHealth: 100, Shots: 5, TurnsHeld: 3, Survived: false, DamageTaken: 100, SelfDamage: 20})
		assert.Zero(t, g.Accuracy)
		assert.Contains(t, g.BadTraits, "wild")
		assert.Contains(t, g.BadTraits, "self_harm")
		assert.NotContains(t, g.BadTraits, "idle")
		assert.Equal(t, "F", g.Grade)
	})
	t.Run("idle", func(t *testing.T) {
		g := computeGrade(&PerfTracker{MaxHealth: 100, TurnsHeld: 2, Survived: true})
		assert.Contains(t, g.BadTraits, "idle")
	})
}

func TestPerfLetterGrade(t *testing.T) {
	cases := map[float64]string{100: "A+", 90: "A", 80: "B+", 72: "B", 65: "C+", 56: "C", 50: "D", 10: "F"}
	for score, want := range cases {
		assert.Equal(t, want, PerfLetterGrade(score), "score %.0f", score)
	}
}

func TestSessionGrades(t *testing.T) {
	tm := NewTestMatch()
	tm.Character("Blue").TakeDamage(1000)
	tm.RunTicks(1)

	grades := tm.Grades()
	require.Len(t, grades, 2)
	assert.Equal(t, "blue", grades[0].Team)
	assert.False(t, grades[0].Survived)
	assert.True(t, grades[1].Survived)

	out := FormatGrades(grades)
	assert.Contains(t, out, "BLUE")
	assert.Contains(t, out, "KIA")
	assert.Contains(t, FormatGradesSummary(grades), "RED: avg_score=")
	assert.Equal(t, 1, tm.Perf(tm.Character("Red")).TurnsHeld)
}
