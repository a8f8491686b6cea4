package game

import (
	"fmt"
	"sort"
	"strings"
)

// Performance grading thresholds.
const (
	perfMinShots       = 3
	perfSharpshooter   = 0.5 // hit rate
	perfHeavyHitter    = 0.5 // damage dealt per shot, as a fraction of max health
	perfBaseScore      = 40.0
	perfSurvivalBonus  = 15.0
	perfKillBonus      = 10.0
	perfSelfHarmWeight = 0.5
)

// ---------------------------------------------------------------------------
// Tracking
// ---------------------------------------------------------------------------

// PerfTracker accumulates what one character did and suffered in a match.
type PerfTracker struct {
	Label     string
	Team      string
	MaxHealth float64

	TurnsHeld int
	Shots     int // projectiles released
	Skills    int // instant abilities used
	Jumps     int

	Hits           int // projectiles that damaged an enemy
	Kills          int
	DamageDealt    float64
	FriendlyDamage float64
	SelfDamage     float64
	DamageTaken    float64

	Survived bool
}

// perfBook keeps trackers in character order.
type perfBook struct {
	order    []*Character
	trackers map[*Character]*PerfTracker
}

func newPerfBook(chars []*Character) *perfBook {
	pb := &perfBook{trackers: make(map[*Character]*PerfTracker, len(chars))}
	for _, c := range chars {
		pb.add(c)
	}
	return pb
}

func (pb *perfBook) add(c *Character) *PerfTracker {
	pt := &PerfTracker{Label: c.Label(), Team: c.Team, MaxHealth: c.Health.Max(), Survived: true}
	pb.order = append(pb.order, c)
	pb.trackers[c] = pt
	return pt
}

func (pb *perfBook) of(c *Character) *PerfTracker {
	if pt, ok := pb.trackers[c]; ok {
		return pt
	}
	return pb.add(c)
}

// healthSnapshot records current health so a blast can be attributed.
func (pb *perfBook) healthSnapshot() map[*Character]float64 {
	snap := make(map[*Character]float64, len(pb.order))
	for _, c := range pb.order {
		snap[c] = c.Health.Current()
	}
	return snap
}

// attribute charges the health lost since before to owner.
func (pb *perfBook) attribute(owner *Character, before map[*Character]float64) {
	hit := false
	for _, c := range pb.order {
		lost := before[c] - c.Health.Current()
		if lost <= 0 {
			continue
		}
		pb.of(c).DamageTaken += lost
		if owner == nil {
			continue
		}
		pt := pb.of(owner)
		switch {
		case c == owner:
			pt.SelfDamage += lost
		case c.Team == owner.Team:
			pt.FriendlyDamage += lost
		default:
			pt.DamageDealt += lost
			hit = true
			if !c.Alive() {
				pt.Kills++
			}
		}
	}
	if hit {
		pb.of(owner).Hits++
	}
}

// ---------------------------------------------------------------------------
// Grading
// ---------------------------------------------------------------------------

// CharacterGrade is the computed performance grade for one character.
type CharacterGrade struct {
	Label    string
	Team     string
	Grade    string  // A+, A, B+, B, C+, C, D, F
	Score    float64 // 0-100
	Survived bool

	Accuracy    float64 // hits per shot, -1 = too few shots to judge
	DamageDealt float64
	DamageTaken float64
	Kills       int

	GoodTraits []string
	BadTraits  []string
}

// Grades computes a grade for every character of the session.
func (s *Session) Grades() []CharacterGrade {
	for _, c := range s.perf.order {
		s.perf.of(c).Survived = c.Alive()
	}
	grades := make([]CharacterGrade, 0, len(s.perf.order))
	for _, c := range s.perf.order {
		grades = append(grades, computeGrade(s.perf.of(c)))
	}
	sort.SliceStable(grades, func(i, j int) bool {
		if grades[i].Team != grades[j].Team {
			return grades[i].Team < grades[j].Team
		}
		return grades[i].Score > grades[j].Score
	})
	return grades
}

// Perf returns the raw tracker for c.
func (s *Session) Perf(c *Character) *PerfTracker { return s.perf.of(c) }

func computeGrade(pt *PerfTracker) CharacterGrade {
	g := CharacterGrade{
		Label:       pt.Label,
		Team:        pt.Team,
		Survived:    pt.Survived,
		Accuracy:    -1,
		DamageDealt: pt.DamageDealt,
		DamageTaken: pt.DamageTaken,
		Kills:       pt.Kills,
	}
	hp := max(pt.MaxHealth, 1)

	score := perfBaseScore
	score += 30 * min(pt.DamageDealt/hp, 1)
	score += perfKillBonus * float64(pt.Kills)
	score -= 20 * min((pt.SelfDamage*perfSelfHarmWeight+pt.FriendlyDamage)/hp, 1)
	score -= 15 * min(pt.DamageTaken/hp, 1)
	if pt.Survived {
		score += perfSurvivalBonus
	}
	if pt.Shots >= perfMinShots {
		g.Accuracy = perfFrac(pt.Hits, pt.Shots)
		score += 10 * g.Accuracy
	}
	g.Score = perfClamp(score)
	g.Grade = PerfLetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = perfDetectTraits(pt, g.Accuracy)
	return g
}

func perfDetectTraits(pt *PerfTracker, accuracy float64) (good, bad []string) {
	if accuracy >= perfSharpshooter {
		good = append(good, "sharpshooter")
	}
	if pt.Shots > 0 && pt.DamageDealt/float64(pt.Shots) >= perfHeavyHitter*pt.MaxHealth {
		good = append(good, "heavy_hitter")
	}
	if pt.Kills > 0 {
		good = append(good, "finisher")
	}
	if pt.Survived && pt.DamageTaken == 0 {
		good = append(good, "untouched")
	}
	if pt.Skills > 0 && pt.Survived {
		good = append(good, "resourceful")
	}

	if pt.SelfDamage > 0 {
		bad = append(bad, "self_harm")
	}
	if pt.FriendlyDamage > 0 {
		bad = append(bad, "friendly_fire")
	}
	if pt.TurnsHeld > 0 && pt.Shots == 0 && pt.Skills == 0 {
		bad = append(bad, "idle")
	}
	if accuracy >= 0 && accuracy < 0.1 {
		bad = append(bad, "wild")
	}
	return good, bad
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// FormatGrades returns a human-readable performance report.
func FormatGrades(grades []CharacterGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Character Performance Grades ===\n")

	currentTeam := ""
	for _, g := range grades {
		if g.Team != currentTeam {
			currentTeam = g.Team
			fmt.Fprintf(&sb, "\n--- %s ---\n", strings.ToUpper(g.Team))
		}

		status := "survived"
		if !g.Survived {
			status = "KIA"
		}
		acc := "n/a"
		if g.Accuracy >= 0 {
			acc = fmt.Sprintf("%.0f%%", g.Accuracy*100)
		}
		fmt.Fprintf(&sb, "  %-3s  %-8s  [%s]  dealt=%.0f  taken=%.0f  kills=%d  accuracy=%s\n",
			g.Grade, g.Label, status, g.DamageDealt, g.DamageTaken, g.Kills, acc)

		if len(g.GoodTraits) > 0 {
			fmt.Fprintf(&sb, "       Good: %s\n", strings.Join(g.GoodTraits, ", "))
		}
		if len(g.BadTraits) > 0 {
			fmt.Fprintf(&sb, "       Bad:  %s\n", strings.Join(g.BadTraits, ", "))
		}
	}

	return sb.String()
}

// FormatGradesSummary returns a compact team-level summary.
func FormatGradesSummary(grades []CharacterGrade) string {
	var sb strings.Builder

	type teamStats struct {
		count     int
		scoreSum  float64
		survived  int
		goodCount map[string]int
		badCount  map[string]int
	}
	teams := map[string]*teamStats{}
	var names []string
	for _, g := range grades {
		ts, ok := teams[g.Team]
		if !ok {
			ts = &teamStats{goodCount: map[string]int{}, badCount: map[string]int{}}
			teams[g.Team] = ts
			names = append(names, g.Team)
		}
		ts.count++
		ts.scoreSum += g.Score
		if g.Survived {
			ts.survived++
		}
		for _, t := range g.GoodTraits {
			ts.goodCount[t]++
		}
		for _, t := range g.BadTraits {
			ts.badCount[t]++
		}
	}
	sort.Strings(names)

	for _, team := range names {
		ts := teams[team]
		avg := ts.scoreSum / float64(ts.count)
		fmt.Fprintf(&sb, "  %s: avg_score=%.1f (%s)  survived=%d/%d\n",
			strings.ToUpper(team), avg, PerfLetterGrade(avg), ts.survived, ts.count)

		if len(ts.goodCount) > 0 {
			fmt.Fprintf(&sb, "    Top good: %s\n", perfTopTraits(ts.goodCount, 4))
		}
		if len(ts.badCount) > 0 {
			fmt.Fprintf(&sb, "    Top bad:  %s\n", perfTopTraits(ts.badCount, 4))
		}
	}

	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func perfFrac(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	var items []kv
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].trait < items[j].trait
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}
