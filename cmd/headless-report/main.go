package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Gravity-Siege/internal/game"
	"github.com/atotto/clipboard"
)

// stalemateDamagePerTurn is the average damage per turn below which an
// unfinished match counts as a stalemate rather than a close fight.
const stalemateDamagePerTurn = 2.0

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	result game.MatchResult

	firstShotTick  int
	firstHitTick   int
	firstDeathTick int

	turns       int
	shots       int
	explosions  int
	jumps       int
	blocks      int
	totalDamage float64
	carved      int

	survivors map[string]int // team → living characters at the end
	totals    map[string]int // team → characters

	windowSummary *game.WindowReport
	grades        []game.CharacterGrade
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var levelPath string
	var copyOut bool
	var dumpMetrics bool

	flag.IntVar(&runs, "runs", 5, "number of headless bot-vs-bot matches")
	flag.IntVar(&ticks, "ticks", 36000, "max ticks per match")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&levelPath, "level", "", "level file (default: embedded level)")
	flag.BoolVar(&copyOut, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&dumpMetrics, "metrics", false, "print Prometheus metrics text of the last run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	lvl, err := game.LoadLevel(levelPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	var buf bytes.Buffer
	out := io.MultiWriter(os.Stdout, &buf)

	fmt.Fprintf(out, "=== Headless Match Report ===\n")
	fmt.Fprintf(out, "level=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", lvl.Name, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	var last *game.Session
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, s, err := runMatch(lvl, i+1, seed, ticks)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, stats)
		last = s
		printRun(out, stats)
	}
	printAggregate(out, all)

	if dumpMetrics && last != nil {
		fmt.Fprintln(out, "\n=== Metrics (last run) ===")
		if err := last.Metrics.WriteText(out); err != nil {
			fmt.Printf("error: metrics: %v\n", err)
		}
	}
	if copyOut {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			fmt.Printf("error: clipboard: %v\n", err)
		}
	}
}

// runMatch plays one bot-vs-bot match until it ends or maxTicks pass.
func runMatch(lvl *game.Level, runIndex int, seed int64, maxTicks int) (runStats, *game.Session, error) {
	s, err := game.NewSession(lvl, game.SessionOptions{TickRate: 60, Seed: seed})
	if err != nil {
		return runStats{}, nil, err
	}
	bot := game.NewBot(seed)
	reporter := game.NewSimReporter(0, false)
	for !s.Over() && s.Tick() < maxTicks {
		s.Update(bot.Next(s))
		if s.Tick()%60 == 0 {
			reporter.Collect(s)
		}
	}

	entries := s.Log.Entries()
	rs := runStats{
		runIndex:       runIndex,
		seed:           seed,
		ticks:          s.Tick(),
		result:         game.FinalizeOutcome(s.Outcome()),
		firstShotTick:  firstTick(entries, "projectile", "spawn", ""),
		firstHitTick:   firstTick(entries, "health", "changed", ""),
		firstDeathTick: firstTick(entries, "health", "death", ""),
		turns:          s.TurnCount(),
		shots:          s.Log.CountCategory("projectile", "spawn"),
		explosions:     s.Log.CountCategory("explosion", "resolve"),
		jumps:          s.Log.CountCategory("jump", ""),
		blocks:         s.Log.CountCategory("health", "shield_block"),
		survivors:      map[string]int{},
		totals:         map[string]int{},
		windowSummary:  reporter.WindowSummary(),
		grades:         s.Grades(),
	}
	for _, g := range rs.grades {
		rs.totalDamage += g.DamageTaken
	}
	for _, t := range s.Terrains {
		rs.carved += t.Carved()
	}
	for _, c := range s.Characters {
		rs.totals[c.Team]++
		if c.Alive() {
			rs.survivors[c.Team]++
		}
	}
	return rs, s, nil
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || (key != "" && e.Key != key) {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// teamSurvivalCounts returns team names in order with their totals and
// survivors.
func teamSurvivalCounts(rs runStats) (teams []string, totals, survivors []int) {
	for team := range rs.totals {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		totals = append(totals, rs.totals[team])
		survivors = append(survivors, rs.survivors[team])
	}
	return teams, totals, survivors
}

// detectStalemate flags unfinished matches where more than one team
// survived and almost no damage landed.
func detectStalemate(rs runStats) (bool, string) {
	if rs.result.Outcome != game.MatchInconclusive {
		return false, "match_decided"
	}
	teamsAlive := 0
	for _, n := range rs.survivors {
		if n > 0 {
			teamsAlive++
		}
	}
	if teamsAlive < 2 {
		return false, "single_team_left"
	}
	perTurn := rs.totalDamage / float64(max(rs.turns, 1))
	if perTurn >= stalemateDamagePerTurn {
		return false, fmt.Sprintf("damage_per_turn=%.1f", perTurn)
	}
	return true, fmt.Sprintf("low_damage_per_turn=%.1f teams_alive=%d", perTurn, teamsAlive)
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "outcome: %s winner=%s ticks=%d turns=%d\n",
		rs.result.Outcome, orNone(rs.result.Winner), rs.ticks, rs.turns)
	fmt.Fprintf(w, "phase_markers: first_shot=%d first_hit=%d first_death=%d\n",
		rs.firstShotTick, rs.firstHitTick, rs.firstDeathTick)
	fmt.Fprintf(w, "event_totals: shots=%d explosions=%d jumps=%d shield_blocks=%d damage=%.1f carved=%d\n",
		rs.shots, rs.explosions, rs.jumps, rs.blocks, rs.totalDamage, rs.carved)
	teams, totals, survivors := teamSurvivalCounts(rs)
	for i, team := range teams {
		fmt.Fprintf(w, "team %-6s survivors=%d/%d\n", team, survivors[i], totals[i])
	}
	if stale, reason := detectStalemate(rs); stale {
		fmt.Fprintf(w, "stalemate: %s\n", reason)
	}
	if rs.windowSummary != nil {
		fmt.Fprint(w, rs.windowSummary.Format())
	}
	fmt.Fprint(w, game.FormatGrades(rs.grades))
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	wins := map[string]int{}
	draws, inconclusive, stalemates := 0, 0, 0
	var totalTurns, totalShots, totalExplosions, totalTicks int
	var totalDamage float64
	deathTicks := make([]int, 0, len(all))

	for _, rs := range all {
		switch rs.result.Outcome {
		case game.MatchVictory:
			wins[rs.result.Winner]++
		case game.MatchDraw:
			draws++
		default:
			inconclusive++
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
		totalTurns += rs.turns
		totalShots += rs.shots
		totalExplosions += rs.explosions
		totalTicks += rs.ticks
		totalDamage += rs.totalDamage
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
	}

	n := len(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d draws=%d inconclusive=%d stalemates=%d\n", n, draws, inconclusive, stalemates)
	teams := make([]string, 0, len(wins))
	for team := range wins {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		fmt.Fprintf(w, "  wins %-6s %d (%.0f%%)\n", team, wins[team], float64(wins[team])/float64(n)*100)
	}
	fmt.Fprintf(w, "avg_per_run: ticks=%.1f turns=%.1f shots=%.1f explosions=%.1f damage=%.1f\n",
		avg(totalTicks, n), avg(totalTurns, n), avg(totalShots, n), avg(totalExplosions, n), totalDamage/float64(max(n, 1)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_death=%s\n", avgTickString(deathTicks))

	// Per-character aggregate performance.
	type charAgg struct {
		scoreSum float64
		count    int
		survived int
		good     map[string]int
		bad      map[string]int
	}
	aggs := map[string]*charAgg{}
	var grades []game.CharacterGrade
	for _, rs := range all {
		grades = append(grades, rs.grades...)
		for _, g := range rs.grades {
			ag, ok := aggs[g.Label]
			if !ok {
				ag = &charAgg{good: map[string]int{}, bad: map[string]int{}}
				aggs[g.Label] = ag
			}
			ag.scoreSum += g.Score
			ag.count++
			if g.Survived {
				ag.survived++
			}
			for _, t := range g.GoodTraits {
				ag.good[t]++
			}
			for _, t := range g.BadTraits {
				ag.bad[t]++
			}
		}
	}
	labels := make([]string, 0, len(aggs))
	for label := range aggs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Fprintln(w, "\n=== Aggregate Character Performance ===")
	for _, label := range labels {
		ag := aggs[label]
		avgS := ag.scoreSum / float64(ag.count)
		fmt.Fprintf(w, "  %s  %s (avg=%.1f)  survival=%.0f%%", label, game.PerfLetterGrade(avgS), avgS,
			float64(ag.survived)/float64(ag.count)*100)
		if t := topTrait(ag.good); t != "" {
			fmt.Fprintf(w, "  good=%s", t)
		}
		if t := topTrait(ag.bad); t != "" {
			fmt.Fprintf(w, "  bad=%s", t)
		}
		fmt.Fprintln(w)
	}
	if len(grades) > 0 {
		fmt.Fprintln(w, "\n--- Team Summary (across all runs) ---")
		fmt.Fprint(w, game.FormatGradesSummary(grades))
	}
}

func topTrait(counts map[string]int) string {
	best, bestN := "", 0
	for k, v := range counts {
		if v > bestN || (v == bestN && k < best) {
			best, bestN = k, v
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
