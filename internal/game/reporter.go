package game

import (
	"fmt"
	"sort"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-match reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// CharacterReport captures a single character's state.
type CharacterReport struct {
	Label     string
	Team      string
	Alive     bool
	Active    bool
	Health    float64
	Shielded  bool
	Attached  string // planet id, "" when airborne
	JumpCount int
	Ammo      [SlotCount]int
}

// TeamReport aggregates one team at one tick.
type TeamReport struct {
	Team    string
	Alive   int
	Dead    int
	Injured int // health < max but > 0
	Health  float64
}

// SimReport is a full snapshot of the match at one tick.
type SimReport struct {
	Tick        int
	Turn        int
	ActiveLabel string
	TimeLeft    float64
	Projectiles int
	Carved      int // terrain cells removed so far

	Teams []TeamReport

	// Characters detail (optional, for verbose mode).
	Characters []CharacterReport
}

// Team returns the report for name, or nil.
func (r *SimReport) Team(name string) *TeamReport {
	for i := range r.Teams {
		if r.Teams[i].Team == name {
			return &r.Teams[i]
		}
	}
	return nil
}

// --- Reporter ---

// SimReporter collects periodic reports from a session and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
	verbose     bool
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int, verbose bool) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{
		windowTicks: windowTicks,
		verbose:     verbose,
	}
}

// Collect gathers a snapshot from the current session state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(s *Session) {
	report := SimReport{
		Tick:        s.Tick(),
		Turn:        s.TurnCount(),
		ActiveLabel: s.Active().Label(),
		TimeLeft:    s.Turns.Remaining(),
		Projectiles: len(s.Projectiles()),
	}
	for _, t := range s.Terrains {
		report.Carved += t.Carved()
	}

	teams := map[string]*TeamReport{}
	for _, c := range s.Characters {
		tr, ok := teams[c.Team]
		if !ok {
			tr = &TeamReport{Team: c.Team}
			teams[c.Team] = tr
		}
		if c.Alive() {
			tr.Alive++
			tr.Health += c.Health.Current()
			if c.Health.Current() < c.Health.Max() {
				tr.Injured++
			}
		} else {
			tr.Dead++
		}
		if r.verbose {
			report.Characters = append(report.Characters, characterReport(c))
		}
	}
	for _, tr := range teams {
		report.Teams = append(report.Teams, *tr)
	}
	sort.Slice(report.Teams, func(i, j int) bool { return report.Teams[i].Team < report.Teams[j].Team })

	r.history = append(r.history, report)
}

func characterReport(c *Character) CharacterReport {
	cr := CharacterReport{
		Label:     c.Label(),
		Team:      c.Team,
		Alive:     c.Alive(),
		Active:    c.Active(),
		Health:    c.Health.Current(),
		Shielded:  c.Health.Shielded(),
		JumpCount: c.Gravity.JumpCount(),
	}
	if src := c.Gravity.Attached(); src != nil {
		cr.Attached = src.ID()
	}
	for i := SlotIndex(0); i < SlotCount; i++ {
		cr.Ammo[i] = c.Resources().Remaining(i)
	}
	return cr
}

// Latest returns the most recent report, or nil if none collected.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int
	Turns            int // activations inside the window

	AvgAlive       map[string]float64
	AvgHealth      map[string]float64
	AvgProjectiles float64
	CarvedInWindow int
}

// WindowSummary aggregates the reports that fall inside the sliding window
// ending at the latest report.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks

	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	oldest := window[len(window)-1]
	wr := &WindowReport{
		FromTick:       oldest.Tick,
		ToTick:         latest.Tick,
		SampleCount:    len(window),
		Turns:          latest.Turn - oldest.Turn,
		AvgAlive:       make(map[string]float64),
		AvgHealth:      make(map[string]float64),
		CarvedInWindow: latest.Carved - oldest.Carved,
	}
	for _, rpt := range window {
		wr.AvgProjectiles += float64(rpt.Projectiles)
		for _, tr := range rpt.Teams {
			wr.AvgAlive[tr.Team] += float64(tr.Alive)
			wr.AvgHealth[tr.Team] += tr.Health
		}
	}

	// Averages.
	wr.AvgProjectiles /= n
	for team := range wr.AvgAlive {
		wr.AvgAlive[team] /= n
		wr.AvgHealth[team] /= n
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Match Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "turns=%d  carved=%d  avg_projectiles=%.2f\n", wr.Turns, wr.CarvedInWindow, wr.AvgProjectiles)

	teams := make([]string, 0, len(wr.AvgAlive))
	for team := range wr.AvgAlive {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		fmt.Fprintf(&sb, "  %-8s avg_alive=%.2f avg_health=%.1f\n", team, wr.AvgAlive[team], wr.AvgHealth[team])
	}
	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d turn=%d active=%s left=%.1fs ---\n",
		rpt.Tick, rpt.Turn, rpt.ActiveLabel, rpt.TimeLeft)
	for _, tr := range rpt.Teams {
		fmt.Fprintf(&sb, "%-6s alive=%d dead=%d injured=%d health=%.1f\n",
			tr.Team+":", tr.Alive, tr.Dead, tr.Injured, tr.Health)
	}
	for _, c := range rpt.Characters {
		planet := c.Attached
		if planet == "" {
			planet = "air"
		}
		ammo := make([]string, 0, SlotCount)
		for i, n := range c.Ammo {
			ammo = append(ammo, SlotIndex(i).String()+"="+ammoString(n))
		}
		fmt.Fprintf(&sb, "  %-8s hp=%5.1f on=%-6s shield=%t %s\n",
			c.Label, c.Health, planet, c.Shielded, strings.Join(ammo, " "))
	}
	return sb.String()
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}
