package game

import "fmt"

type MatchOutcome int

const (
	MatchInProgress MatchOutcome = iota
	MatchVictory
	MatchDraw
	MatchInconclusive
)

func (o MatchOutcome) String() string {
	switch o {
	case MatchInProgress:
		return "in_progress"
	case MatchVictory:
		return "victory"
	case MatchDraw:
		return "draw"
	case MatchInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type MatchResult struct {
	Outcome     MatchOutcome
	Winner      string // team name on victory
	Survivors   int
	Total       int
	Teams       int // teams with at least one survivor
	Description string
}

// DetermineMatchOutcome decides the match from who is still alive: one team
// left wins, nobody left is a draw, otherwise the match goes on.
func DetermineMatchOutcome(chars []*Character) MatchResult {
	res := MatchResult{Total: len(chars)}
	alive := map[string]int{}
	var order []string
	for _, c := range chars {
		if !c.Alive() {
			continue
		}
		res.Survivors++
		if alive[c.Team] == 0 {
			order = append(order, c.Team)
		}
		alive[c.Team]++
	}
	res.Teams = len(order)

	switch {
	case res.Total == 0:
		res.Outcome = MatchInconclusive
		res.Description = "no_characters"
	case res.Teams == 0:
		res.Outcome = MatchDraw
		res.Description = "draw_all_eliminated"
	case res.Teams == 1 && countTeams(chars) > 1:
		res.Outcome = MatchVictory
		res.Winner = order[0]
		res.Description = fmt.Sprintf("%s_victory_last_standing", order[0])
	default:
		res.Outcome = MatchInProgress
		res.Description = fmt.Sprintf("in_progress_%d_teams_alive", res.Teams)
	}
	return res
}

// FinalizeOutcome turns an unfinished match into an inconclusive result when
// a run is cut off.
func FinalizeOutcome(res MatchResult) MatchResult {
	if res.Outcome == MatchInProgress {
		res.Outcome = MatchInconclusive
		res.Description = fmt.Sprintf("inconclusive_%d_teams_alive", res.Teams)
	}
	return res
}

func countTeams(chars []*Character) int {
	seen := map[string]bool{}
	for _, c := range chars {
		seen[c.Team] = true
	}
	return len(seen)
}
