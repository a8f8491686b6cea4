package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, tm *TestMatch) {
	t.Helper()
	entries := tm.Log.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the match summary block.
func dumpSummary(t *testing.T, tm *TestMatch) {
	t.Helper()
	t.Log(tm.Log.Summary(tm.CurrentTick(), tm.Characters, tm.Turns))
}

// fakeOwner is a minimal AbilityOwner.
type fakeOwner struct {
	active bool
	res    *CharacterResources
	muzzle Vec2
}

func (o *fakeOwner) Active() bool                   { return o.active }
func (o *fakeOwner) Resources() *CharacterResources { return o.res }
func (o *fakeOwner) Muzzle() Vec2                   { return o.muzzle }

func newFakeOwner(t *testing.T, ammo [SlotCount]int) *fakeOwner {
	t.Helper()
	res, err := NewCharacterResources(ammo)
	require.NoError(t, err)
	return &fakeOwner{active: true, res: res}
}

// fakeSpawner records spawn requests.
type fakeSpawner struct {
	reqs []SpawnRequest
}

func (s *fakeSpawner) Spawn(req SpawnRequest) *Projectile {
	s.reqs = append(s.reqs, req)
	return NewProjectile(req)
}

// newTestSlot builds the stock slot i with a fake spawner and an empty field.
func newTestSlot(t *testing.T, i SlotIndex, owner AbilityOwner, sp *fakeSpawner) *AbilitySlot {
	t.Helper()
	cfg := DefaultAbilityConfigs()[i]
	deps := SlotDeps{Spawner: sp, Predictor: NewTrajectoryPredictor(NewGravityField())}
	if cfg.Mode == FireInstant {
		deps.Effect = func() {}
	}
	s, err := NewAbilitySlot(cfg, owner, deps)
	require.NoError(t, err)
	return s
}

// newTestCharacters builds n characters floating in an empty field. Teams
// alternate red/blue unless teams is given.
func newTestCharacters(t *testing.T, n int, teams ...string) []*Character {
	t.Helper()
	field := NewGravityField()
	deps := CharacterDeps{Field: field, Spawner: &fakeSpawner{}, Predictor: NewTrajectoryPredictor(field)}
	out := make([]*Character, 0, n)
	for i := 0; i < n; i++ {
		team := "red"
		if i%2 == 1 {
			team = "blue"
		}
		if i < len(teams) {
			team = teams[i]
		}
		c, err := NewCharacter(CharacterSpec{
			Name:      string(rune('A' + i)),
			Team:      team,
			Pos:       Vec2{X: float64(i) * 5},
			MaxHealth: 100,
			Ammo:      DefaultAmmo(),
			Movement:  DefaultMoveTuning(),
			Abilities: DefaultAbilityConfigs(),
		}, deps)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}
