package game

import (
	"math"
	"math/rand"
)

type botPhase int

const (
	botThink botPhase = iota
	botSelect
	botConfirm
	botPress
	botDrag
	botRelease
	botWatch
	botEndTurn
)

const (
	botAngleStep   = math.Pi / 48
	botReactFrames = 6
	botDragFrames  = 12
	botSettleTicks = 30
	botShieldBelow = 0.5 // health fraction
	botShotgunNear = 7.0
)

// botPlan is a chosen shot: which slot and the drag gesture to perform.
type botPlan struct {
	slot      SlotIndex
	dragStart Vec2
	dragEnd   Vec2
	miss      float64
}

// Bot drives the active character through the same InputFrame a human
// produces. It aims by searching drag vectors with the trajectory predictor
// for the closest approach to the nearest living enemy.
type Bot struct {
	rng      *rand.Rand
	phase    botPhase
	wait     int
	frame    int
	turn     int
	plan     botPlan
	shielded bool
}

// NewBot returns a bot with its own seeded RNG for aim jitter.
func NewBot(seed int64) *Bot {
	return &Bot{rng: rand.New(rand.NewSource(seed)), turn: -1}
}

// Next produces the input for the coming frame.
func (b *Bot) Next(s *Session) InputFrame {
	var in InputFrame
	c := s.Active()
	if s.TurnCount() != b.turn {
		b.turn = s.TurnCount()
		b.phase = botThink
		b.wait = botReactFrames
		b.shielded = false
	}
	if b.wait > 0 {
		b.wait--
		return in
	}

	switch b.phase {
	case botThink:
		target := nearestEnemy(s, c)
		if target == nil {
			b.phase = botEndTurn
			return in
		}
		if !b.shielded && c.Health.Fraction() < botShieldBelow && b.usable(c, SlotShield) {
			b.shielded = true
			b.plan = botPlan{slot: SlotShield}
		} else {
			b.plan = b.aim(s, c, target)
		}
		b.phase = botSelect
	case botSelect:
		in.Press(SlotAction(b.plan.slot))
		b.phase = botConfirm
		b.wait = botReactFrames
	case botConfirm:
		if c.Loadout.Pending() == nil {
			// Selection refused (cooldown, gate, ammo): end the turn.
			b.phase = botEndTurn
			return in
		}
		in.Press(ActionConfirm)
		b.phase = botPress
		if b.plan.slot == SlotShield || b.plan.slot == SlotSuperJump {
			b.phase = botThink
		}
		b.wait = botReactFrames
	case botPress:
		if c.Loadout.Armed() == nil {
			b.phase = botEndTurn
			return in
		}
		in.Mouse = b.plan.dragStart
		in.MousePressed = true
		in.MouseDown = true
		b.frame = 0
		b.phase = botDrag
	case botDrag:
		b.frame++
		t := float64(b.frame) / botDragFrames
		in.Mouse = b.plan.dragStart.Add(b.plan.dragEnd.Sub(b.plan.dragStart).Scale(math.Min(1, t)))
		in.MouseDown = true
		if b.frame >= botDragFrames {
			b.phase = botRelease
		}
	case botRelease:
		in.Mouse = b.plan.dragEnd
		in.MouseReleased = true
		b.phase = botWatch
		b.wait = botSettleTicks
	case botWatch:
		if len(s.Projectiles()) > 0 {
			return in
		}
		b.phase = botEndTurn
		b.wait = botSettleTicks
	case botEndTurn:
		in.Press(ActionNextTurn)
		b.wait = botReactFrames
	}
	return in
}

func (b *Bot) usable(c *Character, slot SlotIndex) bool {
	s := c.Loadout.Slot(slot)
	if s == nil || !s.canSelect() {
		return false
	}
	return true
}

// pickSlot prefers heavy weapons while they last and the shotgun up close.
func (b *Bot) pickSlot(c *Character, dist float64) SlotIndex {
	switch {
	case b.usable(c, SlotRPG):
		return SlotRPG
	case b.usable(c, SlotGrenade) && b.rng.Float64() < 0.3:
		return SlotGrenade
	case dist < botShotgunNear && b.usable(c, SlotShotgun):
		return SlotShotgun
	}
	return SlotPistol
}

// aim searches the drag space for the path that passes closest to target
// before it meets terrain.
func (b *Bot) aim(s *Session, c *Character, target *Character) botPlan {
	slot := b.pickSlot(c, c.Pos().Dist(target.Pos()))
	cfg := c.Loadout.Slot(slot).Config()
	muzzle := c.Muzzle()
	best := botPlan{slot: slot, miss: math.Inf(1)}
	jitter := (b.rng.Float64()*2 - 1) * botAngleStep
	for a := 0.0; a < 2*math.Pi; a += botAngleStep {
		dir := FromAngle(a + jitter)
		for _, frac := range []float64{0.4, 0.6, 0.8, 1.0} {
			pull := dir.Scale(cfg.Aim.MaxDragDistance * frac)
			path := s.Predictor.Predict(muzzle, pull.Scale(cfg.Aim.PowerMultiplier), cfg.Aim.TrajectoryPoints*2, cfg.Aim.TimeStep)
			miss := pathMiss(s, path, target.Pos())
			if miss < best.miss {
				best.miss = miss
				best.dragStart = muzzle
				best.dragEnd = muzzle.Sub(pull)
			}
		}
	}
	return best
}

// pathMiss is the closest the path gets to goal before entering terrain.
func pathMiss(s *Session, path []Vec2, goal Vec2) float64 {
	miss := math.Inf(1)
	for _, p := range path {
		if d := p.Dist(goal); d < miss {
			miss = d
		}
		for _, t := range s.World.Terrains() {
			if t.Solid(p) {
				return miss
			}
		}
	}
	return miss
}

func nearestEnemy(s *Session, c *Character) *Character {
	var best *Character
	bestD := math.Inf(1)
	for _, o := range s.Characters {
		if o == c || !o.Alive() || o.Team == c.Team {
			continue
		}
		if d := o.Pos().Dist(c.Pos()); d < bestD {
			best, bestD = o, d
		}
	}
	return best
}
