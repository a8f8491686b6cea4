package game

import (
	"fmt"
	"math/rand"
)

// SessionOptions are the process-level inputs to a session.
type SessionOptions struct {
	TickRate     int
	TurnDuration float64 // 0 = level value
	Seed         int64
	Verbose      bool
	MetricsNS    string
	Metrics      *Metrics // shared across sessions when set; MetricsNS is then ignored
	Shaker       Shaker
}

// Session owns one match: the gravity field, physics world, terrain,
// characters, turn order and the services they share. One logic pass and one
// fixed physics pass run per Update.
type Session struct {
	Level      *Level
	Field      *GravityField
	World      *World
	Terrains   map[string]*DestructibleTerrain
	Predictor  *TrajectoryPredictor
	Resolver   *ExplosionResolver
	Turns      *TurnController
	Characters []*Character

	Log     *SimLog
	Feed    *EventFeed
	Metrics *Metrics

	projectiles []*Projectile
	perf        *perfBook
	preview     []Vec2
	shaker      Shaker
	rng         *rand.Rand
	dt          float64
	tick        int
	turns       int
	outcome     MatchResult
	timerDanger bool
}

// NewSession builds a match from a level.
func NewSession(lvl *Level, opts SessionOptions) (*Session, error) {
	if lvl == nil {
		return nil, fmt.Errorf("%w: nil level", ErrInvalidConfig)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	s := &Session{
		Level:    lvl,
		Field:    NewGravityField(),
		Terrains: make(map[string]*DestructibleTerrain),
		Log:      NewSimLog(opts.Verbose),
		Feed:     NewEventFeed(),
		Metrics:  opts.Metrics,
		shaker:   opts.Shaker,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		dt:       1 / float64(opts.TickRate),
	}
	if s.Metrics == nil {
		s.Metrics = NewMetrics(opts.MetricsNS)
	}
	s.World = NewWorld(s.Field)
	s.Predictor = NewTrajectoryPredictor(s.Field)
	s.Resolver = NewExplosionResolver(s.World)
	s.Resolver.OnResolved = s.onExplosion

	for _, p := range lvl.Planets {
		src, err := NewGravitySource(p.sourceSpec())
		if err != nil {
			return nil, err
		}
		if err := s.Field.Register(src); err != nil {
			return nil, err
		}
		t, err := NewDestructibleTerrain(p.terrainSpec())
		if err != nil {
			return nil, err
		}
		s.Terrains[p.ID] = t
		s.World.AddTerrain(t)
	}

	deps := CharacterDeps{Field: s.Field, Spawner: s, Predictor: s.Predictor, Rand: s.rng}
	for _, def := range lvl.Characters {
		spec, err := lvl.characterSpec(def, s.Terrains[def.Planet])
		if err != nil {
			return nil, err
		}
		c, err := NewCharacter(spec, deps)
		if err != nil {
			return nil, err
		}
		s.wireCharacter(c)
		s.World.AddBody(c.Body)
		s.Characters = append(s.Characters, c)
	}

	s.perf = newPerfBook(s.Characters)

	duration := lvl.TurnDuration
	if opts.TurnDuration > 0 {
		duration = opts.TurnDuration
	}
	turns, err := NewTurnController(s.Characters, duration)
	if err != nil {
		return nil, err
	}
	s.Turns = turns
	turns.OnActivate = s.onActivate
	turns.ObserveTimer(s.onTimer)
	s.Metrics.SetAlive(len(s.Characters))
	turns.Start()
	return s, nil
}

// wireCharacter hooks a character's notifications into the log, feed and
// metrics.
func (s *Session) wireCharacter(c *Character) {
	c.Gravity.OnJump = func(ev JumpEvent) {
		s.Metrics.Jumped(ev.Kind)
		s.perf.of(c).Jumps++
		s.record(c, "jump", ev.Kind.String(), fmt.Sprintf("impulse=%.1f super=%t", ev.Impulse, ev.Super), ev.Impulse)
	}
	c.Gravity.OnAttach = func(prev, next *GravitySource) {
		from, to := "--", "--"
		if prev != nil {
			from = prev.ID()
		}
		if next != nil {
			to = next.ID()
		}
		s.Log.AddVerbose(s.tick, c.Label(), c.Team, "gravity", "attach", from+" → "+to, 0)
	}
	c.Health.OnHealthChanged(func(v float64) {
		if s.tick > 0 {
			s.record(c, "health", "changed", fmt.Sprintf("%.1f/%.0f", v, c.Health.Max()), v)
		}
	})
	c.Health.OnBlocked = func(amount float64) {
		s.record(c, "health", "shield_block", fmt.Sprintf("blocked %.1f", amount), amount)
	}
	c.Health.OnDeath(func() {
		s.World.RemoveBody(c.Body)
		s.Metrics.Died()
		s.Metrics.SetAlive(s.aliveCount())
		s.record(c, "health", "death", "eliminated", 0)
	})
	c.Resources().Observe(ResourceObserverFunc(func(slot SlotIndex, remaining int) {
		s.Log.AddVerbose(s.tick, c.Label(), c.Team, "ability", "ammo", fmt.Sprintf("%s=%s", slot, ammoString(remaining)), float64(remaining))
	}))
	for _, slot := range c.Loadout.Slots() {
		slot.OnStateChange = func(i SlotIndex, from, to SlotState) {
			if to == SlotArmed {
				s.Metrics.Confirmed(i)
			}
			s.Log.Add(s.tick, c.Label(), c.Team, "ability", to.String(), fmt.Sprintf("%s %s → %s", i, from, to), float64(c.Resources().Remaining(i)))
		}
		slot.OnFire = func(i SlotIndex, shots int) {
			if pt := s.perf.of(c); c.Loadout.Slot(i).Config().Mode == FireInstant {
				pt.Skills++
			} else {
				pt.Shots += shots
			}
			s.record(c, "ability", "fire", fmt.Sprintf("%s x%d", i, shots), float64(shots))
		}
	}
}

func (s *Session) record(c *Character, category, key, value string, num float64) {
	s.Log.Add(s.tick, c.Label(), c.Team, category, key, value, num)
	s.Feed.Add(s.tick, c.Label(), c.Team, key+" "+value)
}

func (s *Session) onActivate(prev, next *Character) {
	s.turns++
	s.Metrics.TurnStarted()
	s.perf.of(next).TurnsHeld++
	s.preview = nil
	s.timerDanger = false
	s.record(next, "turn", "activate", fmt.Sprintf("from %s", prev.Label()), float64(next.Index))
}

func (s *Session) onTimer(remaining, limit float64) {
	s.Log.AddVerbose(s.tick, "--", "--", "turn", "timer", fmt.Sprintf("%.2f/%.0f", remaining, limit), remaining)
	if danger := remaining <= dangerThreshold; danger && !s.timerDanger && s.Turns.Started() {
		s.timerDanger = true
		s.Log.Add(s.tick, s.Turns.Current().Label(), s.Turns.Current().Team, "turn", "danger", fmt.Sprintf("%.1fs left", remaining), remaining)
	}
}

func (s *Session) onExplosion(rep ExplosionReport) {
	s.Metrics.Exploded(rep)
	s.Log.Add(s.tick, "--", "--", "explosion", "resolve",
		fmt.Sprintf("at (%.2f,%.2f) r=%.2f hits=%d carved=%d", rep.Center.X, rep.Center.Y, rep.Radius, len(rep.Hits), rep.Carved),
		rep.TotalDamage())
	if rep.Carved > 0 {
		s.Log.Add(s.tick, "--", "--", "terrain", "carve", fmt.Sprintf("%d cells", rep.Carved), float64(rep.Carved))
	}
}

// Spawn implements ProjectileSpawner.
func (s *Session) Spawn(req SpawnRequest) *Projectile {
	p := NewProjectile(req)
	s.World.AddBody(p.Body)
	s.projectiles = append(s.projectiles, p)
	s.Metrics.Fired(req.Slot, 1)
	if c, ok := req.Owner.(*Character); ok {
		s.Log.Add(s.tick, c.Label(), c.Team, "projectile", "spawn",
			fmt.Sprintf("%s vel=(%.2f,%.2f)", req.Spec.Kind, req.Vel.X, req.Vel.Y), req.Vel.Len())
	}
	return p
}

func (s *Session) Tick() int                  { return s.tick }
func (s *Session) DT() float64                { return s.dt }
func (s *Session) Projectiles() []*Projectile { return s.projectiles }
func (s *Session) Preview() []Vec2            { return s.preview }
func (s *Session) Outcome() MatchResult       { return s.outcome }
func (s *Session) Over() bool                 { return s.outcome.Outcome != MatchInProgress }

// TurnCount is the number of activations so far, including the first.
func (s *Session) TurnCount() int { return s.turns }

// Active returns the character holding the turn.
func (s *Session) Active() *Character { return s.Turns.Current() }

// Update runs one frame: the input/logic pass, then one fixed physics step.
func (s *Session) Update(in InputFrame) {
	if s.Over() {
		return
	}
	s.tick++
	s.logicPass(in)
	s.physicsPass()
	s.outcome = DetermineMatchOutcome(s.Characters)
	if s.Over() {
		s.Log.Add(s.tick, "--", "--", "match", s.outcome.Outcome.String(), s.outcome.Description, float64(s.outcome.Survivors))
		s.Feed.Add(s.tick, "--", s.outcome.Winner, s.outcome.Description)
	}
}

func (s *Session) logicPass(in InputFrame) {
	if in.Pressed(ActionNextTurn) {
		s.Turns.Advance()
	}
	c := s.Turns.Current()
	lo := c.Loadout
	for i := SlotIndex(0); i < SlotCount; i++ {
		if in.Pressed(SlotAction(i)) {
			lo.Select(i)
		}
	}
	if in.Pressed(ActionConfirm) {
		lo.Confirm()
	}
	if in.Pressed(ActionCancel) {
		lo.Cancel()
	}
	if in.MousePressed {
		lo.BeginDrag(in.Mouse)
	}
	if armed := lo.Armed(); armed != nil && armed.Dragging() {
		s.preview = lo.UpdateDrag(in.Mouse)
		if in.MouseReleased || !in.MouseDown {
			lo.Release(in.Mouse)
			s.preview = nil
		}
	} else {
		s.preview = nil
	}

	c.Gravity.SetHorizontal(in.Horizontal)
	if in.Pressed(ActionJump) {
		c.Gravity.Jump()
	}

	c.Gravity.Tick(s.dt)
	for _, ch := range s.Characters {
		ch.Loadout.Tick(s.dt)
	}
	s.Turns.Tick(s.dt)
}

func (s *Session) physicsPass() {
	for _, c := range s.Characters {
		if c.Alive() {
			c.Gravity.FixedStep(s.dt)
		}
	}
	for _, p := range s.projectiles {
		switch p.Advance(s.dt) {
		case ProjectileFuseDone:
			s.detonate(p, nil)
		case ProjectileExpired:
			p.finish()
			s.World.RemoveBody(p.Body)
			s.Log.AddVerbose(s.tick, "--", "--", "projectile", "expired", p.Spec.Kind, p.age)
		}
	}

	for _, ct := range s.World.Step(s.dt) {
		p, other := projectileOf(ct)
		if p == nil || !p.Hits(other, ownerBody(p)) {
			continue
		}
		s.detonate(p, other)
	}

	kept := s.projectiles[:0]
	for _, p := range s.projectiles {
		if !p.done {
			kept = append(kept, p)
		}
	}
	s.projectiles = kept

	if !s.Turns.Current().Alive() {
		s.Turns.Advance()
	}
}

// projectileOf picks the projectile side of a contact and the body it hit
// (nil for terrain).
func projectileOf(ct Contact) (*Projectile, *Body) {
	if p, ok := ct.A.Payload.(*Projectile); ok {
		return p, ct.B
	}
	if ct.B != nil {
		if p, ok := ct.B.Payload.(*Projectile); ok {
			return p, ct.A
		}
	}
	return nil, nil
}

func ownerBody(p *Projectile) *Body {
	if c, ok := p.Owner.(*Character); ok {
		return c.Body
	}
	return nil
}

// detonate resolves a projectile's payload at its position. hit is the body
// it struck, or nil for terrain and fuse expiry.
func (s *Session) detonate(p *Projectile, hit *Body) {
	p.finish()
	s.World.RemoveBody(p.Body)
	spec := p.Spec
	at := p.Body.Pos
	before := s.perf.healthSnapshot()
	if spec.ExplosionRadius <= 0 && hit != nil {
		s.Resolver.ResolveDirect(at, hit, spec.ExplosionForce, spec.MaxDamage)
	} else {
		s.Resolver.Resolve(at, spec.ExplosionRadius, spec.ExplosionForce, spec.MaxDamage)
	}
	owner, _ := p.Owner.(*Character)
	s.perf.attribute(owner, before)
	if spec.ShakeDuration > 0 && s.shaker != nil {
		s.shaker.Shake(spec.ShakeDuration, spec.ShakeMagnitude)
	}
	s.Log.Add(s.tick, "--", "--", "projectile", "impact", fmt.Sprintf("%s at (%.2f,%.2f)", spec.Kind, at.X, at.Y), p.age)
}

func (s *Session) aliveCount() int {
	n := 0
	for _, c := range s.Characters {
		if c.Alive() {
			n++
		}
	}
	return n
}
