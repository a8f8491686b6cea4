package game

// Shaker is the camera-shake collaborator.
type Shaker interface {
	Shake(duration, magnitude float64)
}

// Falloff is the linear damage/impulse scale at dist from an explosion of
// the given radius: 1 at the centre, 0 at and beyond the edge. A radius <= 0
// is a direct hit with no falloff.
func Falloff(dist, radius float64) float64 {
	if radius <= 0 {
		return 1
	}
	return 1 - Clamp01(dist/radius)
}

// ExplosionHit records what one body received.
type ExplosionHit struct {
	Body    *Body
	Falloff float64
	Impulse float64
	Damage  float64
}

// ExplosionReport summarises one resolve call.
type ExplosionReport struct {
	Center    Vec2
	Radius    float64
	Force     float64
	MaxDamage float64
	Hits      []ExplosionHit
	Carved    int
}

// TotalDamage sums the damage dealt to every hit.
func (r ExplosionReport) TotalDamage() float64 {
	var sum float64
	for _, h := range r.Hits {
		sum += h.Damage
	}
	return sum
}

// ExplosionResolver applies impulse and damage to bodies in a circle and
// forwards the raw parameters to the terrain.
type ExplosionResolver struct {
	world *World
	// OnResolved receives every report.
	OnResolved func(ExplosionReport)
}

func NewExplosionResolver(world *World) *ExplosionResolver {
	return &ExplosionResolver{world: world}
}

// Resolve hits every body overlapping the circle with force·falloff along the
// outward direction and maxDamage·falloff. Terrain near the blast receives
// (center, radius, force) verbatim.
func (er *ExplosionResolver) Resolve(center Vec2, radius, force, maxDamage float64) ExplosionReport {
	rep := ExplosionReport{Center: center, Radius: radius, Force: force, MaxDamage: maxDamage}
	for _, b := range er.world.OverlapCircle(center, radius) {
		dist := b.Pos.Dist(center)
		f := Falloff(dist, radius)
		rep.Hits = append(rep.Hits, er.apply(b, center, force*f, maxDamage*f, f))
	}
	rep.Carved = er.notifyTerrain(center, radius, force)
	er.report(rep)
	return rep
}

// ResolveDirect is the single-target mode: target takes full force and
// damage with no falloff. Terrain is still notified with a zero radius.
func (er *ExplosionResolver) ResolveDirect(center Vec2, target *Body, force, damage float64) ExplosionReport {
	rep := ExplosionReport{Center: center, Force: force, MaxDamage: damage}
	if target != nil && !target.Removed() {
		rep.Hits = append(rep.Hits, er.apply(target, center, force, damage, 1))
	}
	rep.Carved = er.notifyTerrain(center, 0, force)
	er.report(rep)
	return rep
}

func (er *ExplosionResolver) apply(b *Body, center Vec2, impulse, damage, falloff float64) ExplosionHit {
	if dir := b.Pos.Sub(center).Normalized(); !dir.IsZero() && impulse != 0 {
		b.AddImpulse(dir.Scale(impulse))
	}
	if d, ok := b.Payload.(Damageable); ok && damage > 0 {
		d.TakeDamage(damage)
	}
	return ExplosionHit{Body: b, Falloff: falloff, Impulse: impulse, Damage: damage}
}

func (er *ExplosionResolver) notifyTerrain(center Vec2, radius, force float64) int {
	carved := 0
	for _, t := range er.world.Terrains() {
		if center.Dist(t.Center) > t.Radius()+max(radius, 0) {
			continue
		}
		carved += t.ExplodeWithForce(center, radius, force)
	}
	return carved
}

func (er *ExplosionResolver) report(rep ExplosionReport) {
	if er.OnResolved != nil {
		er.OnResolved(rep)
	}
}
