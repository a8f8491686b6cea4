package game

// AimTuning configures drag-to-aim weapons.
type AimTuning struct {
	MaxDragDistance  float64 `yaml:"max_drag_distance"`
	PowerMultiplier  float64 `yaml:"power_multiplier"`
	TrajectoryPoints int     `yaml:"trajectory_points"`
	TimeStep         float64 `yaml:"time_step"`
}

// DefaultAimTuning matches the stock weapon preview: 60 samples at 0.05s.
func DefaultAimTuning() AimTuning {
	return AimTuning{
		MaxDragDistance:  3,
		PowerMultiplier:  5,
		TrajectoryPoints: 60,
		TimeStep:         0.05,
	}
}

// LaunchVelocity converts a drag gesture into an initial velocity:
// pull = dragStart - current, clamped to MaxDragDistance, times power.
func (a AimTuning) LaunchVelocity(dragStart, current Vec2) Vec2 {
	pull := dragStart.Sub(current)
	return pull.ClampLen(a.MaxDragDistance).Scale(a.PowerMultiplier)
}

// TrajectoryPredictor samples a ballistic path for the aim preview. It uses
// the field's preview model (every source attracts, no radius cutoff) and
// never touches live bodies.
type TrajectoryPredictor struct {
	field *GravityField
}

func NewTrajectoryPredictor(field *GravityField) *TrajectoryPredictor {
	return &TrajectoryPredictor{field: field}
}

// Predict integrates points samples of semi-implicit Euler from start with
// initial velocity vel, step dt. The start point itself is not included.
func (tp *TrajectoryPredictor) Predict(start, vel Vec2, points int, dt float64) []Vec2 {
	if points <= 0 || dt <= 0 {
		return nil
	}
	out := make([]Vec2, 0, points)
	pos := start
	for i := 0; i < points; i++ {
		var acc Vec2
		if tp.field != nil {
			acc = tp.field.PreviewAccelerationAt(pos)
		}
		vel = vel.Add(acc.Scale(dt))
		pos = pos.Add(vel.Scale(dt))
		out = append(out, pos)
	}
	return out
}

// PredictAim is Predict driven by an AimTuning and a drag gesture.
func (tp *TrajectoryPredictor) PredictAim(aim AimTuning, start, dragStart, current Vec2) []Vec2 {
	return tp.Predict(start, aim.LaunchVelocity(dragStart, current), aim.TrajectoryPoints, aim.TimeStep)
}
