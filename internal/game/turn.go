package game

import "fmt"

// dangerThreshold is when the turn timer turns red.
const dangerThreshold = 5.0

// TimerObserver receives the turn timer every frame.
type TimerObserver func(remaining, maxTime float64)

// TurnController owns the character order and is the only writer of the
// active flag.
type TurnController struct {
	chars    []*Character
	current  int
	duration float64
	timer    float64
	started  bool

	timerObservers []TimerObserver
	// OnActivate fires after a character becomes active.
	OnActivate func(prev, next *Character)
}

// NewTurnController requires at least one character and a positive duration.
func NewTurnController(chars []*Character, turnDuration float64) (*TurnController, error) {
	if len(chars) == 0 {
		return nil, ErrNoCharacters
	}
	if !(turnDuration > 0) {
		return nil, fmt.Errorf("%w: turn duration %.2f", ErrInvalidConfig, turnDuration)
	}
	for i, c := range chars {
		c.Index = i
	}
	return &TurnController{chars: chars, duration: turnDuration, timer: turnDuration}, nil
}

// Start activates the first living character.
func (tc *TurnController) Start() bool {
	for i, c := range tc.chars {
		if c.Alive() {
			return tc.Activate(i)
		}
	}
	return false
}

// ObserveTimer registers fn for per-frame timer updates.
func (tc *TurnController) ObserveTimer(fn TimerObserver) {
	if fn != nil {
		tc.timerObservers = append(tc.timerObservers, fn)
	}
}

func (tc *TurnController) Characters() []*Character { return tc.chars }
func (tc *TurnController) Index() int               { return tc.current }
func (tc *TurnController) Remaining() float64       { return tc.timer }
func (tc *TurnController) Duration() float64        { return tc.duration }
func (tc *TurnController) Started() bool            { return tc.started }

// Danger reports whether the timer is in its final seconds.
func (tc *TurnController) Danger() bool { return tc.timer <= dangerThreshold }

// Current returns the active character.
func (tc *TurnController) Current() *Character { return tc.chars[tc.current] }

// Activate makes chars[i] the active character and resets its per-turn
// state. Invalid indices and dead characters are rejected.
func (tc *TurnController) Activate(i int) bool {
	if i < 0 || i >= len(tc.chars) || !tc.chars[i].Alive() {
		return false
	}
	prev := tc.chars[tc.current]
	prev.Gravity.setActive(false)
	prev.Gravity.ZeroTangentialVelocity()

	tc.current = i
	next := tc.chars[i]
	next.Gravity.setActive(true)
	next.onTurnStart()
	next.Resources().resetTurnGate()
	for _, r := range next.Resettables() {
		r.ResetCooldown()
	}
	tc.timer = tc.duration
	tc.started = true
	if tc.OnActivate != nil {
		tc.OnActivate(prev, next)
	}
	tc.notifyTimer()
	return true
}

// Advance moves to the next living character in order, (current+1) mod N
// when everyone is alive. It fails when no other character is alive.
func (tc *TurnController) Advance() bool {
	n := len(tc.chars)
	for k := 1; k < n; k++ {
		j := (tc.current + k) % n
		if tc.chars[j].Alive() {
			return tc.Activate(j)
		}
	}
	return false
}

// Tick runs the turn timer. It only counts while more than one character is
// registered and advances automatically at zero.
func (tc *TurnController) Tick(dt float64) {
	if !tc.started {
		return
	}
	if len(tc.chars) > 1 {
		tc.timer -= dt
		if tc.timer <= 0 {
			tc.timer = 0
			if tc.Advance() {
				return
			}
			tc.timer = tc.duration
		}
	}
	tc.notifyTimer()
}

func (tc *TurnController) notifyTimer() {
	for _, fn := range tc.timerObservers {
		fn(tc.timer, tc.duration)
	}
}
