package game

import "fmt"

// Damageable is anything an explosion or direct hit can hurt.
type Damageable interface {
	TakeDamage(amount float64)
}

// Health tracks hit points, the shield flag and death.
type Health struct {
	max      float64
	current  float64
	dead     bool
	shielded bool

	changed []func(value float64)
	died    []func()
	// OnBlocked fires when the shield absorbs a hit.
	OnBlocked func(amount float64)
}

// NewHealth starts at full health.
func NewHealth(maxHP float64) (*Health, error) {
	if !(maxHP > 0) {
		return nil, fmt.Errorf("%w: max health %.1f must be > 0", ErrInvalidConfig, maxHP)
	}
	return &Health{max: maxHP, current: maxHP}, nil
}

func (h *Health) Current() float64 { return h.current }
func (h *Health) Max() float64     { return h.max }
func (h *Health) Dead() bool       { return h.dead }
func (h *Health) Shielded() bool   { return h.shielded }

// Fraction returns current/max in [0, 1].
func (h *Health) Fraction() float64 { return h.current / h.max }

// OnHealthChanged registers fn and immediately reports the current value.
func (h *Health) OnHealthChanged(fn func(value float64)) {
	if fn == nil {
		return
	}
	h.changed = append(h.changed, fn)
	fn(h.current)
}

// OnDeath registers fn; it fires at most once.
func (h *Health) OnDeath(fn func()) {
	if fn != nil {
		h.died = append(h.died, fn)
	}
}

// SetShielded raises or drops the shield.
func (h *Health) SetShielded(v bool) { h.shielded = v }

// TakeDamage subtracts amount, clamped to [0, max]. Dead or shielded
// characters ignore it. Negative amounts heal.
func (h *Health) TakeDamage(amount float64) {
	if h.dead || amount == 0 {
		return
	}
	if h.shielded && amount > 0 {
		if h.OnBlocked != nil {
			h.OnBlocked(amount)
		}
		return
	}
	h.current = max(0, min(h.max, h.current-amount))
	for _, fn := range h.changed {
		fn(h.current)
	}
	if h.current <= 0 {
		h.dead = true
		for _, fn := range h.died {
			fn()
		}
	}
}
