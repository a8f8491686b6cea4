package game

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const defaultMetricsNamespace = "gravsiege"

// Metrics are per-session Prometheus collectors on a private registry, so
// several sessions (tests, headless runs) never collide.
type Metrics struct {
	Registry *prometheus.Registry

	turns       prometheus.Counter
	confirms    *prometheus.CounterVec
	shots       *prometheus.CounterVec
	jumps       *prometheus.CounterVec
	explosions  prometheus.Counter
	damage      prometheus.Counter
	cellsCarved prometheus.Counter
	deaths      prometheus.Counter
	alive       prometheus.Gauge
}

// NewMetrics registers every collector under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultMetricsNamespace
	}
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Character activations.",
		}),
		confirms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ability_confirms_total",
			Help:      "Confirmed ability selections per slot.",
		}, []string{"slot"}),
		shots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projectiles_spawned_total",
			Help:      "Projectiles launched per slot.",
		}, []string{"slot"}),
		jumps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jumps_total",
			Help:      "Jumps performed per kind.",
		}, []string{"kind"}),
		explosions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explosions_total",
			Help:      "Resolved explosions and direct hits.",
		}),
		damage: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "damage_dealt_total",
			Help:      "Damage handed to damageable bodies.",
		}),
		cellsCarved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terrain_cells_carved_total",
			Help:      "Terrain cells destroyed by explosions.",
		}),
		deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deaths_total",
			Help:      "Characters killed.",
		}),
		alive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "characters_alive",
			Help:      "Characters still alive.",
		}),
	}
	m.Registry.MustRegister(m.turns, m.confirms, m.shots, m.jumps, m.explosions,
		m.damage, m.cellsCarved, m.deaths, m.alive)
	return m
}

func (m *Metrics) TurnStarted()                { m.turns.Inc() }
func (m *Metrics) Confirmed(slot SlotIndex)    { m.confirms.WithLabelValues(slot.String()).Inc() }
func (m *Metrics) Fired(slot SlotIndex, n int) { m.shots.WithLabelValues(slot.String()).Add(float64(n)) }
func (m *Metrics) Jumped(kind JumpKind)        { m.jumps.WithLabelValues(kind.String()).Inc() }
func (m *Metrics) Died()                       { m.deaths.Inc() }
func (m *Metrics) SetAlive(n int)              { m.alive.Set(float64(n)) }

// Exploded records one resolved explosion.
func (m *Metrics) Exploded(rep ExplosionReport) {
	m.explosions.Inc()
	m.damage.Add(rep.TotalDamage())
	m.cellsCarved.Add(float64(rep.Carved))
}

// WriteText dumps every metric family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
