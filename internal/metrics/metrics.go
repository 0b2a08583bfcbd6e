// Package metrics exports engine, history and snapshot store events as
// Prometheus metrics by implementing the observability hooks.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/raytone/pkg/observability"
)

const namespace = "raytone"

// Metrics holds the collectors. Create it once per registry with [New].
type Metrics struct {
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	liveUnits    prometheus.Gauge
	units        *prometheus.GaugeVec
	spawns       *prometheus.CounterVec
	destroys     *prometheus.CounterVec
	connects     *prometheus.CounterVec
	cycles       *prometheus.CounterVec
	commands     *prometheus.CounterVec
	storeOps     *prometheus.CounterVec
	storeBytes   *prometheus.CounterVec
}

var (
	_ observability.EngineHooks  = (*Metrics)(nil)
	_ observability.HistoryHooks = (*Metrics)(nil)
	_ observability.StoreHooks   = (*Metrics)(nil)
)

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "ticks_total",
			Help:      "Control-rate ticks run",
		}),
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "tick_duration_seconds",
			Help:      "Time spent stepping every unit in one tick",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		liveUnits: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "stepped_units",
			Help:      "Units stepped by the last tick",
		}),
		units: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "units",
			Help:      "Live units by kind",
		}, []string{"kind"}),
		spawns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "spawns_total",
			Help:      "Spawn attempts by kind and status",
		}, []string{"kind", "status"}),
		destroys: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "destroys_total",
			Help:      "Units destroyed by kind",
		}, []string{"kind"}),
		connects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "connects_total",
			Help:      "Connection attempts by socket type and status",
		}, []string{"type", "status"}),
		cycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "cycles_total",
			Help:      "Re-entrant evaluations cut short, by kind",
		}, []string{"kind"}),
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "operations_total",
			Help:      "History operations by op (record, undo, redo)",
		}, []string{"op"}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Snapshot store operations by backend and result",
		}, []string{"backend", "result"}),
		storeBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the snapshot store by backend",
		}, []string{"backend"}),
	}
}

// Hooks returns a hook bundle reporting to m.
func (m *Metrics) Hooks() observability.Hooks {
	return observability.Hooks{Engine: m, History: m, Store: m}
}

func (m *Metrics) OnTick(units int, d time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
	m.liveUnits.Set(float64(units))
}

func (m *Metrics) OnSpawn(kind, _ string, err error) {
	m.spawns.WithLabelValues(kind, status(err)).Inc()
	if err == nil {
		m.units.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) OnDestroy(kind string) {
	m.destroys.WithLabelValues(kind).Inc()
	m.units.WithLabelValues(kind).Dec()
}

func (m *Metrics) OnConnect(signal bool, err error) {
	typ := "control"
	if signal {
		typ = "signal"
	}
	m.connects.WithLabelValues(typ, status(err)).Inc()
}

func (m *Metrics) OnCycle(kind string) { m.cycles.WithLabelValues(kind).Inc() }

func (m *Metrics) OnCommand(_, op string) { m.commands.WithLabelValues(op).Inc() }

func (m *Metrics) OnStoreHit(_ context.Context, backend string) {
	m.storeOps.WithLabelValues(backend, "hit").Inc()
}

func (m *Metrics) OnStoreMiss(_ context.Context, backend string) {
	m.storeOps.WithLabelValues(backend, "miss").Inc()
}

func (m *Metrics) OnStorePut(_ context.Context, backend string, size int) {
	m.storeOps.WithLabelValues(backend, "put").Inc()
	m.storeBytes.WithLabelValues(backend).Add(float64(size))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
