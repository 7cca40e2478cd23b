package statistics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/autopilot/internal/dynamo"
)

const loopSubsystem = "loop"

// integrating is a law that exposes its accumulator.
type integrating interface {
	Integral() float64
}

// wrapping is a law decorator that hands out the law it wraps.
type wrapping interface {
	Unwrap() any
}

// integratorOf finds the accumulator of law, looking through wrappers.
func integratorOf(law any) integrating {
	for law != nil {
		if in, ok := law.(integrating); ok {
			return in
		}
		w, ok := law.(wrapping)
		if !ok {
			return nil
		}
		law = w.Unwrap()
	}
	return nil
}

// LoopCollector observes a running control loop and exports its latest tick
// as prometheus metrics. OnTick and Collect may run on different goroutines.
type LoopCollector struct {
	id  string
	law integrating

	mu       sync.Mutex
	ticks    int
	time     float64
	state    dynamo.State
	control  dynamo.Control
	integral float64
	hasInt   bool

	ticksTotal *prometheus.Desc
	simTime    *prometheus.Desc
	stateValue *prometheus.Desc
	command    *prometheus.Desc
	integ      *prometheus.Desc
}

// NewLoopCollector builds a collector for the loop named id. If law, or a
// law it wraps, exposes Integral() float64 its accumulator is exported too.
func NewLoopCollector(id string, law any) *LoopCollector {
	return &LoopCollector{
		id:  id,
		law: integratorOf(law),
		ticksTotal: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "ticks_total"),
			"Number of control ticks evaluated",
			[]string{"id"}, nil,
		),
		simTime: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "sim_time_seconds"),
			"Simulated time of the latest tick",
			[]string{"id"}, nil,
		),
		stateValue: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "state"),
			"Plant state entry at the latest tick",
			[]string{"id", "index"}, nil,
		),
		command: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "control"),
			"Command channel produced at the latest tick",
			[]string{"id", "channel"}, nil,
		),
		integ: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "integral"),
			"Integral accumulator of the law",
			[]string{"id"}, nil,
		),
	}
}

func (collector *LoopCollector) OnTick(tick int, x dynamo.State, u dynamo.Control, t float64) {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	collector.ticks = tick + 1
	collector.time = t
	collector.state = x.Clone()
	collector.control = append(collector.control[:0], u...)
	if collector.law != nil {
		collector.integral = collector.law.Integral()
		collector.hasInt = true
	}
}

func (collector *LoopCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.ticksTotal
	ch <- collector.simTime
	ch <- collector.stateValue
	ch <- collector.command
	ch <- collector.integ
}

// Collect implements required collect function for all prometheus collectors
func (collector *LoopCollector) Collect(ch chan<- prometheus.Metric) {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	id := collector.id
	ch <- prometheus.MustNewConstMetric(collector.ticksTotal, prometheus.CounterValue, float64(collector.ticks), id)
	ch <- prometheus.MustNewConstMetric(collector.simTime, prometheus.GaugeValue, collector.time, id)
	for i, v := range collector.state {
		ch <- prometheus.MustNewConstMetric(collector.stateValue, prometheus.GaugeValue, v, id, strconv.Itoa(i))
	}
	for i, v := range collector.control {
		ch <- prometheus.MustNewConstMetric(collector.command, prometheus.GaugeValue, v, id, strconv.Itoa(i))
	}
	if collector.hasInt {
		ch <- prometheus.MustNewConstMetric(collector.integ, prometheus.GaugeValue, collector.integral, id)
	}
}

// Snapshot returns the latest tick count and simulated time, with the state
// the law saw on that tick and the command it produced.
func (collector *LoopCollector) Snapshot() (ticks int, t float64, x dynamo.State, u dynamo.Control) {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	return collector.ticks, collector.time, collector.state.Clone(), append(dynamo.Control(nil), collector.control...)
}
