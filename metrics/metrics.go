// Package metrics exposes Prometheus counters for query compilation and the
// document value operators.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "termxml"

// Label values.
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultNoMatch  = "no_match"
	ResultError    = "error"
	OutcomeOK      = "ok"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// Metrics holds the counters shared by the compiler and the document
// operators. A nil *Metrics is valid and records nothing.
type Metrics struct {
	compiles   *prometheus.CounterVec
	operations *prometheus.CounterVec
	mutated    *prometheus.CounterVec
}

// New creates the counters and registers them with reg. Counters already
// registered by an earlier call are reused, so several instances can share
// one registry. A nil reg skips registration.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "compile_total",
			Help:      "Pointer compilations by result.",
		}, []string{"result"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Document value operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		mutated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "nodes_mutated_total",
			Help:      "Document nodes inserted, updated or removed.",
		}, []string{"op"}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.compiles, err = register(reg, m.compiles); err != nil {
		return nil, err
	}
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	if m.mutated, err = register(reg, m.mutated); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNew is like New but panics on error.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// Compiled records one pointer compilation.
func (m *Metrics) Compiled(result string) {
	if m == nil {
		return
	}
	m.compiles.WithLabelValues(result).Inc()
}

// Operation records one document operation.
func (m *Metrics) Operation(op, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

// Mutated records n nodes changed by op.
func (m *Metrics) Mutated(op string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mutated.WithLabelValues(op).Add(float64(n))
}

// Collectors returns the underlying collectors, for callers that manage
// registration themselves.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{m.compiles, m.operations, m.mutated}
}
