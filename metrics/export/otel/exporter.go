package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	stitchgate "github.com/MrEthical07/stitchgate"
)

var (
	// ErrNilMeter rejects a nil meter at construction.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource rejects a nil metrics source at construction.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() stitchgate.MetricsSnapshot
	AuditDropped() uint64
}

type observedCounter struct {
	id         stitchgate.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter registers observable counters for every session metric plus the
// audit drop counter, all read from a single snapshot per collection.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	auditDropped metric.Int64ObservableCounter
}

// New registers the exporter for a manager.
func New(meter metric.Meter, m *stitchgate.Manager) (*Exporter, error) {
	return NewFromSource(meter, m)
}

// NewFromSource registers the exporter over any snapshot source.
func NewFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	defs := stitchgate.MetricDefs()
	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(defs)),
	}
	observables := make([]metric.Observable, 0, len(defs)+1)

	for _, def := range defs {
		instrument, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: instrument})
		observables = append(observables, instrument)
	}

	auditDropped, err := meter.Int64ObservableCounter(
		"stitchgate_audit_dropped_total",
		metric.WithDescription("Session audit events dropped under dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	exporter.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	registration, err := meter.RegisterCallback(exporter.collect, observables...)
	if err != nil {
		return nil, fmt.Errorf("register metrics callback: %w", err)
	}
	exporter.registration = registration

	return exporter, nil
}

func (e *Exporter) collect(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, counter := range e.counters {
		observer.ObserveInt64(counter.instrument, int64(snapshot.Counters[counter.id]))
	}
	observer.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
