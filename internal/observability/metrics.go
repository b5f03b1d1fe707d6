package observability

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

const meterName = "github.com/cory-johannsen/tabletop"

// Roll kinds recorded in the "kind" attribute.
const (
	KindCheck      = "check"
	KindAttack     = "attack"
	KindDamage     = "damage"
	KindInitiative = "initiative"
	KindBrew       = "brew"
	KindResearch   = "research"
	KindExpression = "expression"
	KindMacro      = "macro"
	KindCorruption = "corruption"
	KindAttempt    = "attempt"
)

// Metrics holds the roll pipeline instruments.
type Metrics struct {
	// Rolls counts resolved rolls by kind.
	Rolls metric.Int64Counter
	// Criticals counts critical results by kind and result ("success" or "failure").
	Criticals metric.Int64Counter
	// PersistFailures counts corruption and attempt writes that failed and
	// were rolled back, by resource.
	PersistFailures metric.Int64Counter
	// NotifyFailures counts notifications the sink rejected.
	NotifyFailures metric.Int64Counter
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Rolls, err = m.Int64Counter("tabletop.rolls",
		metric.WithDescription("Resolved rolls by kind."),
	); err != nil {
		return nil, err
	}
	if met.Criticals, err = m.Int64Counter("tabletop.criticals",
		metric.WithDescription("Critical successes and failures by kind."),
	); err != nil {
		return nil, err
	}
	if met.PersistFailures, err = m.Int64Counter("tabletop.persist.failures",
		metric.WithDescription("Resource writes rolled back after a store failure."),
	); err != nil {
		return nil, err
	}
	if met.NotifyFailures, err = m.Int64Counter("tabletop.notify.failures",
		metric.WithDescription("Notifications the sink failed to deliver."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// NewMeterProvider builds an SDK meter provider with the given readers and
// registers it as the global provider.
func NewMeterProvider(readers ...sdkmetric.Reader) *sdkmetric.MeterProvider {
	opts := make([]sdkmetric.Option, 0, len(readers))
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	return mp
}

// SessionMetrics installs an SDK meter provider with a manual reader as the
// global provider and returns instruments on it. The returned flush logs the
// accumulated totals at info and shuts the provider down.
func SessionMetrics(logger *zap.Logger) (*Metrics, func(), error) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProvider(reader)
	m, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, nil, err
	}
	flush := func() {
		ctx := context.Background()
		totals, err := Totals(ctx, reader)
		if err != nil {
			logger.Warn("collecting metrics", zap.Error(err))
		} else if len(totals) > 0 {
			keys := make([]string, 0, len(totals))
			for k := range totals {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fields := make([]zap.Field, 0, len(keys))
			for _, k := range keys {
				fields = append(fields, zap.Int64(k, totals[k]))
			}
			logger.Info("session metrics", fields...)
		}
		if err := mp.Shutdown(ctx); err != nil {
			logger.Warn("shutting down meter provider", zap.Error(err))
		}
	}
	return m, flush, nil
}

// Totals collects reader and returns every int64 sum keyed by instrument
// name, with the encoded attribute set in braces when it is non-empty.
func Totals(ctx context.Context, reader sdkmetric.Reader) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	totals := make(map[string]int64)
	enc := attribute.DefaultEncoder()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				key := m.Name
				if attrs := dp.Attributes.Encoded(enc); attrs != "" {
					key += "{" + attrs + "}"
				}
				totals[key] += dp.Value
			}
		}
	}
	return totals, nil
}

// RecordRoll increments the roll counter and, when crit is "success" or
// "failure", the critical counter.
func (m *Metrics) RecordRoll(ctx context.Context, kind, crit string) {
	m.Rolls.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	if crit != "" {
		m.Criticals.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("result", crit),
		))
	}
}

// RecordPersistFailure increments the persistence failure counter.
func (m *Metrics) RecordPersistFailure(ctx context.Context, resource string) {
	m.PersistFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("resource", resource)))
}

// RecordNotifyFailure increments the notification failure counter.
func (m *Metrics) RecordNotifyFailure(ctx context.Context, kind string) {
	m.NotifyFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
