// Package telemetry sets up the in-process OpenTelemetry meter provider.
//
// The CLI has no exporter: metrics are read back with a manual reader once
// the command has run and handed to the logger as a flat summary.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider owns a meter provider and the reader used to collect from it.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	reader        *sdkmetric.ManualReader
}

// Summary is one collected data point.
type Summary struct {
	Name       string
	Attributes string
	// Value is the sum for counters and the sum of observations for histograms.
	Value float64
	// Count is the number of observations; zero for counters.
	Count uint64
}

// NewProvider builds a meter provider tagged with the service name and version.
func NewProvider(ctx context.Context, serviceName, serviceVersion string) (*Provider, error) {
	if serviceName == "" {
		return nil, errors.New("service name cannot be empty")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	reader := sdkmetric.NewManualReader()
	return &Provider{
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		),
		reader: reader,
	}, nil
}

// MeterProvider returns the provider to hand to instrumented components.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// Summarize collects every sum and histogram recorded so far.
// Results are sorted by name, then attributes.
func (p *Provider) Summarize(ctx context.Context) ([]Summary, error) {
	var data metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &data); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	var summaries []Summary
	for _, scope := range data.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch d := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range d.DataPoints {
					summaries = append(summaries, Summary{
						Name:       m.Name,
						Attributes: formatAttributes(dp.Attributes),
						Value:      float64(dp.Value),
					})
				}
			case metricdata.Sum[float64]:
				for _, dp := range d.DataPoints {
					summaries = append(summaries, Summary{
						Name:       m.Name,
						Attributes: formatAttributes(dp.Attributes),
						Value:      dp.Value,
					})
				}
			case metricdata.Histogram[float64]:
				for _, dp := range d.DataPoints {
					summaries = append(summaries, Summary{
						Name:       m.Name,
						Attributes: formatAttributes(dp.Attributes),
						Value:      dp.Sum,
						Count:      dp.Count,
					})
				}
			}
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].Attributes < summaries[j].Attributes
	})
	return summaries, nil
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.meterProvider.Shutdown(ctx)
}

func formatAttributes(set attribute.Set) string {
	kvs := set.ToSlice()
	parts := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	return strings.Join(parts, ",")
}
