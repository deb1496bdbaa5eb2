package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// CalculationRecorder implements port.CalculationMetrics with an OpenTelemetry
// counter labelled by mode and grade.
type CalculationRecorder struct {
	calculations metric.Int64Counter
}

func NewCalculationRecorder(meter metric.Meter) (*CalculationRecorder, error) {
	counter, err := meter.Int64Counter(
		"affordability.calculations",
		metric.WithDescription("Affordability calculations by mode and grade"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create calculations counter: %w", err)
	}
	return &CalculationRecorder{calculations: counter}, nil
}

func (r *CalculationRecorder) RecordCalculation(ctx context.Context, mode valueobject.DSRMode, grade valueobject.Grade) {
	r.calculations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode.String()),
		attribute.String("grade", grade.String()),
	))
}
