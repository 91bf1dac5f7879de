package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rodrigoasouza93/cep-form/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewFormMetrics(reg)

	m.RecordLookup(telemetry.OutcomeFound, 120*time.Millisecond)
	m.RecordLookup(telemetry.OutcomeFound, 80*time.Millisecond)
	m.RecordLookup(telemetry.OutcomeInvalid, 10*time.Millisecond)
	m.RecordRestore(telemetry.OutcomeEmpty)
	m.RecordSubmission()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues(telemetry.OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues(telemetry.OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Restores.WithLabelValues(telemetry.OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LookupDuration))
}

func TestFormMetrics_Nil(t *testing.T) {
	var m *telemetry.FormMetrics
	assert.NotPanics(t, func() {
		m.RecordLookup(telemetry.OutcomeFailed, time.Second)
		m.RecordRestore(telemetry.OutcomeCorrupt)
		m.RecordSubmission()
	})
}

func TestNewTracerProvider_WithoutExporter(t *testing.T) {
	tp, err := telemetry.NewTracerProvider("cep-form-test", "")
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "span")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
