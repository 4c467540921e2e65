package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func testMeter(t *testing.T) metric.Meter {
	t.Helper()
	provider := sdkmetric.NewMeterProvider()
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return provider.Meter("test")
}

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics(testMeter(t), false)
	require.NoError(t, err)
	require.NotNil(t, m)

	// Recording must not panic on an initialized recorder.
	ctx := context.Background()
	m.RecordCalendarFetch(ctx, StatusSuccess, 120*time.Millisecond)
	m.RecordFetchFailure(ctx, "forbidden")
	m.RecordReportRun(ctx, "single-day", StatusSuccess, time.Second)
	m.RecordToolInvocation(ctx, "report_check_day", StatusError, "default", time.Second)
}

func TestZeroMetricsIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	// Nil receiver and zero value are both safe.
	m.RecordCalendarFetch(ctx, StatusSuccess, time.Second)
	m.RecordReportRun(ctx, "blocks", StatusSuccess, time.Second)

	zero := &Metrics{}
	zero.RecordFetchFailure(ctx, "other")
	zero.RecordToolInvocation(ctx, "report_day_blocks", StatusSuccess, "", time.Second)
}

func TestDisabledProviderHasNoopMetrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Metrics())
	assert.NotNil(t, p.Tracer("test"))
	assert.NoError(t, p.Shutdown(context.Background()))
}
