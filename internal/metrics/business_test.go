package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/familykeys/internal/errors"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "keystore", "put", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "keystore", "put", "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "keystore", "put", "success")
		bm.RecordOperation(context.Background(), "family", "redeem_invite", "success")
		bm.RecordOperation(context.Background(), "messaging", "decrypt_batch", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "keystore", "put", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "keystore", "put", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "keystore", "put", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "family", "redeem_invite", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "messaging", "decrypt_batch", 300*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), "keystore", "put", "success")
		noOpMetrics.RecordOperation(context.Background(), "family", "redeem_invite", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			"keystore",
			"put",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "family", "redeem_invite", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	// Record various operations
	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, "keystore", "put", "success")
	bm.RecordOperation(ctx, "keystore", "put", "success")
	bm.RecordOperation(ctx, "keystore", "put", "error")
	bm.RecordOperation(ctx, "family", "redeem_invite", "success")
	bm.RecordOperation(ctx, "family", "decrypt", "success")
	bm.RecordOperation(ctx, "messaging", "decrypt_batch", "success")

	// Record operation durations
	bm.RecordDuration(ctx, "keystore", "put", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "keystore", "put", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "keystore", "put", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "family", "redeem_invite", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "family", "decrypt", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "messaging", "decrypt_batch", 150*time.Millisecond, "success")

	// Metrics should be recorded without errors
	// Verify metrics in Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="keystore".*operation="put".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="keystore".*operation="put".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="family".*operation="redeem_invite".*status="success"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="keystore".*operation="put".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="keystore".*operation="put".*status="success"`,
		``,
	)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(assert.AnError))
	assert.Equal(t, "not_found", Status(apperrors.Wrap(apperrors.ErrNotFound, "key missing")))
	assert.Equal(t, "unavailable", Status(apperrors.Wrap(apperrors.ErrUnavailable, "relay unavailable")))
	assert.Equal(t, "canceled", Status(context.Canceled))
}

type recordedOperation struct {
	domain, operation, status string
	duration                  time.Duration
}

type recordingMetrics struct {
	operations []recordedOperation
	durations  []recordedOperation
}

func (r *recordingMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	r.operations = append(r.operations, recordedOperation{domain: domain, operation: operation, status: status})
}

func (r *recordingMetrics) RecordDuration(
	_ context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	r.durations = append(r.durations, recordedOperation{domain, operation, status, duration})
}

func TestObserve(t *testing.T) {
	m := &recordingMetrics{}
	start := time.Now().Add(-50 * time.Millisecond)

	Observe(context.Background(), m, "invite", "accept_encrypted_invite", start, apperrors.Wrap(apperrors.ErrConflict, "invite already accepted"))

	require.Len(t, m.operations, 1)
	require.Len(t, m.durations, 1)
	assert.Equal(t, recordedOperation{domain: "invite", operation: "accept_encrypted_invite", status: "conflict"}, m.operations[0])
	assert.Equal(t, "conflict", m.durations[0].status)
	assert.GreaterOrEqual(t, m.durations[0].duration, 50*time.Millisecond)
}
