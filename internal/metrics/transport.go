package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type routeKey struct{}

// WithRoute tags ctx with the route pattern of an outgoing request (e.g. /v1/invites/:id)
// so ids never end up as label values.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFrom(ctx context.Context) string {
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}

// clientMetrics holds relay client metric instruments.
type clientMetrics struct {
	next           http.RoundTripper
	requestCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
}

// NewClientTransport wraps next with request metrics for the relay client.
// Tracks total requests and durations with method, route and status_code labels.
// A failed round trip is recorded with status_code "error".
func NewClientTransport(
	meterProvider metric.MeterProvider,
	namespace string,
	next http.RoundTripper,
) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_relay_requests_total", namespace),
		metric.WithDescription("Total number of relay requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		// Instruments are optional, fall back to the bare transport
		return next
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_relay_request_duration_seconds", namespace),
		metric.WithDescription("Relay request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return next
	}

	return &clientMetrics{
		next:           next,
		requestCounter: requestCounter,
		durationHisto:  durationHisto,
	}
}

// RoundTrip executes the request and records its metrics.
func (c *clientMetrics) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.next.RoundTrip(req)

	statusCode := "error"
	if err == nil {
		statusCode = strconv.Itoa(resp.StatusCode)
	}

	attrs := metric.WithAttributes(
		attribute.String("method", req.Method),
		attribute.String("route", routeFrom(req.Context())),
		attribute.String("status_code", statusCode),
	)
	c.requestCounter.Add(req.Context(), 1, attrs)
	c.durationHisto.Record(req.Context(), time.Since(start).Seconds(), attrs)

	return resp, err
}
