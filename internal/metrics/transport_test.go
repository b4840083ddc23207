package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewClientTransport(t *testing.T) {
	t.Run("Success_RecordRequest", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		transport := NewClientTransport(provider.MeterProvider(), "test_app", roundTripFunc(
			func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody}, nil
			},
		))

		ctx := WithRoute(context.Background(), "/v1/invites/:id")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://relay/v1/invites/123", nil)
		require.NoError(t, err)

		resp, err := transport.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		output := scrape(t, provider)
		assert.Contains(t, output, "test_app_relay_requests_total")
		assert.Contains(t, output, `route="/v1/invites/:id"`)
		assert.Contains(t, output, `status_code="404"`)
		assert.NotContains(t, output, "/v1/invites/123")
	})

	t.Run("Success_RecordTransportError", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		transport := NewClientTransport(provider.MeterProvider(), "test_app", roundTripFunc(
			func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		))

		req, err := http.NewRequest(http.MethodPost, "http://relay/v1/families", nil)
		require.NoError(t, err)

		_, err = transport.RoundTrip(req)
		assert.Error(t, err)

		output := scrape(t, provider)
		assert.Contains(t, output, `status_code="error"`)
		assert.Contains(t, output, `route="unknown"`)
	})
}
