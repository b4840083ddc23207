package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("runtime metrics registered", func(t *testing.T) {
		provider, err := NewProvider("familykeys")
		require.NoError(t, err)
		defer func() { _ = provider.Shutdown(context.Background()) }()

		output := scrape(t, provider)
		assert.Contains(t, output, "go_goroutines")
	})

	t.Run("empty namespace", func(t *testing.T) {
		provider, err := NewProvider("")
		require.NoError(t, err)
		assert.NotNil(t, provider.MeterProvider())
	})

	t.Run("independent registries", func(t *testing.T) {
		first, err := NewProvider("familykeys")
		require.NoError(t, err)
		second, err := NewProvider("familykeys")
		require.NoError(t, err)

		bm, err := NewBusinessMetrics(first.MeterProvider(), "familykeys")
		require.NoError(t, err)
		bm.RecordOperation(context.Background(), "keystore", "put", "success")

		assert.Contains(t, scrape(t, first), "familykeys_operations_total")
		assert.NotContains(t, scrape(t, second), "familykeys_operations_total")
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("shutdown", func(t *testing.T) {
		provider, err := NewProvider("familykeys")
		require.NoError(t, err)
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("zero provider", func(t *testing.T) {
		assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
	})
}
