package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullCode = "FAMILY-ABCD2345EFGH6789:q83vEjRWeJCrze8SNFZ4kKvN7xI0VniQq83vEjRWeJA="

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	return payload
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept", slog.String("family_id", "fam-1"))
	payload := decode(t, &buf)
	assert.Equal(t, "kept", payload["msg"])
	assert.NotContains(t, payload, "family_id")
	assert.Contains(t, payload, "family_id_fp")
}

func TestRedactingHandler(t *testing.T) {
	t.Run("fingerprints identifiers", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))
		logger.Info("accepted", "user_id", "alice", "invitee_email", "bob@example.com", "count", 2)

		payload := decode(t, &buf)
		assert.Equal(t, Fingerprint("alice"), payload["user_id_fp"])
		assert.Equal(t, Fingerprint("bob@example.com"), payload["invitee_email_fp"])
		assert.NotContains(t, buf.String(), "alice")
		assert.NotContains(t, buf.String(), "bob@example.com")
		assert.EqualValues(t, 2, payload["count"])
	})

	t.Run("redacts sensitive keys", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))
		logger.Info("x", "keystore_passphrase", "hunter2", "raw_key", "abc", "private_key", "def")

		payload := decode(t, &buf)
		assert.Equal(t, redactedValue, payload["keystore_passphrase"])
		assert.Equal(t, redactedValue, payload["raw_key"])
		assert.Equal(t, redactedValue, payload["private_key"])
	})

	t.Run("strips key segment from values, errors and messages", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))
		logger.Info("redeeming "+fullCode,
			"lookup", fullCode,
			"error", errors.New("join failed for "+fullCode),
		)

		out := buf.String()
		assert.NotContains(t, out, "q83vEjRWeJCrze8SNFZ4kKvN7xI0VniQq83vEjRWeJA=")
		assert.Contains(t, out, "FAMILY-ABCD2345EFGH6789:"+redactedValue)

		payload := decode(t, &buf)
		assert.Equal(t, "FAMILY-ABCD2345EFGH6789:"+redactedValue, payload["lookup"])
	})

	t.Run("lookup-only codes are kept", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))
		logger.Info("join", "lookup_code", "FAMILY-ABCD2345EFGH6789")

		payload := decode(t, &buf)
		assert.Equal(t, "FAMILY-ABCD2345EFGH6789", payload["lookup_code"])
	})

	t.Run("with attrs and groups", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil))).
			With("user_id", "alice").
			WithGroup("invite")
		logger.Info("sent", slog.Group("meta", slog.String("passphrase", "p"), slog.String("kind", "wrap")))

		out := buf.String()
		assert.NotContains(t, out, `"alice"`)
		assert.NotContains(t, out, `"p"`)
		assert.True(t, strings.Contains(out, `"kind":"wrap"`))
	})

	t.Run("enabled follows the wrapped handler", func(t *testing.T) {
		h := NewRedactingHandler(slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
		assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	})
}

func TestFingerprint(t *testing.T) {
	assert.Empty(t, Fingerprint("  "))
	assert.Equal(t, Fingerprint("fam-1"), Fingerprint(" fam-1 "))
	assert.NotEqual(t, Fingerprint("fam-1"), Fingerprint("fam-2"))
	assert.True(t, strings.HasPrefix(Fingerprint("fam-1"), "fp_"))
}
