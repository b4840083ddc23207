package domain

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"
)

func TestKeyPairFromPrivate(t *testing.T) {
	t.Run("derives the box public key", func(t *testing.T) {
		pub, priv, err := box.GenerateKey(rand.Reader)
		require.NoError(t, err)

		kp, err := KeyPairFromPrivate(priv[:])
		require.NoError(t, err)
		assert.Equal(t, *pub, kp.PublicKey)
		assert.Equal(t, *priv, kp.PrivateKey)
	})

	t.Run("invalid size", func(t *testing.T) {
		kp, err := KeyPairFromPrivate(make([]byte, 31))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Nil(t, kp)
	})
}

func TestParsePublicKey(t *testing.T) {
	pub, _, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)
	valid := EncodePublicKey(*pub)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: valid},
		{name: "empty", input: "", wantErr: true},
		{name: "short", input: valid[:43], wantErr: true},
		{name: "long", input: valid + "A", wantErr: true},
		{name: "bad alphabet", input: "!" + valid[1:], wantErr: true},
		{name: "all zero point", input: base64.StdEncoding.EncodeToString(make([]byte, 32)), wantErr: true},
		{name: "wrong decoded size", input: base64.StdEncoding.EncodeToString(make([]byte, 33))[:44], wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePublicKey(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPublicKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *pub, got)
		})
	}

	assert.Equal(t, 44, PublicKeyEncodedLen)
}

func TestKeyPair_Redaction(t *testing.T) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)
	kp := &KeyPair{PublicKey: *pub, PrivateKey: *priv}
	privB64 := base64.StdEncoding.EncodeToString(priv[:])

	out := fmt.Sprintf("%v", kp)
	assert.Contains(t, out, kp.PublicKeyBase64())
	assert.NotContains(t, out, privB64)

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("keypair", slog.Any("kp", kp))
	assert.Contains(t, buf.String(), kp.PublicKeyBase64())
	assert.NotContains(t, buf.String(), privB64)

	kp.Zero()
	assert.Equal(t, [KeySize]byte{}, kp.PrivateKey)
}
