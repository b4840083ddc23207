package service

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
)

const lookup = "FAMILY-ABCD2345EFGH6789"

func newKey(t *testing.T) string {
	t.Helper()
	fk, err := cryptoDomain.GenerateFamilyKey()
	require.NoError(t, err)
	return fk.Base64()
}

func TestCodec_MintSplitRoundTrip(t *testing.T) {
	c := NewCodec()
	gen := NewLookupCodeGenerator()

	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		key := newKey(t)

		full, err := c.Mint(code, key)
		require.NoError(t, err)
		assert.True(t, c.ValidateFormat(full))

		parts, err := c.Split(full)
		require.NoError(t, err)
		assert.Equal(t, code, parts.LookupCode)
		assert.Equal(t, key, parts.RawKey)
	}
}

func TestCodec_Mint(t *testing.T) {
	c := NewCodec()
	key := newKey(t)

	tests := []struct {
		name    string
		lookup  string
		key     string
		want    string
		wantErr bool
	}{
		{name: "lookup only", lookup: lookup, want: lookup},
		{name: "with key", lookup: lookup, key: key, want: lookup + ":" + key},
		{name: "ambiguous symbol", lookup: "FAMILY-ABCD2345EFGH678O", key: key, wantErr: true},
		{name: "short body", lookup: "FAMILY-ABCD2345", key: key, wantErr: true},
		{name: "eight char legacy body", lookup: "FAMILY-ABCD2345", wantErr: true},
		{name: "lowercase", lookup: strings.ToLower(lookup), wantErr: true},
		{name: "wrong prefix", lookup: "FAMILIA-ABCD2345EFGH6789", wantErr: true},
		{name: "short key", lookup: lookup, key: base64.StdEncoding.EncodeToString(make([]byte, 16)), wantErr: true},
		{name: "url alphabet key", lookup: lookup, key: strings.Repeat("-", 43) + "=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Mint(tt.lookup, tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, inviteDomain.ErrMalformedInviteCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_Split(t *testing.T) {
	c := NewCodec()
	key := newKey(t)

	tests := []struct {
		name       string
		input      string
		wantLookup string
		wantKey    string
		wantErr    bool
	}{
		{name: "lookup only", input: lookup, wantLookup: lookup},
		{name: "full", input: lookup + ":" + key, wantLookup: lookup, wantKey: key},
		{name: "pasted with whitespace", input: "  " + lookup + ":" + key + "\n", wantLookup: lookup, wantKey: key},
		{name: "typed lowercase", input: strings.ToLower(lookup), wantLookup: lookup},
		{name: "empty key segment", input: lookup + ":", wantErr: true},
		{name: "key with extra segment", input: lookup + ":" + key + ":x", wantErr: true},
		{name: "garbage", input: "hello", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Split(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, inviteDomain.ErrMalformedInviteCode)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLookup, got.LookupCode)
			assert.Equal(t, tt.wantKey, got.RawKey)
		})
	}
}

func TestCodec_ValidateFormat(t *testing.T) {
	c := NewCodec()
	key := newKey(t)

	assert.True(t, c.ValidateFormat(lookup))
	assert.True(t, c.ValidateFormat(lookup+":"+key))
	assert.False(t, c.ValidateFormat(" "+lookup))
	assert.False(t, c.ValidateFormat(strings.ToLower(lookup)))
	assert.False(t, c.ValidateFormat(lookup+":"))
	assert.False(t, c.ValidateFormat(lookup+":abc"))
	assert.False(t, c.ValidateFormat("FAMILY-ABCD1234EFGH5678"))
}

func TestCodec_ServerBoundNeverLeaksKey(t *testing.T) {
	c := NewCodec()
	gen := NewLookupCodeGenerator()

	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		key := newKey(t)
		full, err := c.Mint(code, key)
		require.NoError(t, err)

		wire, err := c.ServerBound(full)
		require.NoError(t, err)
		assert.Equal(t, code, wire)
		assert.NotContains(t, wire, ":")
		assert.NotContains(t, wire, key)
		assert.Equal(t, strings.SplitN(full, ":", 2)[0], wire)
	}

	_, err := c.ServerBound("not-a-code")
	assert.ErrorIs(t, err, inviteDomain.ErrMalformedInviteCode)
}

func TestCodec_ShareLink(t *testing.T) {
	c := NewCodec()
	key := newKey(t)
	full := lookup + ":" + key

	t.Run("Success_KeyOnlyInFragment", func(t *testing.T) {
		link, err := c.ShareLink("https://family.example.com/join", full)
		require.NoError(t, err)

		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "/join", u.Path)
		assert.Empty(t, u.RawQuery)
		assert.NotContains(t, u.Path, key)
		assert.Equal(t, full, u.Fragment)

		parsed, err := c.ParseShareLink(link)
		require.NoError(t, err)
		assert.Equal(t, lookup, parsed.LookupCode)
		assert.Equal(t, key, parsed.RawKey)
	})

	t.Run("Error_RelativeBase", func(t *testing.T) {
		_, err := c.ShareLink("/join", full)
		assert.Error(t, err)
	})

	t.Run("Error_BaseWithQuery", func(t *testing.T) {
		_, err := c.ShareLink("https://family.example.com/join?code=x", full)
		assert.Error(t, err)
	})

	t.Run("Error_NoFragment", func(t *testing.T) {
		_, err := c.ParseShareLink("https://family.example.com/join")
		assert.ErrorIs(t, err, inviteDomain.ErrMalformedInviteCode)
	})
}
