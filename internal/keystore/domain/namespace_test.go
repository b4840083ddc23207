package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespacedKey_String(t *testing.T) {
	assert.Equal(t, "familyKey:fam-1", FamilyKeyName("fam-1").String())
	assert.Equal(t, "privateKey:user-1", PrivateKeyName("user-1").String())
}

func TestParseNamespacedKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NamespacedKey
		wantErr bool
	}{
		{name: "family key", input: "familyKey:A", want: FamilyKeyName("A")},
		{name: "private key", input: "privateKey:u-42", want: PrivateKeyName("u-42")},
		{name: "no separator", input: "familyKeyA", wantErr: true},
		{name: "unknown kind", input: "sessionToken:A", wantErr: true},
		{name: "blank owner", input: "familyKey: ", wantErr: true},
		{name: "nested separator", input: "familyKey:A:B", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNamespacedKey(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNamespacedKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}
