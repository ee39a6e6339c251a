package password_test

import (
	"realty/shared/password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid", password: "correct-horse"},
		{name: "exactly min length", password: "12345678"},
		{name: "multibyte counts runes", password: "pässwörd"},
		{name: "empty", password: "", wantErr: password.ErrTooShort},
		{name: "too short", password: "short", wantErr: password.ErrTooShort},
		{name: "too long", password: strings.Repeat("a", password.MaxLength+1), wantErr: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, password.Verify(tt.password, hash))
		})
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  bool
	}{
		{name: "match", password: "correct-horse", hash: hash},
		{name: "mismatch", password: "battery-staple", hash: hash, wantErr: true},
		{name: "empty password", password: "", hash: hash, wantErr: true},
		{name: "empty hash", password: "correct-horse", hash: "", wantErr: true},
		{name: "malformed hash", password: "correct-horse", hash: "not-a-bcrypt-hash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, password.Verify("battery-staple", hash), password.ErrInvalidPassword)
}

func TestNeedsRehash(t *testing.T) {
	current, err := password.Hash("correct-horse")
	require.NoError(t, err)

	legacy, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, password.NeedsRehash(current))
	assert.True(t, password.NeedsRehash(string(legacy)))
	assert.False(t, password.NeedsRehash("garbage"))
}
