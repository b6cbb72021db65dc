package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fair/shared/password"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr error
	}{
		{name: "exhibitor password", secret: "booth-A12-secret"},
		{name: "exactly max bytes", secret: strings.Repeat("x", password.MaxBytes)},
		{name: "empty", secret: "", wantErr: password.ErrEmpty},
		{name: "too long", secret: strings.Repeat("x", password.MaxBytes+1), wantErr: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := password.Hash(tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, digest)

				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(digest, "$2a$"))
			assert.NoError(t, password.Verify(tt.secret, digest))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("same-secret")
	require.NoError(t, err)

	second, err := password.Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	// bcrypt digest of "password"
	const digest = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

	tests := []struct {
		name     string
		secret   string
		digest   string
		wantErr  error
		otherErr bool
	}{
		{name: "match", secret: "password", digest: digest},
		{name: "wrong secret", secret: "Password", digest: digest, wantErr: password.ErrMismatch},
		{name: "empty secret", secret: "", digest: digest, wantErr: password.ErrMismatch},
		{name: "empty digest", secret: "password", digest: "", wantErr: password.ErrMismatch},
		{name: "malformed digest", secret: "password", digest: "not-a-digest", otherErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.secret, tt.digest)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.otherErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, password.ErrMismatch)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
