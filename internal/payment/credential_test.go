package payment

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCredential(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
		wantErr bool
	}{
		{
			name:    "raw bearer token",
			cfg:     Config{Token: "already-a-token"},
			wantNil: false,
		},
		{
			name:    "name and secret pair",
			cfg:     Config{KeyName: "key-1", KeySecret: "s3cret"},
			wantNil: false,
		},
		{
			name:    "no credential",
			cfg:     Config{},
			wantNil: true,
		},
		{
			name:    "name without secret",
			cfg:     Config{KeyName: "key-1"},
			wantErr: true,
		},
		{
			name: "token wins when both are set",
			cfg:  Config{Token: "tok", KeyName: "key-1", KeySecret: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := ResolveCredential(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, cred)
			} else {
				assert.NotNil(t, cred)
			}
		})
	}
}

func TestStaticToken_Bearer(t *testing.T) {
	cred, err := ResolveCredential(Config{Token: "verbatim-token"})
	require.NoError(t, err)

	bearer, err := cred.Bearer()
	require.NoError(t, err)
	assert.Equal(t, "verbatim-token", bearer)
}

func TestSignedToken_Bearer(t *testing.T) {
	cred, err := ResolveCredential(Config{KeyName: "key-1", KeySecret: "s3cret"})
	require.NoError(t, err)

	bearer, err := cred.Bearer()
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(bearer, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		assert.Equal(t, jwt.SigningMethodHS256, token.Method)
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "key-1", claims.Subject)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

func TestSignedToken_Cached(t *testing.T) {
	cred, err := ResolveCredential(Config{KeyName: "key-1", KeySecret: "s3cret"})
	require.NoError(t, err)

	first, err := cred.Bearer()
	require.NoError(t, err)
	second, err := cred.Bearer()
	require.NoError(t, err)
	assert.Equal(t, first, second, "token is re-signed only near expiry")
}
