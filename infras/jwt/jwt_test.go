package jwt_test

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty/config"
	"realty/infras/jwt"
	"realty/infras/otel/mocks"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "realty"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

func forge(t *testing.T, secret string, method gojwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()

	token, err := gojwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestService_GenerateTokenPair(t *testing.T) {
	svc := jwt.New(testConfig(), mocks.NewOtel())
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "admin-1", "ops@example.com", "superadmin")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	access, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", access.UserID)
	assert.Equal(t, "admin-1", access.Subject)
	assert.Equal(t, "superadmin", access.Role)
	assert.Equal(t, "realty", access.Issuer)
	assert.Equal(t, access.ID, access.TokenID)

	refresh, err := svc.ValidateToken(ctx, pair.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, access.TokenID, refresh.TokenID)
}

func TestService_ValidateToken(t *testing.T) {
	cfg := testConfig()
	svc := jwt.New(cfg, mocks.NewOtel())

	pair, err := svc.GenerateTokenPair(context.Background(), "admin-1", "ops@example.com", "admin")
	require.NoError(t, err)

	now := time.Now()
	valid := func() jwt.Claims {
		return jwt.Claims{
			UserID: "admin-1",
			Email:  "ops@example.com",
			Type:   jwt.AccessToken,
			RegisteredClaims: gojwt.RegisteredClaims{
				Issuer:    cfg.App.Name,
				IssuedAt:  gojwt.NewNumericDate(now),
				ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = gojwt.NewNumericDate(now.Add(-time.Hour))

	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	foreign := valid()
	foreign.Issuer = "someone-else"

	tests := []struct {
		name    string
		token   string
		kind    jwt.TokenType
		wantErr error
	}{
		{name: "access token", token: pair.AccessToken, kind: jwt.AccessToken},
		{name: "refresh used as access", token: pair.RefreshToken, kind: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
		{name: "access used as refresh", token: pair.AccessToken, kind: jwt.RefreshToken, wantErr: jwt.ErrInvalidToken},
		{name: "garbage", token: "garbage", kind: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
		{
			name:    "expired",
			token:   forge(t, cfg.JWT.AccessSecret, gojwt.SigningMethodHS256, expired),
			kind:    jwt.AccessToken,
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name:    "missing expiry",
			token:   forge(t, cfg.JWT.AccessSecret, gojwt.SigningMethodHS256, noExpiry),
			kind:    jwt.AccessToken,
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "other issuer",
			token:   forge(t, cfg.JWT.AccessSecret, gojwt.SigningMethodHS256, foreign),
			kind:    jwt.AccessToken,
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "other algorithm",
			token:   forge(t, cfg.JWT.AccessSecret, gojwt.SigningMethodHS512, valid()),
			kind:    jwt.AccessToken,
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "type claim mismatch",
			token: func() string {
				c := valid()
				c.Type = jwt.RefreshToken

				return forge(t, cfg.JWT.AccessSecret, gojwt.SigningMethodHS256, c)
			}(),
			kind:    jwt.AccessToken,
			wantErr: jwt.ErrInvalidClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(context.Background(), tt.token, tt.kind)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "admin-1", claims.UserID)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "bearer abc", want: "abc"},
		{header: "  Bearer   abc  ", want: "abc"},
		{header: ""},
		{header: "Bearer"},
		{header: "Bearer  "},
		{header: "Basic abc"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.want == "" {
				assert.ErrorIs(t, err, jwt.ErrMissingToken)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}
