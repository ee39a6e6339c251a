package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"realty/config"
	"realty/infras/otel"
	"realty/shared/timezone"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
	ErrMissingToken = errors.New("authorization header must carry a bearer token")
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const (
	otelScopeName = "jwt"
	bearerScheme  = "Bearer"
	leeway        = 30 * time.Second
)

// Claims identify an admin. Role is copied at issue time, so a role change
// takes effect on the next refresh.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	GenerateTokenPair(ctx context.Context, userID, email, role string) (*TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
}

type Service struct {
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) JWT {
	return &Service{
		config: cfg,
		otel:   otl,
	}
}

func (s *Service) GenerateTokenPair(ctx context.Context, userID, email, role string) (*TokenPair, error) {
	_, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".GenerateTokenPair")
	defer scope.End()

	now := timezone.Now()
	accessTTL := time.Duration(s.config.JWT.AccessExpireMin) * time.Minute
	refreshTTL := time.Duration(s.config.JWT.RefreshExpireMin) * time.Minute

	subject := Claims{UserID: userID, Email: email, Role: role}

	access, err := s.sign(subject, AccessToken, now, accessTTL)
	if err != nil {
		scope.TraceError(err)

		return nil, err
	}

	refresh, err := s.sign(subject, RefreshToken, now, refreshTTL)
	if err != nil {
		scope.TraceError(err)

		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    bearerScheme,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

func (s *Service) sign(subject Claims, tokenType TokenType, issuedAt time.Time, ttl time.Duration) (string, error) {
	secret, err := s.secret(tokenType)
	if err != nil {
		return "", err
	}

	tokenID := uuid.NewString()

	claims := subject
	claims.TokenID = tokenID
	claims.Type = tokenType
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        tokenID,
		Issuer:    s.config.App.Name,
		Subject:   subject.UserID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// ValidateToken checks signature, expiry, issuer and that the token is of
// the expected type. Access and refresh tokens use different secrets.
func (s *Service) ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error) {
	_, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".ValidateToken")
	defer scope.End()

	secret, err := s.secret(tokenType)
	if err != nil {
		return nil, err
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if s.config.App.Name != "" {
		options = append(options, jwt.WithIssuer(s.config.App.Name))
	}

	claims := &Claims{}

	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, options...)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		scope.SetAttribute("jwt.error", err.Error())

		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

func (s *Service) secret(tokenType TokenType) ([]byte, error) {
	switch tokenType {
	case AccessToken:
		return []byte(s.config.JWT.AccessSecret), nil
	case RefreshToken:
		return []byte(s.config.JWT.RefreshSecret), nil
	}

	return nil, fmt.Errorf("unknown token type %q", tokenType)
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>"
// Authorization header. The scheme is case-insensitive.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}
