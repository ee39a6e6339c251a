package dto

import (
	"realty/infras/jwt"
	adminDto "realty/internal/domains/admin/model/dto"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

// Tokens is the token pair as returned to clients.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *Tokens) FromTokenPair(pair *jwt.TokenPair) {
	*t = Tokens(*pair)
}

type LoginResponse struct {
	Tokens
	Admin adminDto.AdminResponse `json:"admin"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,jwt"`
}

type RefreshTokenResponse struct {
	Tokens
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required"`
}
