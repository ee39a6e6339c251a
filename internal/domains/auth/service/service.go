package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"realty/config"
	"realty/infras/jwt"
	"realty/infras/otel"
	adminModel "realty/internal/domains/admin/model"
	adminRepo "realty/internal/domains/admin/repository"
	"realty/internal/domains/auth/model/dto"
	"realty/shared"
	"realty/shared/constant"
	"realty/shared/failure"
	"realty/shared/password"
	"realty/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	adminRepo  adminRepo.Admin
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(adminRepo adminRepo.Admin, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		adminRepo:  adminRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	emailFilter := adminRepo.ByEmail(req.Email)

	admin, err := s.adminRepo.Get(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get admin")

		return res, fmt.Errorf("failed to get admin: %w", err)
	}

	if admin.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized("invalid email or password") // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, admin.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized("invalid email or password") // nolint:wrapcheck
	}

	if !admin.Active {
		return res, failure.Forbidden("account is deactivated") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, admin.ID, admin.Email, admin.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	fields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, admin.ID)

	if password.NeedsRehash(admin.Password) {
		if rehashed, err := password.Hash(req.Password); err == nil {
			fields[adminModel.FieldPassword] = rehashed
		}
	}

	if err := s.adminRepo.Update(ctx, fields, shared.FilterByID(admin.ID, adminModel.FieldID, adminModel.TableName)); err != nil {
		log.Error().Err(err).Str("admin_id", admin.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	admin.LastLogin = &now

	res.FromTokenPair(tokenPair)
	res.Admin.FromModel(admin)

	return res, nil
}

// RefreshToken reloads the admin behind the refresh token, so deactivated
// accounts are cut off and role changes apply to the new pair.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("rejected refresh token")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	admin, err := s.adminRepo.Get(ctx, shared.FilterByID(claims.UserID, adminModel.FieldID, adminModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("admin_id", claims.UserID).Msg("failed to get admin")

		return res, fmt.Errorf("failed to get admin: %w", err)
	}

	if admin.ID == constant.Empty || !admin.Active {
		log.Warn().Str("admin_id", claims.UserID).Msg("refresh for missing or deactivated admin")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, admin.ID, admin.Email, admin.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// ChangePassword acts on the admin carried by the access token.
func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return failure.Unauthorized("missing authenticated admin") // nolint:wrapcheck
	}

	filter := shared.FilterByID(userID, adminModel.FieldID, adminModel.TableName)

	admin, err := s.adminRepo.Get(ctx, filter, adminModel.FieldID, adminModel.FieldPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to get admin")

		return fmt.Errorf("failed to get admin: %w", err)
	}

	if admin.ID == constant.Empty {
		return failure.NotFound("admin not found") // nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, admin.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	if err = password.Check(req.NewPassword); err != nil {
		return failure.BadRequest(err) // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}

	if err = s.adminRepo.Update(ctx, shared.TransformFields(updatePassword, userID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
