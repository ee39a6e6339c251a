package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"realty/config"
	"realty/infras/jwt"
	jwtMocks "realty/infras/jwt/mocks"
	"realty/infras/otel/mocks"
	adminMocks "realty/internal/domains/admin/mocks"
	adminModel "realty/internal/domains/admin/model"
	"realty/internal/domains/auth/model/dto"
	"realty/internal/domains/auth/service"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/failure"
	gModel "realty/shared/model"
	"realty/shared/password"
	"realty/shared/timezone"
)

// "password" hashed with bcrypt
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func validAdmin() adminModel.AdminUser {
	return adminModel.AdminUser{
		ID:       "admin-id-123",
		Email:    "test@example.com",
		Password: passwordHash,
		Role:     constant.RoleAdmin,
		FullName: "Test Admin",
		Active:   true,
		Metadata: gModel.NewMetadata("system", timezone.Now()),
	}
}

func legacyHash(t *testing.T, plain string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)

	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdminRepo := adminMocks.NewMockAdmin(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockAdminRepo, cfg, mockOtel, mockJWT)

	admin := validAdmin()

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Email:    "Test@Example.com",
				Password: "password",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (adminModel.AdminUser, error) {
						assert.Equal(t, "test@example.com", filter.Filters[0].(gDto.Filter).Value)

						return admin, nil
					})

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), admin.ID, admin.Email, admin.Role).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)

				mockAdminRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, adminModel.FieldLastLogin)

						return nil
					})
			},
		},
		{
			name: "legacy hash is upgraded",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				legacy := admin
				legacy.Password = legacyHash(t, "password")

				mockAdminRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(legacy, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), admin.ID, admin.Email, admin.Role).
					Return(&jwt.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil)
				mockAdminRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						rehashed, ok := fields[adminModel.FieldPassword].(string)
						assert.True(t, ok)
						assert.NoError(t, password.Verify("password", rehashed))
						assert.False(t, password.NeedsRehash(rehashed))

						return nil
					})
			},
		},
		{
			name: "unknown email",
			req: dto.LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(adminModel.AdminUser{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "lookup failure",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(adminModel.AdminUser{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(admin, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive admin",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				inactive := admin
				inactive.Active = false

				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(admin, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), admin.ID, admin.Email, admin.Role).
					Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "update last login error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(admin, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), admin.ID, admin.Email, admin.Role).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)

				mockAdminRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", result.AccessToken)
			assert.Equal(t, "refresh-token", result.RefreshToken)
			assert.Equal(t, admin.ID, result.Admin.ID)
			assert.NotNil(t, result.Admin.LastLogin)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdminRepo := adminMocks.NewMockAdmin(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockAdminRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	admin := validAdmin()
	admin.Role = constant.RoleSuperAdmin

	claims := &jwt.Claims{UserID: admin.ID, Email: admin.Email, Role: constant.RoleAdmin, Type: jwt.RefreshToken}

	deactivated := validAdmin()
	deactivated.Active = false

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "pair reissued with current role",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
				mockAdminRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), admin.ID, admin.Email, constant.RoleSuperAdmin).
					Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)
			},
		},
		{
			name: "invalid refresh token",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "admin deactivated since issue",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
				mockAdminRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deactivated, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "admin deleted since issue",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
				mockAdminRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(adminModel.AdminUser{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "repository failure",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
				mockAdminRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(adminModel.AdminUser{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "new-access-token", result.AccessToken)
			assert.Equal(t, "new-refresh-token", result.RefreshToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdminRepo := adminMocks.NewMockAdmin(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockAdminRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	admin := validAdmin()

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		userID    string
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful password change",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			userID: admin.ID,
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(admin, nil)

				mockAdminRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hashed, _ := fields[adminModel.FieldPassword].(string)
						assert.NoError(t, password.Verify("newpassword123", hashed))
						assert.Equal(t, admin.ID, fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name: "missing authenticated admin",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			setupMock: func() {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name: "lookup failure",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			userID: admin.ID,
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(adminModel.AdminUser{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "admin no longer exists",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			userID: admin.ID,
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(adminModel.AdminUser{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "wrong current password",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "wrongpassword",
				NewPassword:     "newpassword123",
			},
			userID: admin.ID,
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(admin, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "update password error",
			req: dto.ChangePasswordRequest{
				CurrentPassword: "password",
				NewPassword:     "newpassword123",
			},
			userID: admin.ID,
			setupMock: func() {
				mockAdminRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(admin, nil)

				mockAdminRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			if tt.userID != "" {
				ctx = context.WithValue(ctx, constant.ContextKeyUserID, tt.userID)
			}

			err := svc.ChangePassword(ctx, tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
