package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"realty/infras/otel/mocks"
	authMocks "realty/internal/domains/auth/mocks"
	"realty/internal/domains/auth/model/dto"
	"realty/internal/handlers/auth"
	"realty/shared/failure"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		body      string
		setupMock func(m *authMocks.MockAuth)
		wantCode  int
		wantKey   string
		wantValue string
	}{
		{
			name: "login",
			path: "/auth/login",
			body: `{"email":"ops@example.com","password":"secret-pass"}`,
			setupMock: func(m *authMocks.MockAuth) {
				res := dto.LoginResponse{}
				res.AccessToken = "access"

				m.EXPECT().
					Login(gomock.Any(), dto.LoginRequest{Email: "ops@example.com", Password: "secret-pass"}).
					Return(res, nil)
			},
			wantCode:  http.StatusOK,
			wantKey:   "data",
			wantValue: "access",
		},
		{
			name:      "login with bad email never reaches the service",
			path:      "/auth/login",
			body:      `{"email":"ops","password":"secret-pass"}`,
			setupMock: func(*authMocks.MockAuth) {},
			wantCode:  http.StatusBadRequest,
			wantKey:   "error",
			wantValue: "email must be a valid email address",
		},
		{
			name: "wrong credentials",
			path: "/auth/login",
			body: `{"email":"ops@example.com","password":"nope"}`,
			setupMock: func(m *authMocks.MockAuth) {
				m.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.Unauthorized("invalid email or password"))
			},
			wantCode:  http.StatusUnauthorized,
			wantKey:   "error",
			wantValue: "invalid email or password",
		},
		{
			name: "change password",
			path: "/auth/change-password",
			body: `{"current_password":"old-secret","new_password":"new-secret"}`,
			setupMock: func(m *authMocks.MockAuth) {
				m.EXPECT().
					ChangePassword(gomock.Any(), dto.ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret"}).
					Return(nil)
			},
			wantCode:  http.StatusOK,
			wantKey:   "message",
			wantValue: "Password changed successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAuth := authMocks.NewMockAuth(ctrl)
			tt.setupMock(mockAuth)

			handler := auth.New(mockAuth, mocks.NewOtel())

			mux := chi.NewRouter()
			handler.Router(mux, func(next http.Handler) http.Handler { return next })

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, tt.wantKey)

			switch v := body[tt.wantKey].(type) {
			case string:
				assert.Equal(t, tt.wantValue, v)
			case map[string]any:
				assert.Equal(t, tt.wantValue, v["access_token"])
			}
		})
	}
}
