package auth

import (
	"context"
	"net/http"
	"realty/infras/otel"
	"realty/internal/domains/auth/model/dto"
	"realty/internal/domains/auth/service"
	"realty/shared/constant"
	"realty/shared/validator"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the auth routes. Credential endpoints go through limit.
func (handler *Handler) Router(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.With(limit).Post("/login", handler.Login)
		r.With(limit).Post("/refresh-token", handler.RefreshToken)
		r.Post("/change-password", handler.ChangePassword)
	})
}

// Login exchanges admin credentials for a token pair.
// @Summary Admin login
// @Description Returns an access/refresh token pair and the admin profile. Deactivated accounts get 403.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 429 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	handle(handler, w, r, "Login", handler.service.Login)
}

// RefreshToken
// @Summary Rotate the token pair
// @Description The admin is reloaded, so deactivated accounts are refused and role changes apply.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	handle(handler, w, r, "RefreshToken", handler.service.RefreshToken)
}

// ChangePassword
// @Summary Change own password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error "Current password is incorrect"
// @Failure 401 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	handle(handler, w, r, "ChangePassword", func(ctx context.Context, req dto.ChangePasswordRequest) (string, error) {
		return "Password changed successfully", handler.service.ChangePassword(ctx, req)
	})
}

// handle decodes and validates the body into Req, calls fn and writes its
// result. A string result is written as a message.
func handle[Req, Res any](
	handler *Handler,
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(context.Context, Req) (Res, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+op)
	defer scope.End()

	var req Req

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Debug().Err(err).Str("op", op).Msg("rejected auth request body")

		response.WithError(w, err)

		return
	}

	res, err := fn(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("op", op).Msg("auth request failed")

		response.WithError(w, err)

		return
	}

	if msg, ok := any(res).(string); ok {
		response.WithMessage(w, http.StatusOK, msg)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
