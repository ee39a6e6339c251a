package calendar

import (
	"net/http"
	"net/url"
	"realty/config"
	"realty/infras/otel"
	"realty/internal/domains/calendar/model/dto"
	"realty/internal/domains/calendar/service"
	"realty/shared/constant"
	"realty/shared/failure"
	"realty/shared/validator"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	redirectParam     = "calendar"
	redirectConnected = "connected"
	redirectFailed    = "error"
)

type Handler struct {
	service service.Calendar
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Calendar, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/calendar", func(routerGroup chi.Router) {
		routerGroup.Get("/auth-url", handler.GetAuthURL)
		routerGroup.Get("/callback", handler.Callback)
		routerGroup.Get("/status", handler.GetStatus)
		routerGroup.Delete("/", handler.Disconnect)
	})
}

// GetAuthURL starts the Google consent flow for the operator calendar.
// @Summary Google consent URL
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Data[dto.AuthURLResponse]
// @Failure 500 {object} response.Error
// @Router /v1/calendar/auth-url [get]
// @Security BearerAuth
func (handler *Handler) GetAuthURL(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAuthURL")
	defer scope.End()

	res, err := handler.service.AuthURL(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build google auth url")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Callback is the OAuth redirect target. It redirects to the admin panel when one is configured.
// @Summary Google OAuth callback
// @Tags Calendar
// @Param state query string true "OAuth state"
// @Param code query string false "Authorization code"
// @Param error query string false "Consent error"
// @Success 302
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Router /v1/calendar/callback [get]
func (handler *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Callback")
	defer scope.End()

	query := r.URL.Query()
	req := dto.CallbackRequest{
		State: query.Get("state"),
		Code:  query.Get("code"),
		Error: query.Get("error"),
	}

	err := validator.ValidateVar(req.State, "required")
	if err == nil {
		err = handler.service.Callback(ctx, req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("google calendar callback failed")
	}

	target := handler.cfg.External.Google.SuccessRedirect
	if target == constant.Empty {
		if err != nil {
			response.WithError(w, err)

			return
		}

		response.WithMessage(w, http.StatusOK, "Google Calendar connected successfully")

		return
	}

	http.Redirect(w, r, redirectURL(target, err), http.StatusFound)
}

// GetStatus
// @Summary Calendar connection status
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Data[dto.StatusResponse]
// @Router /v1/calendar/status [get]
// @Security BearerAuth
func (handler *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStatus")
	defer scope.End()

	res, err := handler.service.Status(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get calendar status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Disconnect
// @Summary Disconnect Google Calendar
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Message
// @Router /v1/calendar [delete]
// @Security BearerAuth
func (handler *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Disconnect")
	defer scope.End()

	if err := handler.service.Disconnect(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to disconnect calendar")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Google Calendar disconnected")
}

func redirectURL(target string, err error) string {
	u, parseErr := url.Parse(target)
	if parseErr != nil {
		return target
	}

	q := u.Query()

	if err != nil {
		q.Set(redirectParam, redirectFailed)

		if failure.GetCode(err) == http.StatusBadRequest {
			q.Set("reason", err.Error())
		}
	} else {
		q.Set(redirectParam, redirectConnected)
	}

	u.RawQuery = q.Encode()

	return u.String()
}
