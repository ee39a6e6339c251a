package notification

import (
	"net/http"
	"realty/infras/otel"
	"realty/internal/domains/notification/digest"
	"realty/internal/domains/notification/model/dto"
	"realty/internal/domains/notification/service"
	"realty/shared/constant"
	"realty/shared/validator"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Notification
	digest  digest.Digest
	otel    otel.Otel
}

func New(service service.Notification, digest digest.Digest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		digest:  digest,
		otel:    otel,
	}
}

// Router mounts the contact form behind limit and the job trigger used by schedulers.
func (handler *Handler) Router(router chi.Router, limit func(http.Handler) http.Handler) {
	router.With(limit).Post("/contact", handler.Contact)

	router.Route("/jobs", func(routerGroup chi.Router) {
		routerGroup.Post("/daily-digest", handler.SendDailyDigest)
	})
}

// Contact forwards a contact form submission to the operator.
// @Summary Send a contact message
// @Tags Notification
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact form"
// @Success 202 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 429 {object} response.Message
// @Router /v1/contact [post]
func (handler *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Contact")
	defer scope.End()

	req := dto.ContactRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Contact(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send contact message")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusAccepted, "Message received")
}

// SendDailyDigest mails the operator agenda of a day.
// @Summary Trigger the daily digest
// @Description Called by an external scheduler with the API key. The date defaults to today in the business timezone.
// @Tags Notification
// @Accept json
// @Produce json
// @Param request body dto.DigestRequest false "Day"
// @Success 200 {object} response.Data[dto.DigestResponse]
// @Failure 400 {object} response.Error
// @Router /v1/jobs/daily-digest [post]
// @Security ApiKeyAuth
func (handler *Handler) SendDailyDigest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendDailyDigest")
	defer scope.End()

	req := dto.DigestRequest{}

	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	res, err := handler.digest.Send(ctx, req.Date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send daily digest")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
