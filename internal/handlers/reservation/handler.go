package reservation

import (
	"fmt"
	"net/http"
	"realty/infras/otel"
	"realty/internal/domains/reservation/model"
	"realty/internal/domains/reservation/model/dto"
	"realty/internal/domains/reservation/service"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/validator"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the reservation routes. limit guards the public booking endpoint.
func (handler *Handler) Router(router chi.Router, limit func(http.Handler) http.Handler) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.With(limit).Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/today", handler.GetTodayReservations)
		routerGroup.Get("/export", handler.ExportReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Patch("/{id}", handler.UpdateReservation)
		routerGroup.Patch("/{id}/status", handler.UpdateReservationStatus)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
	})
}

// CreateReservation books a consultation slot.
// @Summary Book a consultation
// @Description Books a slot in the business timezone. A Google Meet link is attached when the calendar is connected.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Reservation"
// @Success 201 {object} response.Data[dto.PublicReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Slot already taken"
// @Failure 429 {object} response.Message
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetReservations lists reservations for the back office.
// @Summary List reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(pending, confirmed, cancelled)
// @Param date query string false "Filter by day (YYYY-MM-DD)"
// @Param email query string false "Filter by customer email"
// @Param name query string false "Filter by customer name"
// @Success 200 {object} response.Data[dto.GetReservationsResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: query.Get(model.FieldStatus), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldDate, Operator: gDto.FilterOperatorEq, Value: query.Get("date"), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldEmail, Operator: gDto.FilterOperatorLike, Value: query.Get(model.FieldEmail), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldName, Operator: gDto.FilterOperatorLike, Value: query.Get(model.FieldName), Table: model.TableName})

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetTodayReservations returns the live reservations of one business day ordered by start time.
// @Summary Reservations of a day
// @Tags Reservation
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today in the business timezone"
// @Success 200 {object} response.Data[[]dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Router /v1/reservations/today [get]
// @Security BearerAuth
func (handler *Handler) GetTodayReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodayReservations")
	defer scope.End()

	reservations, err := handler.service.Today(ctx, r.URL.Query().Get("date"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations of the day")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// ExportReservations downloads live reservations in a day range as an iCalendar file.
// @Summary Export reservations as ICS
// @Tags Reservation
// @Produce text/calendar
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} response.Error
// @Router /v1/reservations/export [get]
// @Security BearerAuth
func (handler *Handler) ExportReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportReservations")
	defer scope.End()

	req := dto.ExportRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	data, err := handler.service.ExportICS(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export reservations")

		response.WithError(w, err)

		return
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeCalendar)
	w.Header().Set(constant.RequestHeaderContentDisposition, fmt.Sprintf("attachment; filename=\"reservations-%s-%s.ics\"", req.From, req.To))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("failed to write calendar export")
	}
}

// GetReservationByID
// @Summary Get a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// UpdateReservation edits the customer details of a reservation.
// @Summary Update a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Fields to update"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reservation updated successfully")
}

// UpdateReservationStatus confirms or cancels a reservation. Cancelling removes the calendar event.
// @Summary Change reservation status
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error "Transition not allowed"
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservationStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateStatus(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation status changed to " + res.Status)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteReservation
// @Summary Delete a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete reservation")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}
