package admin

import (
	"net/http"
	"realty/infras/otel"
	"realty/internal/domains/admin/model"
	"realty/internal/domains/admin/model/dto"
	"realty/internal/domains/admin/service"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/validator"
	"realty/transport/http/request"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Admin
	otel    otel.Otel
}

func New(service service.Admin, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admins", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateAdmin)
		routerGroup.Get("/", handler.GetAdmins)
		routerGroup.Get("/{id}", handler.GetAdminByID)
		routerGroup.Patch("/{id}", handler.UpdateAdmin)
		routerGroup.Delete("/{id}", handler.DeleteAdmin)
	})
}

// CreateAdmin
// @Summary Create an admin user
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateAdminRequest true "Admin"
// @Success 201 {object} response.Data[dto.AdminResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Email already registered"
// @Router /v1/admins [post]
// @Security BearerAuth
func (handler *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAdmin")
	defer scope.End()

	req := dto.CreateAdminRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create admin")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAdmins
// @Summary List admin users
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "Filter by role" Enums(superadmin, admin)
// @Param active query bool false "Filter by state"
// @Param email query string false "Filter by email"
// @Success 200 {object} response.Data[dto.GetAdminsResponse]
// @Router /v1/admins [get]
// @Security BearerAuth
func (handler *Handler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdmins")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: query.Get(model.FieldRole), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: request.Bool(r, model.FieldActive), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldEmail, Operator: gDto.FilterOperatorLike, Value: query.Get(model.FieldEmail), Table: model.TableName})

	admins, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get admins")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, admins)
}

// GetAdminByID
// @Summary Get an admin user
// @Tags Admin
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Data[dto.AdminResponse]
// @Failure 404 {object} response.Error
// @Router /v1/admins/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAdminByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdminByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	admin, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get admin")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, admin)
}

// UpdateAdmin
// @Summary Update an admin user
// @Description An admin cannot demote or deactivate itself.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Admin ID"
// @Param request body dto.UpdateAdminRequest true "Fields to update"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admins/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAdmin")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateAdminRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update admin")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Admin updated successfully")
}

// DeleteAdmin
// @Summary Delete an admin user
// @Tags Admin
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admins/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAdmin")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete admin")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Admin deleted successfully")
}
