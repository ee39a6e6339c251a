package property

import (
	"net/http"
	"realty/infras/otel"
	"realty/internal/domains/property/model"
	"realty/internal/domains/property/model/dto"
	"realty/internal/domains/property/service"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/validator"
	"realty/transport/http/request"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	paramMinPrice = "min_price"
	paramMaxPrice = "max_price"
)

type Handler struct {
	service service.Property
	otel    otel.Otel
}

func New(service service.Property, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/properties", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateProperty)
		routerGroup.Get("/", handler.GetProperties)
		routerGroup.Post("/upload", handler.UploadImage)
		routerGroup.Delete("/images", handler.DeleteImages)
		routerGroup.Get("/{id}", handler.GetPropertyByID)
		routerGroup.Patch("/{id}", handler.UpdateProperty)
		routerGroup.Delete("/{id}", handler.DeleteProperty)
	})

	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Get("/{slug}", handler.GetListingBySlug)
	})
}

// CreateProperty
// @Summary Create a property
// @Tags Property
// @Accept json
// @Produce json
// @Param request body dto.CreatePropertyRequest true "Property"
// @Success 201 {object} response.Data[dto.PropertyResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/properties [post]
// @Security BearerAuth
func (handler *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProperty")
	defer scope.End()

	req := dto.CreatePropertyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create property")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Property created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetProperties lists every property regardless of status.
// @Summary List properties
// @Tags Property
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(active, sold, rented, inactive)
// @Param title query string false "Filter by title"
// @Param city query string false "Filter by city"
// @Param listing_type query string false "Filter by listing type" Enums(sale, rent)
// @Success 200 {object} response.Data[dto.GetPropertiesResponse]
// @Router /v1/properties [get]
// @Security BearerAuth
func (handler *Handler) GetProperties(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProperties")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := listingFilter(r)
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: r.URL.Query().Get(model.FieldStatus), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldTitle, Operator: gDto.FilterOperatorLike, Value: r.URL.Query().Get(model.FieldTitle), Table: model.TableName})

	properties, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get properties")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, properties)
}

// GetListings
// @Summary List active properties
// @Tags Property
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param city query string false "City"
// @Param listing_type query string false "Listing type" Enums(sale, rent)
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param rooms query int false "Number of rooms"
// @Param featured query bool false "Only featured"
// @Success 200 {object} response.Data[dto.GetPropertiesResponse]
// @Router /v1/listings [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	properties, err := handler.service.GetActive(ctx, queryParams, listingFilter(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, properties)
}

// GetListingBySlug
// @Summary Get a listing
// @Tags Property
// @Produce json
// @Param slug path string true "Property slug"
// @Success 200 {object} response.Data[dto.PropertyResponse]
// @Failure 404 {object} response.Error
// @Router /v1/listings/{slug} [get]
func (handler *Handler) GetListingBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingBySlug")
	defer scope.End()

	slug := chi.URLParam(r, constant.RequestParamSlug)

	if err := validator.ValidateVar(slug, "required,slug"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	property, err := handler.service.GetBySlug(ctx, slug)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slug", slug).Msg("failed to get listing")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, property)
}

// GetPropertyByID
// @Summary Get a property
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.PropertyResponse]
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	property, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get property")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, property)
}

// UpdateProperty
// @Summary Update a property
// @Description Images dropped from the list are removed from the bucket.
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpdatePropertyRequest true "Fields to update"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdatePropertyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update property")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Property updated successfully")
}

// DeleteProperty
// @Summary Delete a property
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete property")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Property deleted successfully")
}

// UploadImage
// @Summary Upload a property image
// @Tags Property
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file to upload"
// @Success 200 {object} response.Data[gDto.UploadImageResponse]
// @Failure 400 {object} response.Error
// @Router /v1/properties/upload [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	req, err := request.ImageUpload(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read uploaded image")

		response.WithError(w, err)

		return
	}
	defer req.ImageFile.Close()

	res, err := handler.service.UploadImage(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload image")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Image uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteImages
// @Summary Delete property images from the bucket
// @Tags Property
// @Accept json
// @Produce json
// @Param request body gDto.DeleteImagesRequest true "Image URLs"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/images [delete]
// @Security BearerAuth
func (handler *Handler) DeleteImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteImages")
	defer scope.End()

	req := gDto.DeleteImagesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.DeleteImages(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete images")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Images deleted successfully")
}

func listingFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldCity, Operator: gDto.FilterOperatorEq, Value: query.Get(model.FieldCity), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldListingType, Operator: gDto.FilterOperatorEq, Value: query.Get(model.FieldListingType), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{ArgName: paramMinPrice, Field: model.FieldPrice, Operator: gDto.FilterOperatorGreaterEq, Value: request.Float(r, paramMinPrice), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{ArgName: paramMaxPrice, Field: model.FieldPrice, Operator: gDto.FilterOperatorLessEq, Value: request.Float(r, paramMaxPrice), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldRooms, Operator: gDto.FilterOperatorEq, Value: request.Int(r, model.FieldRooms), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldFeatured, Operator: gDto.FilterOperatorEq, Value: request.Bool(r, model.FieldFeatured), Table: model.TableName})

	return filterGroup
}
