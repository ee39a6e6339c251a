package heroslide

import (
	"net/http"
	"realty/infras/otel"
	"realty/internal/domains/heroslide/model"
	"realty/internal/domains/heroslide/model/dto"
	"realty/internal/domains/heroslide/service"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/validator"
	"realty/transport/http/request"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.HeroSlide
	otel    otel.Otel
}

func New(service service.HeroSlide, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hero-slides", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSlide)
		routerGroup.Get("/", handler.GetSlides)
		routerGroup.Get("/active", handler.GetActiveSlides)
		routerGroup.Post("/upload", handler.UploadImage)
		routerGroup.Get("/{id}", handler.GetSlideByID)
		routerGroup.Patch("/{id}", handler.UpdateSlide)
		routerGroup.Delete("/{id}", handler.DeleteSlide)
	})
}

// CreateSlide
// @Summary Create a hero slide
// @Tags HeroSlide
// @Accept json
// @Produce json
// @Param request body dto.CreateSlideRequest true "Slide"
// @Success 201 {object} response.Data[dto.SlideResponse]
// @Failure 400 {object} response.Error
// @Router /v1/hero-slides [post]
// @Security BearerAuth
func (handler *Handler) CreateSlide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlide")
	defer scope.End()

	req := dto.CreateSlideRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create slide")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetSlides
// @Summary List hero slides
// @Tags HeroSlide
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param active query bool false "Filter by visibility"
// @Success 200 {object} response.Data[dto.GetSlidesResponse]
// @Router /v1/hero-slides [get]
// @Security BearerAuth
func (handler *Handler) GetSlides(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlides")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	if queryParams.SortBy == constant.Empty {
		queryParams.SortBy = model.FieldPosition
		queryParams.SortDir = gDto.SortDirAsc
	}

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: request.Bool(r, model.FieldActive), Table: model.TableName})

	slides, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slides")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slides)
}

// GetActiveSlides returns the home page carousel.
// @Summary Active hero slides
// @Tags HeroSlide
// @Produce json
// @Success 200 {object} response.Data[[]dto.SlideResponse]
// @Router /v1/hero-slides/active [get]
func (handler *Handler) GetActiveSlides(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActiveSlides")
	defer scope.End()

	slides, err := handler.service.Active(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active slides")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slides)
}

// GetSlideByID
// @Summary Get a hero slide
// @Tags HeroSlide
// @Produce json
// @Param id path string true "Slide ID"
// @Success 200 {object} response.Data[dto.SlideResponse]
// @Failure 404 {object} response.Error
// @Router /v1/hero-slides/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetSlideByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlideByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	slide, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slide")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slide)
}

// UpdateSlide
// @Summary Update a hero slide
// @Tags HeroSlide
// @Accept json
// @Produce json
// @Param id path string true "Slide ID"
// @Param request body dto.UpdateSlideRequest true "Fields to update"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/hero-slides/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSlide")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateSlideRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update slide")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Slide updated successfully")
}

// DeleteSlide
// @Summary Delete a hero slide
// @Tags HeroSlide
// @Produce json
// @Param id path string true "Slide ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/hero-slides/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlide")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete slide")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Slide deleted successfully")
}

// UploadImage
// @Summary Upload a slide image
// @Tags HeroSlide
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file to upload"
// @Success 200 {object} response.Data[gDto.UploadImageResponse]
// @Failure 400 {object} response.Error
// @Router /v1/hero-slides/upload [post]
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

	response.WithJSON(w, http.StatusOK, res)
}
