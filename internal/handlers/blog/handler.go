package blog

import (
	"net/http"
	"realty/infras/otel"
	"realty/internal/domains/blog/model"
	"realty/internal/domains/blog/model/dto"
	"realty/internal/domains/blog/service"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/validator"
	"realty/transport/http/request"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Blog
	otel    otel.Otel
}

func New(service service.Blog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/posts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePost)
		routerGroup.Get("/", handler.GetPosts)
		routerGroup.Post("/upload", handler.UploadImage)
		routerGroup.Get("/{id}", handler.GetPostByID)
		routerGroup.Patch("/{id}", handler.UpdatePost)
		routerGroup.Delete("/{id}", handler.DeletePost)
	})

	router.Route("/blog", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPublishedPosts)
		routerGroup.Get("/{slug}", handler.GetPostBySlug)
	})
}

// CreatePost
// @Summary Create a blog post
// @Description The slug is derived from the title when omitted. Publishing sets published_at.
// @Tags Blog
// @Accept json
// @Produce json
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} response.Data[dto.PostResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Slug already used"
// @Router /v1/posts [post]
// @Security BearerAuth
func (handler *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePost")
	defer scope.End()

	req := dto.CreatePostRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create post")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Post created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetPosts
// @Summary List blog posts
// @Tags Blog
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(draft, published)
// @Param locale query string false "Filter by locale"
// @Param featured query bool false "Filter featured posts"
// @Param title query string false "Filter by title"
// @Success 200 {object} response.Data[dto.GetPostsResponse]
// @Router /v1/posts [get]
// @Security BearerAuth
func (handler *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPosts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := listFilter(r)
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: r.URL.Query().Get(model.FieldStatus), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldTitle, Operator: gDto.FilterOperatorLike, Value: r.URL.Query().Get(model.FieldTitle), Table: model.TableName})

	posts, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get posts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, posts)
}

// GetPublishedPosts
// @Summary List published posts
// @Tags Blog
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param locale query string false "Filter by locale"
// @Param featured query bool false "Only featured posts"
// @Success 200 {object} response.Data[dto.GetPostsResponse]
// @Router /v1/blog [get]
func (handler *Handler) GetPublishedPosts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublishedPosts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	posts, err := handler.service.GetPublished(ctx, queryParams, listFilter(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get published posts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, posts)
}

// GetPostBySlug
// @Summary Get a published post
// @Tags Blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} response.Data[dto.PostResponse]
// @Failure 404 {object} response.Error
// @Router /v1/blog/{slug} [get]
func (handler *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPostBySlug")
	defer scope.End()

	slug := chi.URLParam(r, constant.RequestParamSlug)

	if err := validator.ValidateVar(slug, "required,slug"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	post, err := handler.service.GetBySlug(ctx, slug)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slug", slug).Msg("failed to get post")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, post)
}

// GetPostByID
// @Summary Get a blog post
// @Tags Blog
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Data[dto.PostResponse]
// @Failure 404 {object} response.Error
// @Router /v1/posts/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPostByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	post, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get post")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, post)
}

// UpdatePost
// @Summary Update a blog post
// @Tags Blog
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body dto.UpdatePostRequest true "Fields to update"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/posts/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePost")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdatePostRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update post")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Post updated successfully")
}

// DeletePost
// @Summary Delete a blog post
// @Tags Blog
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/posts/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePost")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete post")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Post deleted successfully")
}

// UploadImage stores an editor or cover image in the bucket.
// @Summary Upload a blog image
// @Tags Blog
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file to upload"
// @Success 200 {object} response.Data[gDto.UploadImageResponse]
// @Failure 400 {object} response.Error
// @Router /v1/posts/upload [post]
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

func listFilter(r *http.Request) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldLocale, Operator: gDto.FilterOperatorEq, Value: r.URL.Query().Get(model.FieldLocale), Table: model.TableName})
	filterGroup.AddWhenSet(gDto.Filter{Field: model.FieldFeatured, Operator: gDto.FilterOperatorEq, Value: request.Bool(r, model.FieldFeatured), Table: model.TableName})

	return filterGroup
}
