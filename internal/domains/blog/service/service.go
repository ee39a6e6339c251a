package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Blog=MockBlogService

import (
	"context"
	"fmt"
	"path"

	"realty/config"
	"realty/infras/otel"
	"realty/infras/s3"
	"realty/internal/domains/blog/model"
	"realty/internal/domains/blog/model/dto"
	"realty/internal/domains/blog/repository"
	"realty/shared"
	"realty/shared/cache"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/failure"
	"realty/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cachePrefix     = "blog:"
	cacheGetPost    = "blog:get"
	cacheGetAllPost = "blog:gets"
	cacheCountPost  = "blog:count"
	cacheSlugPost   = "blog:slug"
)

type Blog interface {
	Create(ctx context.Context, req dto.CreatePostRequest) (dto.PostResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPostsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PostResponse, error)
	Update(ctx context.Context, req dto.UpdatePostRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req gDto.UploadImageRequest) (gDto.UploadImageResponse, error)
	GetPublished(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPostsResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.PostResponse, error)
}

type serviceImpl struct {
	repo   repository.Blog
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
	bucket s3.Bucket
}

func New(repo repository.Blog, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, bucket s3.Bucket) Blog {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
		bucket: bucket,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePostRequest) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	post := req.ToModel(user, timezone.Now())
	if post.Slug == constant.Empty {
		return res, failure.BadRequestFromString("slug cannot be derived from the title") // nolint:wrapcheck
	}

	if err = s.ensureSlugFree(ctx, post.Slug, constant.Empty); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, post); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict("slug is already used by another post") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create blog post")

		return res, fmt.Errorf("failed to create blog post: %w", err)
	}

	s.invalidate(ctx)

	res.FromModel(post)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPostsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPost, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for blog posts")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count blog posts: %w", err)
	}

	posts, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blog posts")

		return res, fmt.Errorf("failed to get blog posts: %w", err)
	}

	res.FromModels(posts, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save blog posts to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPost, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count blog posts")

		return total, fmt.Errorf("failed to count blog posts: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save blog post count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.getCached(ctx, shared.BuildCacheKey(cacheGetPost, id), shared.FilterByID(id, model.FieldID, model.TableName))
}

// GetPublished lists published posts only, newest first unless the caller sorts otherwise.
func (s *serviceImpl) GetPublished(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPostsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPublished")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.SortBy == constant.Empty || req.SortBy == constant.DefaultValueSortBy {
		req.SortBy = model.FieldPublishedAt
		req.SortDir = constant.DefaultValueSortDir
	}

	published := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{publishedOnly()},
	}

	if len(filter.Filters) > 0 {
		published.Filters = append(published.Filters, filter)
	}

	res, err = s.GetAll(ctx, req, published)
	if err != nil {
		return res, err
	}

	// listings never carry the article body
	for i := range res.Posts {
		res.Posts[i].Content = constant.Empty
	}

	return res, nil
}

func (s *serviceImpl) GetBySlug(ctx context.Context, slug string) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBySlug")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldSlug, Operator: gDto.FilterOperatorEq, Value: slug, Table: model.TableName},
			publishedOnly(),
		},
	}

	return s.getCached(ctx, shared.BuildCacheKey(cacheSlugPost, slug), filter)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePostRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdatePostRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blog post")

		return fmt.Errorf("failed to get blog post: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("blog post not found") // nolint:wrapcheck
	}

	if req.Slug != constant.Empty && req.Slug != current.Slug {
		if err = s.ensureSlugFree(ctx, req.Slug, id); err != nil {
			return err
		}
	}

	fields := shared.TransformFields(req, user)

	if req.Status == model.StatusPublished && current.PublishedAt == nil {
		fields[model.FieldPublishedAt] = timezone.Now()
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.Conflict("slug is already used by another post") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update blog post")

		return fmt.Errorf("failed to update blog post: %w", err)
	}

	if req.CoverImage != constant.Empty && current.CoverImage != constant.Empty && req.CoverImage != current.CoverImage {
		s.removeImage(ctx, current.CoverImage)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	post, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldCoverImage)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blog post")

		return fmt.Errorf("failed to get blog post: %w", err)
	}

	if post.ID == constant.Empty {
		return failure.NotFound("blog post not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete blog post")

		return fmt.Errorf("failed to delete blog post: %w", err)
	}

	if post.CoverImage != constant.Empty {
		s.removeImage(ctx, post.CoverImage)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, req gDto.UploadImageRequest) (res gDto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	fileName := uuid.NewString() + path.Ext(req.Image.Filename)

	url, err := s.bucket.UploadFile(ctx, model.EntityName, req.ImageFile, req.Image, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload blog image")

		return res, fmt.Errorf("failed to upload blog image: %w", err)
	}

	res.FromUpload(url, fileName)

	return res, nil
}

func (s *serviceImpl) getCached(ctx context.Context, cacheKey string, filter gDto.FilterGroup) (res dto.PostResponse, err error) {
	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for blog post")

		return res, nil
	}

	post, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blog post")

		return res, fmt.Errorf("failed to get blog post: %w", err)
	}

	if post.ID == constant.Empty {
		return res, failure.NotFound("blog post not found") // nolint:wrapcheck
	}

	res.FromModel(post)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save blog post to cache")
		}
	}()

	return res, nil
}

// ensureSlugFree fails with a conflict when another post, not exceptID, owns slug.
func (s *serviceImpl) ensureSlugFree(ctx context.Context, slug, exceptID string) error {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldSlug, Operator: gDto.FilterOperatorEq, Value: slug, Table: model.TableName},
		},
	}

	if exceptID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field: model.FieldID, Operator: gDto.FilterOperatorNotEq, Value: exceptID, Table: model.TableName,
		})
	}

	taken, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check blog slug")

		return fmt.Errorf("failed to check blog slug: %w", err)
	}

	if taken {
		return failure.Conflict("slug is already used by another post") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	go func() {
		if err := s.bucket.DeleteByURL(context.WithoutCancel(ctx), url); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete blog image")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cachePrefix)
	}()
}

func publishedOnly() gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorEq,
		Value:    model.StatusPublished,
		Table:    model.TableName,
	}
}
