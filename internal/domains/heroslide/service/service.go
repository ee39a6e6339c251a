package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=HeroSlide=MockHeroSlideService

import (
	"context"
	"fmt"
	"path"

	"realty/config"
	"realty/infras/otel"
	"realty/infras/s3"
	"realty/internal/domains/heroslide/model"
	"realty/internal/domains/heroslide/model/dto"
	"realty/internal/domains/heroslide/repository"
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
	cachePrefix       = "heroslide:"
	cacheGetSlide     = "heroslide:get"
	cacheGetAllSlide  = "heroslide:gets"
	cacheCountSlide   = "heroslide:count"
	cacheActiveSlides = "heroslide:active"
)

type HeroSlide interface {
	Create(ctx context.Context, req dto.CreateSlideRequest) (dto.SlideResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSlidesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.SlideResponse, error)
	Update(ctx context.Context, req dto.UpdateSlideRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req gDto.UploadImageRequest) (gDto.UploadImageResponse, error)
	Active(ctx context.Context) ([]dto.SlideResponse, error)
}

type serviceImpl struct {
	repo   repository.HeroSlide
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
	bucket s3.Bucket
}

func New(repo repository.HeroSlide, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, bucket s3.Bucket) HeroSlide {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
		bucket: bucket,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSlideRequest) (res dto.SlideResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	slide := req.ToModel(user, timezone.Now())

	if err = s.repo.Insert(ctx, slide); err != nil {
		log.Error().Err(err).Msg("failed to create hero slide")

		return res, fmt.Errorf("failed to create hero slide: %w", err)
	}

	s.invalidate(ctx)

	res.FromModel(slide)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSlidesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSlide, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count hero slides: %w", err)
	}

	slides, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hero slides")

		return res, fmt.Errorf("failed to get hero slides: %w", err)
	}

	res.FromModels(slides, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hero slides to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSlide, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hero slides")

		return total, fmt.Errorf("failed to count hero slides: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hero slide count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SlideResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSlide, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	slide, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hero slide")

		return res, fmt.Errorf("failed to get hero slide: %w", err)
	}

	if slide.ID == constant.Empty {
		return res, failure.NotFound("hero slide not found") // nolint:wrapcheck
	}

	res.FromModel(slide)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hero slide to cache")
		}
	}()

	return res, nil
}

// Active returns the carousel as the home page renders it.
func (s *serviceImpl) Active(ctx context.Context) (res []dto.SlideResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Active")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheActiveSlides, &res)
	if err == nil {
		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
		},
	}
	params := gDto.QueryParams{SortBy: model.FieldPosition, SortDir: gDto.SortDirAsc}

	slides, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active hero slides")

		return nil, fmt.Errorf("failed to get active hero slides: %w", err)
	}

	res = make([]dto.SlideResponse, len(slides))
	for i, slide := range slides {
		res[i].FromModel(slide)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheActiveSlides, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save active hero slides to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSlideRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldImageURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hero slide")

		return fmt.Errorf("failed to get hero slide: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("hero slide not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update hero slide")

		return fmt.Errorf("failed to update hero slide: %w", err)
	}

	if req.ImageURL != constant.Empty && req.ImageURL != current.ImageURL {
		s.removeImage(ctx, current.ImageURL)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	slide, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldImageURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hero slide")

		return fmt.Errorf("failed to get hero slide: %w", err)
	}

	if slide.ID == constant.Empty {
		return failure.NotFound("hero slide not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete hero slide")

		return fmt.Errorf("failed to delete hero slide: %w", err)
	}

	s.removeImage(ctx, slide.ImageURL)
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
		log.Error().Err(err).Msg("failed to upload hero slide image")

		return res, fmt.Errorf("failed to upload hero slide image: %w", err)
	}

	res.FromUpload(url, fileName)

	return res, nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	go func() {
		if err := s.bucket.DeleteByURL(context.WithoutCancel(ctx), url); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete hero slide image")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cachePrefix)
	}()
}
