package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Property=MockPropertyService

import (
	"context"
	"errors"
	"fmt"
	"path"

	"realty/config"
	"realty/infras/otel"
	"realty/infras/s3"
	"realty/internal/domains/property/model"
	"realty/internal/domains/property/model/dto"
	"realty/internal/domains/property/repository"
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
	cachePrefix         = "property:"
	cacheGetProperty    = "property:get"
	cacheGetAllProperty = "property:gets"
	cacheCountProperty  = "property:count"
	cacheSlugProperty   = "property:slug"
)

var ErrDeleteImages = errors.New("failed to delete images from bucket")

type Property interface {
	Create(ctx context.Context, req dto.CreatePropertyRequest) (dto.PropertyResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPropertiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PropertyResponse, error)
	Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req gDto.UploadImageRequest) (gDto.UploadImageResponse, error)
	DeleteImages(ctx context.Context, req gDto.DeleteImagesRequest) error
	GetActive(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPropertiesResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.PropertyResponse, error)
}

type serviceImpl struct {
	repo   repository.Property
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
	bucket s3.Bucket
}

func New(repo repository.Property, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, bucket s3.Bucket) Property {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
		bucket: bucket,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePropertyRequest) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	property := req.ToModel(user, timezone.Now())

	if err = s.repo.Insert(ctx, property); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict("property slug already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create property")

		return res, fmt.Errorf("failed to create property: %w", err)
	}

	s.invalidate(ctx)

	res.FromModel(property)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProperty, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for properties")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count properties: %w", err)
	}

	properties, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get properties")

		return res, fmt.Errorf("failed to get properties: %w", err)
	}

	res.FromModels(properties, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save properties to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProperty, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count properties")

		return total, fmt.Errorf("failed to count properties: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.getCached(ctx, shared.BuildCacheKey(cacheGetProperty, id), shared.FilterByID(id, model.FieldID, model.TableName))
}

// GetActive lists the properties currently on the market.
func (s *serviceImpl) GetActive(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	active := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusActive, Table: model.TableName},
		},
	}

	if len(filter.Filters) > 0 {
		active.Filters = append(active.Filters, filter)
	}

	return s.GetAll(ctx, req, active)
}

// GetBySlug serves sold and rented listings too, only inactive ones are hidden.
func (s *serviceImpl) GetBySlug(ctx context.Context, slug string) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBySlug")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldSlug, Operator: gDto.FilterOperatorEq, Value: slug, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorNotEq, Value: model.StatusInactive, Table: model.TableName},
		},
	}

	return s.getCached(ctx, shared.BuildCacheKey(cacheSlugProperty, slug), filter)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldImages)
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return fmt.Errorf("failed to get property: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("property not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update property")

		return fmt.Errorf("failed to update property: %w", err)
	}

	if req.Images != nil {
		s.removeImages(ctx, dropped(current.Images, req.Images))
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	property, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldImages)
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return failure.NotFound("property not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete property")

		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.removeImages(ctx, property.Images)
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
		log.Error().Err(err).Msg("failed to upload property image")

		return res, fmt.Errorf("failed to upload property image: %w", err)
	}

	res.FromUpload(url, fileName)

	return res, nil
}

func (s *serviceImpl) DeleteImages(ctx context.Context, req gDto.DeleteImagesRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteImages")
	defer scope.End()
	defer scope.TraceIfError(err)

	var failed int

	for _, url := range req.ImageURLs {
		if err := s.bucket.DeleteByURL(ctx, url); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete property image")

			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d images", ErrDeleteImages, failed)
	}

	return nil
}

func (s *serviceImpl) getCached(ctx context.Context, cacheKey string, filter gDto.FilterGroup) (res dto.PropertyResponse, err error) {
	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for property")

		return res, nil
	}

	property, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return res, failure.NotFound("property not found") // nolint:wrapcheck
	}

	res.FromModel(property)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) removeImages(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}

	go func() {
		if err := s.DeleteImages(context.WithoutCancel(ctx), gDto.DeleteImagesRequest{ImageURLs: urls}); err != nil {
			log.Error().Err(err).Msg("failed to clean up property images")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cachePrefix)
	}()
}

// dropped returns the urls of before that are no longer referenced by after.
func dropped(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, url := range after {
		keep[url] = struct{}{}
	}

	var out []string

	for _, url := range before {
		if _, ok := keep[url]; !ok {
			out = append(out, url)
		}
	}

	return out
}
