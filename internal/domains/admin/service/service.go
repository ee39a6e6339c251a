package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Admin=MockAdminService

import (
	"context"
	"fmt"
	"realty/config"
	"realty/infras/otel"
	"realty/internal/domains/admin/model"
	"realty/internal/domains/admin/model/dto"
	"realty/internal/domains/admin/repository"
	"realty/shared"
	"realty/shared/cache"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/failure"
	"realty/shared/password"
	"realty/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cachePrefix      = "admin:"
	cacheGetAdmin    = "admin:get"
	cacheGetAllAdmin = "admin:gets"
	cacheCountAdmin  = "admin:count"

	systemActor = "system"
)

type Admin interface {
	Create(ctx context.Context, req dto.CreateAdminRequest) (dto.AdminResponse, error)
	Bootstrap(ctx context.Context, req dto.CreateAdminRequest) (dto.AdminResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAdminsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AdminResponse, error)
	Update(ctx context.Context, req dto.UpdateAdminRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Admin
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Admin, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Admin {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAdminRequest) (res dto.AdminResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.create(ctx, req, user)
}

// Bootstrap creates a superadmin outside of any request, used by the ctl binary.
func (s *serviceImpl) Bootstrap(ctx context.Context, req dto.CreateAdminRequest) (res dto.AdminResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Bootstrap")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.Role = constant.RoleSuperAdmin

	return s.create(ctx, req, systemActor)
}

func (s *serviceImpl) create(ctx context.Context, req dto.CreateAdminRequest, actor string) (res dto.AdminResponse, err error) {
	if err = password.Check(req.Password); err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	exists, err := s.repo.Exist(ctx, repository.ByEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if admin exists")

		return res, fmt.Errorf("failed to check if admin exists: %w", err)
	}

	if exists {
		return res, failure.Conflict("email already registered") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := req.ToModel(actor, hashedPassword, timezone.Now())

	if err = s.repo.Insert(ctx, admin); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict("email already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create admin")

		return res, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Str("email", admin.Email).Str("role", admin.Role).Msg("admin created")

	s.invalidate(ctx)

	res.FromModel(admin)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAdminsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAdmin, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for admins")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count admins: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get admins")

		return res, fmt.Errorf("failed to get admins: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save admins to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAdmin, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count admins")

		return res, fmt.Errorf("failed to count admins: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save admin count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AdminResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAdmin, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for admin")

		return res, nil
	}

	admin, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get admin")

		return res, fmt.Errorf("failed to get admin: %w", err)
	}

	if admin.ID == constant.Empty {
		return res, failure.NotFound("admin not found") // nolint:wrapcheck
	}

	res.FromModel(admin)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save admin to cache")
		}
	}()

	return res, nil
}

// Update refuses to let callers demote or deactivate themselves.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAdminRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateAdminRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if user == id && ((req.Active != nil && !*req.Active) || (req.Role != constant.Empty && req.Role != constant.RoleSuperAdmin)) {
		return failure.BadRequestFromString("cannot demote or deactivate your own account") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if admin exists")

		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	if !exist {
		return failure.NotFound("admin not found") // nolint:wrapcheck
	}

	if err := s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update admin")

		return fmt.Errorf("failed to update admin: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user == id {
		return failure.BadRequestFromString("cannot delete your own account") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if admin exists")

		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	if !exist {
		return failure.NotFound("admin not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete admin")

		return fmt.Errorf("failed to delete admin: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cachePrefix)
	}()
}
