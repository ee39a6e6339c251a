package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"realty/config"
	"realty/infras/gcal"
	"realty/infras/otel"
	"realty/internal/domains/calendar/model"
	"realty/internal/domains/calendar/model/dto"
	"realty/internal/domains/calendar/repository"
	"realty/shared"
	"realty/shared/cache"
	"realty/shared/constant"
	"realty/shared/failure"
	gModel "realty/shared/model"
	"realty/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheOAuthState    = "calendar:state"
	cacheStatus        = "calendar:status"
	stateMarker        = "pending"
	defaultStateTTLSec = 600
)

var ErrNotConnected = errors.New("google calendar is not connected")

type Calendar interface {
	AuthURL(ctx context.Context) (dto.AuthURLResponse, error)
	Callback(ctx context.Context, req dto.CallbackRequest) error
	Status(ctx context.Context) (dto.StatusResponse, error)
	Disconnect(ctx context.Context) error
	CreateEvent(ctx context.Context, req gcal.EventRequest) (gcal.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type serviceImpl struct {
	repo   repository.CalendarCredential
	client gcal.Client
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(repo repository.CalendarCredential, client gcal.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Calendar {
	return &serviceImpl{
		repo:   repo,
		client: client,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) AuthURL(ctx context.Context) (res dto.AuthURLResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AuthURL")
	defer scope.End()
	defer scope.TraceIfError(err)

	ttl := s.cfg.External.Google.StateTTLSeconds
	if ttl <= 0 {
		ttl = defaultStateTTLSec
	}

	state := uuid.NewString()

	if err = s.cache.Save(ctx, shared.BuildCacheKey(cacheOAuthState, state), stateMarker, ttl); err != nil {
		log.Error().Err(err).Msg("failed to store oauth state")

		return res, fmt.Errorf("failed to store oauth state: %w", err)
	}

	res.State = state
	res.URL = s.client.AuthCodeURL(state)

	return res, nil
}

// Callback consumes the state once, exchanges the code and persists the refresh token.
func (s *serviceImpl) Callback(ctx context.Context, req dto.CallbackRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Callback")
	defer scope.End()
	defer scope.TraceIfError(err)

	var marker string

	err = s.cache.Pop(ctx, shared.BuildCacheKey(cacheOAuthState, req.State), &marker)
	if err != nil {
		if errors.Is(err, cache.Nil) {
			return failure.BadRequestFromString("invalid or expired oauth state") // nolint:wrapcheck
		}

		return fmt.Errorf("failed to read oauth state: %w", err)
	}

	if req.Error != "" {
		return failure.BadRequestFromString("authorization was denied: " + req.Error) // nolint:wrapcheck
	}

	token, err := s.client.Exchange(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gcal.ErrMissingRefreshToken) {
			return failure.BadRequestFromString("google did not return a refresh token, re-consent required") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to exchange oauth code")

		return failure.BadGateway("failed to exchange authorization code", err) // nolint:wrapcheck
	}

	email, err := s.client.AccountEmail(ctx, token.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to resolve connected account email")
	}

	scopes, _ := token.Extra("scope").(string)
	if scopes == constant.Empty {
		scopes = strings.Join(gcal.Scopes, " ")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextSystem
	}

	now := timezone.Now()
	filter := shared.FilterByID(model.CredentialID, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check calendar credential: %w", err)
	}

	if exist {
		err = s.repo.Update(ctx, map[string]any{
			model.FieldAccountEmail:  email,
			model.FieldRefreshToken:  token.RefreshToken,
			model.FieldScopes:        scopes,
			model.FieldConnectedAt:   now,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, filter)
	} else {
		err = s.repo.Insert(ctx, model.CalendarCredential{
			ID:           model.CredentialID,
			AccountEmail: email,
			RefreshToken: token.RefreshToken,
			Scopes:       scopes,
			ConnectedAt:  now,
			Metadata:     gModel.NewMetadata(user, now),
		})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to persist calendar credential")

		return fmt.Errorf("failed to persist calendar credential: %w", err)
	}

	s.invalidateStatus(ctx)

	log.Info().Str("account", email).Msg("google calendar connected")

	return nil
}

func (s *serviceImpl) Status(ctx context.Context) (res dto.StatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Status")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.cache.Get(ctx, cacheStatus, &res); err == nil {
		return res, nil
	}

	credential, err := s.credential(ctx)
	if err != nil && !errors.Is(err, ErrNotConnected) {
		return res, err
	}

	if err == nil {
		res.FromModel(credential)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheStatus, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save calendar status to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Disconnect(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Disconnect")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Delete(ctx, shared.FilterByID(model.CredentialID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete calendar credential")

		return fmt.Errorf("failed to delete calendar credential: %w", err)
	}

	s.invalidateStatus(ctx)

	return nil
}

func (s *serviceImpl) CreateEvent(ctx context.Context, req gcal.EventRequest) (event gcal.Event, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	credential, err := s.credential(ctx)
	if err != nil {
		return event, err
	}

	event, err = s.client.CreateEvent(ctx, credential.RefreshToken, req)
	if err != nil {
		return event, fmt.Errorf("failed to create calendar event: %w", err)
	}

	return event, nil
}

func (s *serviceImpl) DeleteEvent(ctx context.Context, eventID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	if eventID == constant.Empty {
		return nil
	}

	credential, err := s.credential(ctx)
	if err != nil {
		return err
	}

	if err = s.client.DeleteEvent(ctx, credential.RefreshToken, eventID); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}

	return nil
}

func (s *serviceImpl) credential(ctx context.Context) (model.CalendarCredential, error) {
	credential, err := s.repo.Get(ctx, shared.FilterByID(model.CredentialID, model.FieldID, model.TableName))
	if err != nil {
		return credential, fmt.Errorf("failed to load calendar credential: %w", err)
	}

	if credential.ID == constant.Empty || credential.RefreshToken == constant.Empty {
		return credential, ErrNotConnected
	}

	return credential, nil
}

func (s *serviceImpl) invalidateStatus(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, cacheStatus); err != nil {
			log.Error().Err(err).Msg("failed to invalidate calendar status")
		}
	}()
}
