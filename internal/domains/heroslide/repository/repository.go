package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"realty/infras/otel"
	"realty/infras/postgres"
	"realty/internal/domains/heroslide/model"
	gDto "realty/shared/dto"
	gRepo "realty/shared/repository"
)

type HeroSlide interface {
	Insert(ctx context.Context, model model.HeroSlide) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.HeroSlide, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.HeroSlide, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.HeroSlide]
}

func New(db *postgres.Connection, otel otel.Otel) HeroSlide {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.HeroSlide](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
