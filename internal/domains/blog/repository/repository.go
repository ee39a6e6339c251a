package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"realty/infras/otel"
	"realty/infras/postgres"
	"realty/internal/domains/blog/model"
	gDto "realty/shared/dto"
	gRepo "realty/shared/repository"
)

type Blog interface {
	Insert(ctx context.Context, model model.BlogPost) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.BlogPost, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BlogPost, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.BlogPost]
}

func New(db *postgres.Connection, otel otel.Otel) Blog {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.BlogPost](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
