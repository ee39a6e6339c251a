package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"realty/infras/otel"
	"realty/infras/postgres"
	"realty/internal/domains/calendar/model"
	gDto "realty/shared/dto"
	gRepo "realty/shared/repository"
)

type CalendarCredential interface {
	Insert(ctx context.Context, model model.CalendarCredential) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.CalendarCredential, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.CalendarCredential]
}

func New(db *postgres.Connection, otel otel.Otel) CalendarCredential {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.CalendarCredential](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
