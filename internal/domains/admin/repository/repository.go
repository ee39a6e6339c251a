package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"realty/infras/otel"
	"realty/infras/postgres"
	"realty/internal/domains/admin/model"
	gDto "realty/shared/dto"
	gRepo "realty/shared/repository"
	"strings"
)

type Admin interface {
	Insert(ctx context.Context, model model.AdminUser) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AdminUser, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AdminUser, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.AdminUser]
}

func New(db *postgres.Connection, otel otel.Otel) Admin {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AdminUser](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// ByEmail matches case-insensitively by normalizing the input to the stored form.
func ByEmail(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    strings.ToLower(strings.TrimSpace(email)),
				Table:    model.TableName,
			},
		},
	}
}
