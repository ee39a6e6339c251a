package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"realty/infras/metrics"
	"realty/infras/otel"
	"realty/infras/postgres"
	"realty/shared/constant"
	"realty/shared/dto"
	"realty/shared/logger"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrRequiredFilter guards statements that would otherwise touch every row.
var ErrRequiredFilter = errors.New("required filter")

// Repository is the sqlx backed store shared by every domain table. Columns
// come from the `db` tags of T, including embedded structs.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       dbColumns(reflect.TypeOf(zero)),
	}
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Insert"))
	defer scope.End()

	placeholders := make([]string, 0, len(repo.columns))
	for _, col := range repo.columns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.columns, ", "), strings.Join(placeholders, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err := repo.observe("insert", func() error {
		_, err := repo.db.Write.NamedExecContext(ctx, query, model)

		return err //nolint:wrapcheck
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert data (%s): %w", repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Exist"))
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exist bool

	err := repo.observe("exist", func() error {
		return repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
			return stmt.GetContext(ctx, &exist, args) //nolint:wrapcheck
		})
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check exist data (%s): %w", repo.entity, err)
	}

	return exist, nil
}

// Get returns the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Get"))
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s LIMIT 1", repo.selectList(columns), repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := repo.observe("get", func() error {
		return repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
			return stmt.GetContext(ctx, &model, args) //nolint:wrapcheck
		})
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model, fmt.Errorf("failed to get data (%s): %w", repo.entity, err)
	}

	return model, nil
}

// GetAll pages through the matching rows. Sorting is applied only when the
// requested column belongs to T, anything else falls back to storage order.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("GetAll"))
	defer scope.End()

	where, args := whereClause(filter)

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s", repo.selectList(columns), repo.table, where, repo.orderBy(params), pagination(params, args))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	err := repo.observe("get_all", func() error {
		return repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
			return stmt.SelectContext(ctx, &models, args) //nolint:wrapcheck
		})
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return models, fmt.Errorf("failed to get all data (%s): %w", repo.entity, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Count"))
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s) FROM %s %s", repo.primaryColumn, repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	err := repo.observe("count", func() error {
		return repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
			return stmt.GetContext(ctx, &count, args) //nolint:wrapcheck
		})
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", repo.entity, err)
	}

	return count, nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Update"))
	defer scope.End()

	if len(mod) == 0 {
		return nil
	}

	where, args := whereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	// named args share one namespace with the filter, so SET binds as set_<col>
	fields := slices.Sorted(maps.Keys(mod))
	assignments := make([]string, 0, len(fields))

	for _, col := range fields {
		assignments = append(assignments, fmt.Sprintf("%s = :set_%s", col, col))
		args["set_"+col] = mod[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err := repo.observe("update", func() error {
		_, err := repo.db.Write.NamedExecContext(ctx, query, args)

		return err //nolint:wrapcheck
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update data (%s): %w", repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Delete"))
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err := repo.observe("delete", func() error {
		_, err := repo.db.Write.NamedExecContext(ctx, query, args)

		return err //nolint:wrapcheck
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to delete data (%s): %w", repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) read(ctx context.Context, query string, fn func(stmt *sqlx.NamedStmt) error) error {
	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	return fn(stmt)
}

func (repo *Repository[T]) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()

	if errors.Is(err, sql.ErrNoRows) {
		metrics.ObserveQuery(repo.entity, operation, nil, time.Since(start))
	} else {
		metrics.ObserveQuery(repo.entity, operation, err, time.Since(start))
	}

	return err
}

func (repo *Repository[T]) scopeName(operation string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation)
}

func (repo *Repository[T]) selectList(columns []string) string {
	if len(columns) == 0 {
		return strings.Join(repo.columns, ", ")
	}

	picked := make([]string, 0, len(columns))

	for _, col := range repo.columns {
		if slices.Contains(columns, col) {
			picked = append(picked, col)
		}
	}

	if len(picked) == 0 {
		return strings.Join(repo.columns, ", ")
	}

	return strings.Join(picked, ", ")
}

func (repo *Repository[T]) orderBy(params dto.QueryParams) string {
	if params.SortBy == "" || !slices.Contains(repo.columns, params.SortBy) {
		return ""
	}

	dir := strings.ToUpper(params.SortDir)
	if dir != dto.SortDirAsc && dir != dto.SortDirDesc {
		dir = dto.SortDirAsc
	}

	// primary key breaks ties so pages stay stable
	return fmt.Sprintf("ORDER BY %s %s, %s", params.SortBy, dir, repo.primaryColumn)
}

func pagination(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return ""
	}

	args["limit"] = params.Limit

	offset := params.Offset()
	if offset == 0 {
		return "LIMIT :limit"
	}

	args["offset"] = offset

	return "LIMIT :limit OFFSET :offset"
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func dbColumns(reflectType reflect.Type) []string {
	columns := []string{}

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		tag, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		if tag == "" || tag == "-" {
			continue
		}

		columns = append(columns, tag)
	}

	return columns
}
