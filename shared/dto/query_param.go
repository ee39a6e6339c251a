package dto

import (
	"net/http"
	"realty/shared/constant"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries pagination and ordering for list endpoints. A zero
// Limit means unpaginated.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty,min=1"`
	Limit   int    `json:"limit"    validate:"omitempty,min=1,max=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string.
// Malformed or non-positive numbers are ignored and limit is capped at
// constant.MaxValueLimit. With withDefaults, missing page and limit fall back
// to constant.DefaultValuePage and constant.DefaultValueLimit.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page, ok := positive(values.Get(constant.RequestParamPage)); ok {
		q.Page = page
	}

	if limit, ok := positive(values.Get(constant.RequestParamLimit)); ok {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := strings.TrimSpace(values.Get(constant.RequestParamSortBy)); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

func positive(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
