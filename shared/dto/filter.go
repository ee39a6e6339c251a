package dto

import (
	"fmt"
	"maps"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLike      = "like"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// comparisons maps the binary operators onto their SQL form. Like is handled
// separately because it wraps and escapes the value.
var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filter is a single predicate. Field and Table are identifiers and must come
// from model constants, never from request input; only Value is bound.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq like less_eq greater_eq"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) arg() string {
	if f.ArgName != "" {
		return f.ArgName
	}

	return f.Field
}

// GetWhereClause renders the predicate with a named bind. An unknown operator
// renders nothing.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	name := f.arg()

	if f.Operator == FilterOperatorLike {
		pattern := "%" + likeEscaper.Replace(fmt.Sprint(f.Value)) + "%"

		return fmt.Sprintf(`%s ILIKE :%s ESCAPE '\'`, f.column(), name), map[string]any{name: pattern}
	}

	op, ok := comparisons[f.Operator]
	if !ok {
		return "", map[string]any{}
	}

	return fmt.Sprintf("%s %s :%s", f.column(), op, name), map[string]any{name: f.Value}
}

// FilterGroup joins Filters and nested FilterGroups. Operator defaults to AND.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	parts := make([]string, 0, len(f.Filters))

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		parts = append(parts, where)
		maps.Copy(args, arg)
	}

	if len(parts) == 0 {
		return "", args
	}

	op := f.Operator
	if op != FilterGroupOperatorOr {
		op = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(parts, " "+op+" ") + ")", args
}

// AddWhenSet appends filter unless its value is nil or an empty string, so
// optional query parameters can be passed through as is.
func (f *FilterGroup) AddWhenSet(filter Filter) {
	if filter.Value == nil || filter.Value == "" {
		return
	}

	f.Filters = append(f.Filters, filter)
}
