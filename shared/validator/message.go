package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"oneof":       "{field} must be one of {param}",
	"max":         "{field} must be less than or equal to {param}",
	"min":         "{field} must be greater than or equal to {param}",
	"email":       "{field} must be a valid email address",
	"url":         "{field} must be a valid URL",
	"uuid":        "{field} must be a valid id",
	"nefield":     "{field} must differ from {param}",
	"day":         "{field} must be a date formatted as YYYY-MM-DD",
	"hhmm":        "{field} must be a time formatted as HH:MM",
	"slug":        "{field} must contain lowercase letters, digits and dashes only",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// jsonName reports fields by the name clients send them under.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}

	return name
}

// message renders the first failed rule a client can act on.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		tmpl, ok := messages[valErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(tmpl)
	}

	return valErrors.Error()
}
