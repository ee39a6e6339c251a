package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"realty/shared/constant"
	"realty/shared/failure"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	val "github.com/go-playground/validator/v10"
)

const sniffLen = 512

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var instance = sync.OnceValue(func() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	custom := map[string]val.Func{
		"day":         layout(constant.DayFormat),
		"hhmm":        layout(constant.ClockFormat),
		"slug":        slug,
		"mimetypes":   mimetypes,
		"maxfilesize": maxFileSize,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
})

func layout(format string) val.Func {
	return func(field val.FieldLevel) bool {
		_, err := time.Parse(format, field.Field().String())

		return err == nil
	}
}

func slug(field val.FieldLevel) bool {
	return slugRe.MatchString(field.Field().String())
}

// mimetypes sniffs the first bytes of an uploaded file; the Content-Type the
// client declared is ignored.
func mimetypes(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	contentType, err := sniff(&file)
	if err != nil {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

func sniff(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	buf := make([]byte, sniffLen)

	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}

	contentType, _, _ := strings.Cut(http.DetectContentType(buf[:n]), ";")

	return contentType, nil
}

// maxfilesize takes megabytes, fractions allowed.
func maxFileSize(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	maxMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(file.Size) <= maxMB*1024*1024
}

// Validate decodes a JSON body into data and validates it. Failures come back
// as 400s carrying the first readable message.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := instance().Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := instance().Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
