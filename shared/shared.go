package shared

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"realty/shared/cache"
	"realty/shared/constant"
	"realty/shared/dto"
	"realty/shared/timezone"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Debug().Err(err).Str("value", value).Msg("ignoring non boolean value")

		return nil
	}

	return &boolValue
}

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields maps the non-zero db-tagged fields of data, a struct or a
// pointer to one, to an update set stamped with modified_at and modified_by.
func TransformFields(data any, username string) map[string]any {
	val := reflect.Indirect(reflect.ValueOf(data))
	typ := val.Type()

	updatedFields := make(map[string]any, typ.NumField()+2)

	for index := range val.NumField() {
		column := typ.Field(index).Tag.Get("db")
		if column == "" || column == "-" {
			continue
		}

		if field := val.Field(index); !field.IsZero() {
			updatedFields[column] = field.Interface()
		}
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery hashes pagination and filters so list caches stay bounded in key length.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	raw, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Where  string          `json:"where"`
		Args   map[string]any  `json:"args"`
	}{params, where, args})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache key query")

		return BuildCacheKey(prefix, constant.Empty)
	}

	sum := sha1.Sum(raw) //nolint:gosec

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:]))
}

// InvalidateCaches removes every key under prefix, errors are only logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}

var slugReplacer = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
	"Ç", "c", "Ğ", "g", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u",
	"&", " and ",
)

// Slugify lowercases s, folds Turkish letters to ASCII and joins words with dashes.
func Slugify(s string) string {
	s = strings.ToLower(slugReplacer.Replace(s))

	var b strings.Builder

	dash := false

	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)

			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')

			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// ShortID returns a compact suffix used to disambiguate slugs.
func ShortID(id string) string {
	id = strings.ReplaceAll(id, "-", constant.Empty)
	if len(id) > 6 {
		return id[:6]
	}

	return id
}

func FormatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%s %s", strconv.FormatFloat(amount, 'f', 2, 64), currency)
}
