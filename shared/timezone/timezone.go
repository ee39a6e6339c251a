// Package timezone pins wall-clock time to APP_TIMEZONE. Zone names must be
// IANA names ("Europe/Istanbul", "UTC"); anything else falls back to UTC.
package timezone

import (
	"realty/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var appLocation = sync.OnceValue(func() *time.Location {
	return load(config.Get().App.Timezone, time.UTC)
})

func Now() time.Time {
	return time.Now().In(appLocation())
}

func Format(t time.Time, layout string) string {
	return t.In(appLocation()).Format(layout)
}

func GetLocation() *time.Location {
	return appLocation()
}

// Resolve loads name, falling back to the zone named by fallback and then to
// UTC when either is empty or unknown.
func Resolve(name, fallback string) *time.Location {
	return load(name, load(fallback, time.UTC))
}

func load(name string, fallback *time.Location) *time.Location {
	if name == "" {
		return fallback
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Str("fallback", fallback.String()).Msg("unknown timezone")

		return fallback
	}

	return loc
}
