package middleware

import (
	"math"
	"net"
	"net/http"
	"realty/shared"
	"realty/shared/constant"
	"realty/transport/http/response"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
)

// RateLimit caps anonymous writes per client and route in a fixed window.
// When Redis is unreachable requests go through unthrottled.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := a.config.App.RateLimiter
			if !limiter.Enable || limiter.MaxRequests <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, routeOf(r), a.getClientIP(r))

			count, ttl, err := a.cache.Increment(r.Context(), key, limiter.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, request not throttled")
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limiter.MaxRequests)-count), 10))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			if count > int64(limiter.MaxRequests) {
				w.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP reads RemoteAddr, which chi's RealIP has already replaced
// with the forwarded address when the app sits behind a proxy.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
