package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"realty/config"
	"realty/infras/otel/mocks"
	cacheMocks "realty/shared/cache/mocks"
	"realty/shared/constant"
	"realty/transport/http/middleware"
)

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name           string
		enable         bool
		setupMock      func(m *cacheMocks.MockRedisCache)
		wantCode       int
		wantRemaining  string
		wantRetryAfter string
	}{
		{
			name:      "disabled",
			setupMock: func(*cacheMocks.MockRedisCache) {},
			wantCode:  http.StatusAccepted,
		},
		{
			name:   "within budget",
			enable: true,
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().
					Increment(gomock.Any(), "limiter:/v1/contact:203.0.113.7", 60).
					Return(int64(2), 58*time.Second, nil)
			},
			wantCode:      http.StatusAccepted,
			wantRemaining: "1",
		},
		{
			name:   "over budget",
			enable: true,
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(4), 1500*time.Millisecond, nil)
			},
			wantCode:       http.StatusTooManyRequests,
			wantRemaining:  "0",
			wantRetryAfter: "2",
		},
		{
			name:   "redis down fails open",
			enable: true,
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), time.Duration(0), errors.New("dial tcp: refused"))
			},
			wantCode: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setupMock(mockCache)

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = tt.enable
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, mockCache)

			mux := chi.NewRouter()
			mux.Route("/v1", func(r chi.Router) {
				r.With(app.RateLimit()).Post("/contact", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusAccepted)
				})
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/contact", nil)
			req.RemoteAddr = "203.0.113.7:51234"

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
			assert.Equal(t, tt.wantRetryAfter, rec.Header().Get(constant.RequestHeaderRetryAfter))
		})
	}
}
