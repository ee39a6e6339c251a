package calendar_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"realty/config"
	"realty/infras/otel/mocks"
	calendarMocks "realty/internal/domains/calendar/mocks"
	"realty/internal/domains/calendar/model/dto"
	"realty/internal/handlers/calendar"
	"realty/shared/failure"
)

func TestHandler_Callback(t *testing.T) {
	tests := []struct {
		name       string
		redirect   string
		query      string
		setupMock  func(m *calendarMocks.MockCalendar)
		wantStatus int
		wantQuery  url.Values
	}{
		{
			name:     "connected redirects to the admin panel",
			redirect: "https://admin.example.com/settings?tab=calendar",
			query:    "state=s1&code=c1",
			setupMock: func(m *calendarMocks.MockCalendar) {
				m.EXPECT().
					Callback(gomock.Any(), dto.CallbackRequest{State: "s1", Code: "c1"}).
					Return(nil)
			},
			wantStatus: http.StatusFound,
			wantQuery:  url.Values{"tab": {"calendar"}, "calendar": {"connected"}},
		},
		{
			name:     "denied consent redirects with reason",
			redirect: "https://admin.example.com/settings",
			query:    "state=s1&error=access_denied",
			setupMock: func(m *calendarMocks.MockCalendar) {
				m.EXPECT().
					Callback(gomock.Any(), dto.CallbackRequest{State: "s1", Error: "access_denied"}).
					Return(failure.BadRequestFromString("authorization was denied"))
			},
			wantStatus: http.StatusFound,
			wantQuery:  url.Values{"calendar": {"error"}, "reason": {"authorization was denied"}},
		},
		{
			name:       "missing state is rejected before the service",
			redirect:   "",
			query:      "code=c1",
			setupMock:  func(*calendarMocks.MockCalendar) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:     "without a redirect target the result is JSON",
			redirect: "",
			query:    "state=s1&code=c1",
			setupMock: func(m *calendarMocks.MockCalendar) {
				m.EXPECT().Callback(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCalendar := calendarMocks.NewMockCalendar(ctrl)
			tt.setupMock(mockCalendar)

			cfg := &config.Config{}
			cfg.External.Google.SuccessRedirect = tt.redirect

			handler := calendar.New(mockCalendar, cfg, mocks.NewOtel())

			router := chi.NewRouter()
			handler.Router(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendar/callback?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantQuery == nil {
				return
			}

			location, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)

			assert.Equal(t, tt.wantQuery, location.Query())
		})
	}
}
