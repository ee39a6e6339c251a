package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"realty/config"
	"realty/infras/gcal"
	gcalMocks "realty/infras/gcal/mocks"
	"realty/infras/otel/mocks"
	calendarMocks "realty/internal/domains/calendar/mocks"
	"realty/internal/domains/calendar/model"
	"realty/internal/domains/calendar/model/dto"
	"realty/internal/domains/calendar/service"
	"realty/shared/cache"
	"realty/shared/failure"
	cacheMocks "realty/shared/cache/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/oauth2"
)

type fixture struct {
	repo   *calendarMocks.MockCalendarCredential
	client *gcalMocks.MockClient
	cache  *cacheMocks.MockRedisCache
	svc    service.Calendar
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.External.Google.StateTTLSeconds = 300

	f := fixture{
		repo:   calendarMocks.NewMockCalendarCredential(ctrl),
		client: gcalMocks.NewMockClient(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.client, cfg, f.cache, mocks.NewOtel())

	return f
}

func TestCalendarService_AuthURL(t *testing.T) {
	f := newFixture(t)

	var savedKey string

	f.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), "pending", 300).
		DoAndReturn(func(_ context.Context, key string, _ any, _ int) error {
			savedKey = key

			return nil
		})
	f.client.EXPECT().AuthCodeURL(gomock.Any()).Return("https://accounts.google.com/o/oauth2/auth?state=x")

	res, err := f.svc.AuthURL(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.State)
	assert.Equal(t, "calendar:state:"+res.State, savedKey)
	assert.Contains(t, res.URL, "accounts.google.com")
}

func TestCalendarService_Callback(t *testing.T) {
	req := dto.CallbackRequest{State: "state-1", Code: "code-1"}
	token := (&oauth2.Token{AccessToken: "a", RefreshToken: "r"}).WithExtra(map[string]any{"scope": "calendar.events"})

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "first connection inserts credential",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Pop(gomock.Any(), "calendar:state:state-1", gomock.Any()).Return(nil)
				f.client.EXPECT().Exchange(gomock.Any(), "code-1").Return(token, nil)
				f.client.EXPECT().AccountEmail(gomock.Any(), "r").Return("ops@example.com", nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.CalendarCredential) error {
						assert.Equal(t, model.CredentialID, m.ID)
						assert.Equal(t, "r", m.RefreshToken)
						assert.Equal(t, "ops@example.com", m.AccountEmail)
						assert.Equal(t, "calendar.events", m.Scopes)

						return nil
					})
				f.cache.EXPECT().Delete(gomock.Any(), "calendar:status").Return(nil).AnyTimes()
			},
		},
		{
			name: "reconnection updates credential",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Pop(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.client.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(token, nil)
				f.client.EXPECT().AccountEmail(gomock.Any(), gomock.Any()).Return("", errors.New("userinfo down"))
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name: "unknown state",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Pop(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
			},
			wantErr: true,
		},
		{
			name: "missing refresh token",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Pop(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.client.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(nil, gcal.ErrMissingRefreshToken)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "token endpoint failure",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Pop(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.client.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(nil, errors.New("oauth2: server response missing access_token"))
			},
			wantErr:  true,
			wantCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Callback(context.Background(), req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCalendarService_CreateEvent(t *testing.T) {
	t.Run("not connected", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CalendarCredential{}, nil)

		_, err := f.svc.CreateEvent(context.Background(), gcal.EventRequest{ID: "r-1"})
		assert.ErrorIs(t, err, service.ErrNotConnected)
	})

	t.Run("uses stored refresh token", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CalendarCredential{ID: model.CredentialID, RefreshToken: "r"}, nil)
		f.client.EXPECT().CreateEvent(gomock.Any(), "r", gomock.Any()).Return(gcal.Event{ID: "e", MeetLink: "https://meet.google.com/x"}, nil)

		event, err := f.svc.CreateEvent(context.Background(), gcal.EventRequest{ID: "r-1"})
		require.NoError(t, err)
		assert.Equal(t, "https://meet.google.com/x", event.MeetLink)
	})
}

func TestCalendarService_DeleteEvent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.DeleteEvent(context.Background(), ""))

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CalendarCredential{ID: model.CredentialID, RefreshToken: "r"}, nil)
	f.client.EXPECT().DeleteEvent(gomock.Any(), "r", "e").Return(nil)

	require.NoError(t, f.svc.DeleteEvent(context.Background(), "e"))
}

func TestCalendarService_Status(t *testing.T) {
	f := newFixture(t)

	connectedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	f.cache.EXPECT().Get(gomock.Any(), "calendar:status", gomock.Any()).Return(cache.Nil)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CalendarCredential{
		ID: model.CredentialID, RefreshToken: "r", AccountEmail: "ops@example.com", ConnectedAt: connectedAt,
	}, nil)
	f.cache.EXPECT().Save(gomock.Any(), "calendar:status", gomock.Any(), 60).Return(nil).AnyTimes()

	res, err := f.svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Connected)
	assert.Equal(t, "ops@example.com", res.AccountEmail)
	assert.Equal(t, connectedAt, *res.ConnectedAt)

	time.Sleep(10 * time.Millisecond)
}
