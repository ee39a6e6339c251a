package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"realty/config"
	"realty/infras/gcal"
	"realty/infras/otel/mocks"
	calendarMocks "realty/internal/domains/calendar/mocks"
	calService "realty/internal/domains/calendar/service"
	notifMocks "realty/internal/domains/notification/mocks"
	notifModel "realty/internal/domains/notification/model"
	reservationMocks "realty/internal/domains/reservation/mocks"
	"realty/internal/domains/reservation/model"
	"realty/internal/domains/reservation/model/dto"
	"realty/internal/domains/reservation/service"
	cacheMocks "realty/shared/cache/mocks"
	gDto "realty/shared/dto"
	"realty/shared/failure"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo         *reservationMocks.MockReservation
	calendar     *calendarMocks.MockCalendar
	notification *notifMocks.MockNotification
	cache        *cacheMocks.MockRedisCache
	svc          service.Reservation
}

func newFixture(t *testing.T, configure ...func(*config.Config)) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Name = "Realty"
	cfg.Cache.TTL = 60
	cfg.Booking.Timezone = "UTC"
	cfg.Booking.SlotMinutes = 60
	cfg.Booking.OpenHour = 9
	cfg.Booking.CloseHour = 18

	for _, fn := range configure {
		if fn != nil {
			fn(cfg)
		}
	}

	f := fixture{
		repo:         reservationMocks.NewMockReservation(ctrl),
		calendar:     calendarMocks.NewMockCalendar(ctrl),
		notification: notifMocks.NewMockNotification(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.calendar, f.notification, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func validRequest() dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		Name:    "Ayşe Yılmaz",
		Email:   "ayse@example.com",
		Phone:   "+90 555 000 00 00",
		Message: "Looking for a 3+1 in Çankaya",
		Date:    "2099-01-05",
		Time:    "10:00",
	}
}

func inIstanbul(cfg *config.Config) {
	cfg.Booking.Timezone = "Europe/Istanbul"
}

func TestReservationService_Create(t *testing.T) {
	start := time.Date(2099, 1, 5, 10, 0, 0, 0, time.UTC)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	tests := []struct {
		name      string
		configure func(cfg *config.Config)
		req       func() dto.CreateReservationRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   string
		wantLink  string
	}{
		{
			name: "books the slot and attaches a meeting",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Reservation) error {
						assert.Equal(t, start, m.StartAt)
						assert.Equal(t, start.Add(time.Hour), m.EndAt)
						assert.Equal(t, model.StatusPending, m.Status)
						assert.Equal(t, "en", m.Locale)
						assert.Equal(t, "guest", m.CreatedBy)

						return nil
					})
				f.calendar.EXPECT().
					CreateEvent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req gcal.EventRequest) (gcal.Event, error) {
						assert.NotEmpty(t, req.ID)
						assert.Equal(t, "ayse@example.com", req.AttendeeEmail)
						assert.Equal(t, "UTC", req.TimeZone)
						assert.Contains(t, req.Description, "Çankaya")

						return gcal.Event{ID: "evt1", MeetLink: "https://meet.google.com/abc-defg-hij"}, nil
					})
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "evt1", fields[model.FieldCalendarEventID])
						assert.Equal(t, "https://meet.google.com/abc-defg-hij", fields[model.FieldMeetLink])

						return nil
					})
				f.notification.EXPECT().
					ReservationCreated(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, data notifModel.ReservationData) error {
						assert.Equal(t, "https://meet.google.com/abc-defg-hij", data.MeetLink)
						assert.Equal(t, "UTC", data.TimeZone)

						return nil
					})
			},
			wantLink: "https://meet.google.com/abc-defg-hij",
		},
		{
			name: "disconnected calendar keeps the booking",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(gcal.Event{}, calService.ErrNotConnected)
				f.notification.EXPECT().ReservationCreated(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "calendar and mail failures are not fatal",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(gcal.Event{}, errors.New("quota"))
				f.notification.EXPECT().ReservationCreated(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
			},
		},
		{
			name: "slot already taken",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent booking hits the unique index",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "slot in the past",
			req: func() dto.CreateReservationRequest {
				r := validRequest()
				r.Date = "2001-01-01"

				return r
			},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "before opening hours",
			req: func() dto.CreateReservationRequest {
				r := validRequest()
				r.Time = "08:00"

				return r
			},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "ends after closing hours",
			req: func() dto.CreateReservationRequest {
				r := validRequest()
				r.Time = "18:00"

				return r
			},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "not aligned to the slot length",
			req: func() dto.CreateReservationRequest {
				r := validRequest()
				r.Time = "10:30"

				return r
			},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "slot is computed in the business timezone",
			configure: inIstanbul,
			req:       validRequest,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Reservation) error {
						assert.True(t, m.StartAt.Equal(time.Date(2099, 1, 5, 7, 0, 0, 0, time.UTC)), m.StartAt.String())
						assert.True(t, m.EndAt.Equal(time.Date(2099, 1, 5, 8, 0, 0, 0, time.UTC)), m.EndAt.String())

						return nil
					})
				f.calendar.EXPECT().
					CreateEvent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req gcal.EventRequest) (gcal.Event, error) {
						assert.Equal(t, "Europe/Istanbul", req.TimeZone)

						return gcal.Event{}, calService.ErrNotConnected
					})
				f.notification.EXPECT().
					ReservationCreated(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, data notifModel.ReservationData) error {
						assert.Equal(t, "Europe/Istanbul", data.TimeZone)

						return nil
					})
			},
		},
		{
			name:      "opening hours are judged in local time",
			configure: inIstanbul,
			req: func() dto.CreateReservationRequest {
				r := validRequest()
				r.Time = "18:00" // 15:00 UTC, still inside UTC opening hours

				return r
			},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
			wantErr:   "between 09:00 and 18:00",
		},
		{
			name: "inside the lead time",
			configure: func(cfg *config.Config) {
				cfg.Booking.LeadMinutes = 3 * 24 * 60
			},
			req: func() dto.CreateReservationRequest {
				r := validRequest()
				r.Date = tomorrow

				return r
			},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
			wantErr:   "at least 4320 minutes in advance",
		},
		{
			name: "repository failure",
			req:  validRequest,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.configure)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), tt.req())

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, "2099-01-05", res.Date)
			assert.Equal(t, tt.wantLink, res.MeetLink)
		})
	}
}

func TestReservationService_Location(t *testing.T) {
	tests := []struct {
		name    string
		booking string
		app     string
		want    string
	}{
		{name: "booking zone wins", booking: "Europe/Istanbul", app: "Europe/Berlin", want: "Europe/Istanbul"},
		{name: "falls back to the configured app zone", app: "Europe/Istanbul", want: "Europe/Istanbul"},
		{name: "nothing configured", want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(cfg *config.Config) {
				cfg.Booking.Timezone = tt.booking
				cfg.App.Timezone = tt.app
			})

			assert.Equal(t, tt.want, f.svc.Location().String())
		})
	}
}

func TestReservationService_UpdateStatus(t *testing.T) {
	pending := model.Reservation{
		ID:      "0b9c2f6e-6a43-4c36-a4f1-6f0e4f1b7c11",
		Name:    "Ayşe",
		Email:   "ayse@example.com",
		Status:  model.StatusPending,
		StartAt: time.Date(2099, 1, 5, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2099, 1, 5, 11, 0, 0, 0, time.UTC),
	}

	confirmed := pending
	confirmed.Status = model.StatusConfirmed
	confirmed.CalendarEventID = "evt1"
	confirmed.MeetLink = "https://meet.google.com/abc"

	tests := []struct {
		name      string
		req       dto.UpdateStatusRequest
		setupMock func(f fixture)
		wantCode  int
		check     func(t *testing.T, res dto.ReservationResponse)
	}{
		{
			name: "confirm retries the meeting",
			req:  dto.UpdateStatusRequest{Status: model.StatusConfirmed},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(gcal.Event{ID: "evt2", MeetLink: "https://meet.google.com/new"}, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
						assert.Equal(t, "evt2", fields[model.FieldCalendarEventID])

						return nil
					})
				f.notification.EXPECT().ReservationStatusChanged(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.ReservationResponse) {
				assert.Equal(t, model.StatusConfirmed, res.Status)
				assert.Equal(t, "https://meet.google.com/new", res.MeetLink)
			},
		},
		{
			name: "cancel removes the meeting",
			req:  dto.UpdateStatusRequest{Status: model.StatusCancelled, Reason: "customer request"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
				f.calendar.EXPECT().DeleteEvent(gomock.Any(), "evt1").Return(nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "", fields[model.FieldCalendarEventID])
						assert.Equal(t, "customer request", fields[model.FieldCancelReason])

						return nil
					})
				f.notification.
					EXPECT().
					ReservationStatusChanged(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, data notifModel.ReservationData) error {
						assert.Equal(t, model.StatusCancelled, data.Status)
						assert.Equal(t, "customer request", data.Reason)

						return nil
					})
			},
			check: func(t *testing.T, res dto.ReservationResponse) {
				assert.Equal(t, model.StatusCancelled, res.Status)
				assert.Empty(t, res.MeetLink)
			},
		},
		{
			name: "same status is a no-op",
			req:  dto.UpdateStatusRequest{Status: model.StatusConfirmed},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
			},
			check: func(t *testing.T, res dto.ReservationResponse) {
				assert.Equal(t, model.StatusConfirmed, res.Status)
			},
		},
		{
			name: "invalid transition",
			req:  dto.UpdateStatusRequest{Status: model.StatusPending},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "calendar delete failure keeps the reservation",
			req:  dto.UpdateStatusRequest{Status: model.StatusCancelled},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
				f.calendar.EXPECT().DeleteEvent(gomock.Any(), "evt1").Return(errors.New("google 500"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "not found",
			req:  dto.UpdateStatusRequest{Status: model.StatusConfirmed},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.UpdateStatus(context.Background(), tt.req, pending.ID)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestReservationService_Delete(t *testing.T) {
	t.Run("removes the row and the meeting", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldCalendarEventID).
			Return(model.Reservation{ID: "r1", CalendarEventID: "evt1"}, nil)
		f.calendar.EXPECT().DeleteEvent(gomock.Any(), "evt1").Return(nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), "r1"))
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("disconnected calendar does not block deletion", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{ID: "r1", CalendarEventID: "evt1"}, nil)
		f.calendar.EXPECT().DeleteEvent(gomock.Any(), "evt1").Return(calService.ErrNotConnected)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), "r1"))
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		err := f.svc.Delete(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReservationService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(context.Background(), dto.UpdateReservationRequest{}, "r1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("updates provided fields", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "+90 555", fields[model.FieldPhone])
				assert.NotContains(t, fields, model.FieldName)

				return nil
			})

		require.NoError(t, f.svc.Update(context.Background(), dto.UpdateReservationRequest{Phone: "+90 555"}, "r1"))
		time.Sleep(10 * time.Millisecond)
	})
}

func TestReservationService_GetAll(t *testing.T) {
	f := newFixture(t)

	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Reservation{{ID: "r1"}, {ID: "r2"}}, nil)
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 60).Return(nil).Times(2)

	res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Reservations, 2)
}

func TestReservationService_Get(t *testing.T) {
	t.Run("cache hit skips the repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "reservation:get:r1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, v any) error {
				v.(*dto.ReservationResponse).ID = "r1"

				return nil
			})

		res, err := f.svc.Get(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "r1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		_, err := f.svc.Get(context.Background(), "r1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReservationService_Today(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
			assert.Equal(t, model.FieldStartAt, params.SortBy)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "reservations.slot_date = :slot_date")
			assert.Contains(t, where, "reservations.status != :status")
			assert.Equal(t, "2099-01-05", args["slot_date"])

			return []model.Reservation{{ID: "r1", Name: "Ayşe"}}, nil
		})

	res, err := f.svc.Today(context.Background(), "2099-01-05")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Ayşe", res[0].Name)

	_, err = f.svc.Today(context.Background(), "05/01/2099")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestReservationService_ExportICS(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{
		{
			ID:       "r1",
			Name:     "Ayşe",
			Email:    "ayse@example.com",
			Status:   model.StatusConfirmed,
			StartAt:  time.Date(2099, 1, 5, 10, 0, 0, 0, time.UTC),
			EndAt:    time.Date(2099, 1, 5, 11, 0, 0, 0, time.UTC),
			MeetLink: "https://meet.google.com/abc-defg-hij",
		},
		{
			ID:      "r2",
			Name:    "Mehmet",
			Email:   "mehmet@example.com",
			Status:  model.StatusPending,
			StartAt: time.Date(2099, 1, 6, 9, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2099, 1, 6, 10, 0, 0, 0, time.UTC),
		},
	}, nil)

	raw, err := f.svc.ExportICS(context.Background(), dto.ExportRequest{From: "2099-01-01", To: "2099-01-31"})
	require.NoError(t, err)

	out := string(raw)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "UID:r1")
	assert.Contains(t, out, "DTSTART:20990105T100000Z")
	assert.Contains(t, out, "STATUS:CONFIRMED")
	assert.Contains(t, out, "URL:https://meet.google.com/abc-defg-hij")
	assert.Contains(t, out, "STATUS:TENTATIVE")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))

	_, err = f.svc.ExportICS(context.Background(), dto.ExportRequest{From: "2099-02-01", To: "2099-01-01"})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
