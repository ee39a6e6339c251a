package digest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"realty/infras/otel/mocks"
	notifMocks "realty/internal/domains/notification/mocks"
	"realty/internal/domains/notification/digest"
	"realty/internal/domains/notification/model"
	reservationMocks "realty/internal/domains/reservation/mocks"
	resDto "realty/internal/domains/reservation/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDigest_Send(t *testing.T) {
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	agenda := []resDto.ReservationResponse{
		{ID: "r1", Name: "Ayşe", Email: "ayse@example.com", Status: "confirmed", MeetLink: "https://meet.google.com/x"},
		{ID: "r2", Name: "Mehmet", Email: "mehmet@example.com", Status: "pending"},
	}

	tests := []struct {
		name      string
		day       string
		setupMock func(res *reservationMocks.MockReservationService, notif *notifMocks.MockNotification)
		wantSent  bool
		wantCount int
		wantErr   bool
	}{
		{
			name: "sends the agenda",
			day:  "2099-01-05",
			setupMock: func(res *reservationMocks.MockReservationService, notif *notifMocks.MockNotification) {
				res.EXPECT().Today(gomock.Any(), "2099-01-05").Return(agenda, nil)
				notif.EXPECT().
					Digest(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, data model.DigestData) error {
						assert.Equal(t, "2099-01-05", data.Day)
						assert.Equal(t, "Europe/Istanbul", data.TimeZone)
						require.Len(t, data.Reservations, 2)
						assert.Equal(t, "https://meet.google.com/x", data.Reservations[0].MeetLink)

						return nil
					})
			},
			wantSent:  true,
			wantCount: 2,
		},
		{
			name: "empty day sends nothing",
			day:  "2099-01-06",
			setupMock: func(res *reservationMocks.MockReservationService, _ *notifMocks.MockNotification) {
				res.EXPECT().Today(gomock.Any(), "2099-01-06").Return(nil, nil)
			},
		},
		{
			name: "defaults to today in the business timezone",
			setupMock: func(res *reservationMocks.MockReservationService, _ *notifMocks.MockNotification) {
				today := time.Now().In(istanbul).Format("2006-01-02")
				res.EXPECT().Today(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, day string) ([]resDto.ReservationResponse, error) {
						assert.Contains(t, []string{today, time.Now().Add(time.Minute).In(istanbul).Format("2006-01-02")}, day)

						return nil, nil
					})
			},
		},
		{
			name: "mail failure is reported",
			day:  "2099-01-05",
			setupMock: func(res *reservationMocks.MockReservationService, notif *notifMocks.MockNotification) {
				res.EXPECT().Today(gomock.Any(), gomock.Any()).Return(agenda, nil)
				notif.EXPECT().Digest(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
			},
			wantCount: 2,
			wantErr:   true,
		},
		{
			name: "reservation lookup failure",
			day:  "2099-01-05",
			setupMock: func(res *reservationMocks.MockReservationService, _ *notifMocks.MockNotification) {
				res.EXPECT().Today(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			res := reservationMocks.NewMockReservationService(ctrl)
			notif := notifMocks.NewMockNotification(ctrl)

			res.EXPECT().Location().Return(istanbul).AnyTimes()
			tt.setupMock(res, notif)

			got, err := digest.New(res, notif, mocks.NewOtel()).Send(context.Background(), tt.day)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantSent, got.Sent)
			assert.Equal(t, tt.wantCount, got.Count)
		})
	}
}
