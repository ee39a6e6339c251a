package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"realty/config"
	kafkaMocks "realty/infras/kafka/mocks"
	"realty/infras/mailer"
	mailerMocks "realty/infras/mailer/mocks"
	"realty/infras/otel/mocks"
	"realty/internal/domains/notification/model"
	"realty/internal/domains/notification/model/dto"
	"realty/internal/domains/notification/service"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/mock/gomock"
)

func testConfig(kafkaEnabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Enable = kafkaEnabled
	cfg.Kafka.Topics.Notification = "realty.notifications"
	cfg.Mail.OperatorAddress = "ops@example.com"

	return cfg
}

func reservation() model.ReservationData {
	start := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

	return model.ReservationData{
		ID:       "r-1",
		Name:     "Ada",
		Email:    "ada@example.com",
		Locale:   "en",
		Status:   "pending",
		TimeZone: "UTC",
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
	}
}

func TestNotificationService_ReservationCreated_Kafka(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockMailer := mailerMocks.NewMockMailer(ctrl)

	svc := service.New(testConfig(true), mockKafka, mockMailer, mocks.NewOtel())

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), "realty.notifications", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...any) error {
			require.Len(t, messages, 2)

			return nil
		})

	require.NoError(t, svc.ReservationCreated(context.Background(), reservation()))
}

func TestNotificationService_ReservationCreated_Direct(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockMailer := mailerMocks.NewMockMailer(ctrl)

	svc := service.New(testConfig(false), mockKafka, mockMailer, mocks.NewOtel())

	delivered := make(chan mailer.Mail, 2)

	mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m mailer.Mail) error {
			delivered <- m

			return nil
		}).
		Times(2)

	require.NoError(t, svc.ReservationCreated(context.Background(), reservation()))

	recipients := map[string]string{}

	for range 2 {
		select {
		case m := <-delivered:
			recipients[m.To[0]] = m.ReplyTo
		case <-time.After(time.Second):
			t.Fatal("notification was not delivered")
		}
	}

	assert.Equal(t, "ops@example.com", recipients["ada@example.com"])
	assert.Equal(t, "ada@example.com", recipients["ops@example.com"])
}

func TestNotificationService_Dispatch_PublishError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	svc := service.New(testConfig(true), mockKafka, mailerMocks.NewMockMailer(ctrl), mocks.NewOtel())

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("broker down"))

	err := svc.Dispatch(context.Background(), model.Message{Kind: model.KindContactOperator, To: []string{"ops@example.com"}})
	assert.Error(t, err)
}

func TestNotificationService_Handle(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockMailer := mailerMocks.NewMockMailer(ctrl)
	svc := service.New(testConfig(true), kafkaMocks.NewMockClient(ctrl), mockMailer, mocks.NewOtel())

	mockMailer.EXPECT().
		Send(gomock.Any(), mailer.Mail{To: []string{"ops@example.com"}, Subject: "s", Text: "t"}).
		Return(nil)

	err := svc.Handle(context.Background(), kafkaGo.Message{
		Key:   []byte(model.KindDigestDaily),
		Value: []byte(`{"kind":"digest.daily","to":["ops@example.com"],"subject":"s","text":"t"}`),
	})
	require.NoError(t, err)

	// malformed payloads are dropped without reaching the mailer
	require.NoError(t, svc.Handle(context.Background(), kafkaGo.Message{Value: []byte("{")}))

	mockMailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	err = svc.Handle(context.Background(), kafkaGo.Message{Value: []byte(`{"kind":"digest.daily","to":["ops@example.com"]}`)})
	assert.Error(t, err)
}

func TestNotificationService_Handle_Undeliverable(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		sendErr error
		wantErr bool
	}{
		{
			name:    "no recipient is dropped",
			value:   `{"kind":"reservation.customer","to":[]}`,
			sendErr: mailer.ErrNoRecipient,
		},
		{
			name:    "rejected address is dropped",
			value:   `{"kind":"reservation.customer","to":["ada@"]}`,
			sendErr: fmt.Errorf("%w: recipient: bad syntax", mailer.ErrInvalidAddress),
		},
		{
			name:    "recipient refused by the server is dropped",
			value:   `{"kind":"reservation.status","to":["gone@example.com"]}`,
			sendErr: fmt.Errorf("failed to send mail: %w", &mail.SendError{Reason: mail.ErrSMTPRcptTo}),
		},
		{
			name:    "transient failure is retried",
			value:   `{"kind":"reservation.status","to":["ada@example.com"]}`,
			sendErr: errors.New("dial tcp: i/o timeout"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockMailer := mailerMocks.NewMockMailer(ctrl)
			svc := service.New(testConfig(true), kafkaMocks.NewMockClient(ctrl), mockMailer, mocks.NewOtel())

			mockMailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(tt.sendErr)

			err := svc.Handle(context.Background(), kafkaGo.Message{Value: []byte(tt.value)})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func slowMailer(ctrl *gomock.Controller, delay time.Duration, sent *atomic.Int32) *mailerMocks.MockMailer {
	mockMailer := mailerMocks.NewMockMailer(ctrl)
	mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, mailer.Mail) error {
			time.Sleep(delay)
			sent.Add(1)

			return nil
		}).
		AnyTimes()

	return mockMailer
}

func TestNotificationService_Digest_DeliversBeforeReturning(t *testing.T) {
	ctrl := gomock.NewController(t)

	var sent atomic.Int32

	svc := service.New(testConfig(false), kafkaMocks.NewMockClient(ctrl), slowMailer(ctrl, 20*time.Millisecond, &sent), mocks.NewOtel())

	err := svc.Digest(context.Background(), model.DigestData{Day: "2026-05-04", TimeZone: "UTC"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), sent.Load())
}

func TestNotificationService_Digest_DeliveryError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockMailer := mailerMocks.NewMockMailer(ctrl)
	svc := service.New(testConfig(false), kafkaMocks.NewMockClient(ctrl), mockMailer, mocks.NewOtel())

	mockMailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	err := svc.Digest(context.Background(), model.DigestData{Day: "2026-05-04", TimeZone: "UTC"})
	assert.Error(t, err)
}

func TestNotificationService_Flush(t *testing.T) {
	ctrl := gomock.NewController(t)

	var sent atomic.Int32

	svc := service.New(testConfig(false), kafkaMocks.NewMockClient(ctrl), slowMailer(ctrl, 20*time.Millisecond, &sent), mocks.NewOtel())

	require.NoError(t, svc.ReservationCreated(context.Background(), reservation()))
	require.NoError(t, svc.Flush(context.Background()))

	assert.Equal(t, int32(2), sent.Load())

	// nothing pending
	require.NoError(t, svc.Flush(context.Background()))
}

func TestNotificationService_Flush_Deadline(t *testing.T) {
	ctrl := gomock.NewController(t)

	var sent atomic.Int32

	svc := service.New(testConfig(false), kafkaMocks.NewMockClient(ctrl), slowMailer(ctrl, 200*time.Millisecond, &sent), mocks.NewOtel())

	require.NoError(t, svc.ReservationStatusChanged(context.Background(), reservation()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, svc.Flush(ctx))

	require.NoError(t, svc.Flush(context.Background()))
	assert.Equal(t, int32(1), sent.Load())
}

func TestNotificationService_Contact(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	svc := service.New(testConfig(true), mockKafka, mailerMocks.NewMockMailer(ctrl), mocks.NewOtel())

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...any) error {
			require.Len(t, messages, 1)

			return nil
		})

	err := svc.Contact(context.Background(), dto.ContactRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Viewing",
		Message: "Can I visit on Friday?",
	})
	require.NoError(t, err)
}

func TestNotificationService_Digest_NoOperator(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := testConfig(true)
	cfg.Mail.OperatorAddress = ""

	svc := service.New(cfg, kafkaMocks.NewMockClient(ctrl), mailerMocks.NewMockMailer(ctrl), mocks.NewOtel())

	err := svc.Digest(context.Background(), model.DigestData{Day: "2026-05-04"})
	assert.Error(t, err)
}
