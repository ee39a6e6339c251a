package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"realty/config"
	"realty/infras/kafka"
	kafkaMocks "realty/infras/kafka/mocks"
	notifMocks "realty/internal/domains/notification/mocks"
	resMocks "realty/internal/domains/reservation/mocks"
	"realty/transport/worker"
)

func TestWorker_Run(t *testing.T) {
	tests := []struct {
		name      string
		cfg       func(*config.Config)
		setupMock func(k *kafkaMocks.MockClient, r *resMocks.MockReservationService)
		wantErr   bool
	}{
		{
			name:      "nothing enabled waits for shutdown",
			cfg:       func(*config.Config) {},
			setupMock: func(*kafkaMocks.MockClient, *resMocks.MockReservationService) {},
		},
		{
			name: "consumer runs until shutdown",
			cfg: func(c *config.Config) {
				c.Kafka.Enable = true
				c.Kafka.ConsumerGroup = "realty-worker"
				c.Kafka.Topics.Notification = "realty.notifications"
			},
			setupMock: func(k *kafkaMocks.MockClient, _ *resMocks.MockReservationService) {
				k.EXPECT().
					Consume(gomock.Any(), "realty-worker", "realty.notifications", gomock.Any()).
					DoAndReturn(func(ctx context.Context, _, _ string, _ kafka.Handler) error {
						<-ctx.Done()

						return nil
					})
			},
		},
		{
			name: "consumer failure stops the worker",
			cfg: func(c *config.Config) {
				c.Kafka.Enable = true
				c.Kafka.Topics.Notification = "realty.notifications"
			},
			setupMock: func(k *kafkaMocks.MockClient, _ *resMocks.MockReservationService) {
				k.EXPECT().
					Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("topic name cannot be empty"))
			},
			wantErr: true,
		},
		{
			name: "scheduler runs until shutdown",
			cfg: func(c *config.Config) {
				c.Digest.Enable = true
				c.Digest.Cron = "0 7 * * *"
			},
			setupMock: func(_ *kafkaMocks.MockClient, r *resMocks.MockReservationService) {
				r.EXPECT().Location().Return(time.UTC)
			},
		},
		{
			name: "invalid schedule",
			cfg: func(c *config.Config) {
				c.Digest.Enable = true
				c.Digest.Cron = "every morning"
			},
			setupMock: func(_ *kafkaMocks.MockClient, r *resMocks.MockReservationService) {
				r.EXPECT().Location().Return(time.UTC)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockKafka := kafkaMocks.NewMockClient(ctrl)
			mockNotification := notifMocks.NewMockNotification(ctrl)
			mockDigest := notifMocks.NewMockDigest(ctrl)
			mockReservation := resMocks.NewMockReservationService(ctrl)

			cfg := &config.Config{}
			tt.cfg(cfg)
			tt.setupMock(mockKafka, mockReservation)

			w := worker.New(cfg, mockKafka, mockNotification, mockDigest, mockReservation)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			err := w.Run(ctx)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}
