package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"realty/config"
	"realty/infras/kafka"
	"realty/infras/mailer"
	"realty/infras/metrics"
	"realty/infras/otel"
	"realty/internal/domains/notification/model"
	"realty/internal/domains/notification/model/dto"
	"realty/internal/domains/notification/template"
	"realty/shared/constant"
	"realty/shared/failure"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"golang.org/x/sync/semaphore"
)

// maxInFlight bounds background deliveries when Kafka is disabled.
const maxInFlight = 64

type Notification interface {
	Dispatch(ctx context.Context, msgs ...model.Message) error
	Deliver(ctx context.Context, msg model.Message) error
	Handle(ctx context.Context, message kafkaGo.Message) error
	ReservationCreated(ctx context.Context, data model.ReservationData) error
	ReservationStatusChanged(ctx context.Context, data model.ReservationData) error
	Digest(ctx context.Context, data model.DigestData) error
	Contact(ctx context.Context, req dto.ContactRequest) error
	Flush(ctx context.Context) error
}

type serviceImpl struct {
	cfg      *config.Config
	kafka    kafka.Client
	mailer   mailer.Mailer
	otel     otel.Otel
	inflight *semaphore.Weighted
}

func New(cfg *config.Config, kafkaClient kafka.Client, mail mailer.Mailer, otel otel.Otel) Notification {
	return &serviceImpl{
		cfg:      cfg,
		kafka:    kafkaClient,
		mailer:   mail,
		otel:     otel,
		inflight: semaphore.NewWeighted(maxInFlight),
	}
}

// Dispatch publishes msgs on the notification topic, or mails them in the background when
// Kafka is disabled. Background sends are awaited by Flush.
func (s *serviceImpl) Dispatch(ctx context.Context, msgs ...model.Message) error {
	return s.dispatch(ctx, false, msgs...)
}

// Flush waits for background deliveries started by Dispatch.
func (s *serviceImpl) Flush(ctx context.Context) error {
	if err := s.inflight.Acquire(ctx, maxInFlight); err != nil {
		return fmt.Errorf("notifications still in flight: %w", err)
	}

	s.inflight.Release(maxInFlight)

	return nil
}

// dispatch mails inline when wait is set, so one-shot callers only return once SMTP answered.
func (s *serviceImpl) dispatch(ctx context.Context, wait bool, msgs ...model.Message) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dispatch")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(msgs) == 0 {
		return nil
	}

	if s.cfg.Kafka.Enable {
		events := make([]kafka.Message, len(msgs))
		for i, msg := range msgs {
			events[i] = kafka.Message{Key: msg.Kind, Value: msg}
		}

		if err = s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Notification, events...); err != nil {
			log.Error().Err(err).Msg("failed to publish notifications")

			return fmt.Errorf("failed to publish notifications: %w", err)
		}

		return nil
	}

	if wait {
		return s.deliverAll(ctx, msgs)
	}

	if err = s.inflight.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to queue notifications: %w", err)
	}

	go func() {
		defer s.inflight.Release(1)

		if err := s.deliverAll(context.WithoutCancel(ctx), msgs); err != nil {
			log.Error().Err(err).Msg("failed to deliver notifications")
		}
	}()

	return nil
}

func (s *serviceImpl) deliverAll(ctx context.Context, msgs []model.Message) error {
	var errs []error

	for _, msg := range msgs {
		if err := s.Deliver(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *serviceImpl) Deliver(ctx context.Context, msg model.Message) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deliver")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("notification.kind", msg.Kind)

	err = s.mailer.Send(ctx, mailer.Mail{
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	metrics.ObserveNotification(msg.Kind, err)

	if err != nil {
		return fmt.Errorf("failed to deliver %s: %w", msg.Kind, err)
	}

	return nil
}

// Handle is the Kafka consumer entry point. Messages that can never be delivered are dropped
// so they do not block the partition; everything else is returned for a retry.
func (s *serviceImpl) Handle(ctx context.Context, message kafkaGo.Message) error {
	msg, err := kafka.DecodeKafkaMessage[model.Message](message)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("dropping malformed notification")

		return nil
	}

	err = s.Deliver(ctx, msg)
	if err != nil && mailer.IsPermanent(err) {
		log.Error().Err(err).Str("kind", msg.Kind).Strs("to", msg.To).Msg("dropping undeliverable notification")

		return nil
	}

	return err
}

func (s *serviceImpl) ReservationCreated(ctx context.Context, data model.ReservationData) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReservationCreated")
	defer scope.End()
	defer scope.TraceIfError(err)

	customer, err := template.Render(model.KindReservationCustomer, data.Locale, []string{data.Email}, data)
	if err != nil {
		return fmt.Errorf("failed to render customer notification: %w", err)
	}

	customer.ReplyTo = s.cfg.Mail.OperatorAddress
	msgs := []model.Message{customer}

	if s.cfg.Mail.OperatorAddress != "" {
		operator, err := template.Render(model.KindReservationOperator, constant.DefaultLocale, []string{s.cfg.Mail.OperatorAddress}, data)
		if err != nil {
			return fmt.Errorf("failed to render operator notification: %w", err)
		}

		operator.ReplyTo = data.Email
		msgs = append(msgs, operator)
	}

	return s.Dispatch(ctx, msgs...)
}

func (s *serviceImpl) ReservationStatusChanged(ctx context.Context, data model.ReservationData) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReservationStatusChanged")
	defer scope.End()
	defer scope.TraceIfError(err)

	msg, err := template.Render(model.KindReservationStatus, data.Locale, []string{data.Email}, data)
	if err != nil {
		return fmt.Errorf("failed to render status notification: %w", err)
	}

	msg.ReplyTo = s.cfg.Mail.OperatorAddress

	return s.Dispatch(ctx, msg)
}

func (s *serviceImpl) Digest(ctx context.Context, data model.DigestData) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Digest")
	defer scope.End()
	defer scope.TraceIfError(err)

	if s.cfg.Mail.OperatorAddress == "" {
		return failure.BadRequestFromString("operator address is not configured") // nolint:wrapcheck
	}

	msg, err := template.Render(model.KindDigestDaily, constant.DefaultLocale, []string{s.cfg.Mail.OperatorAddress}, data)
	if err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}

	return s.dispatch(ctx, true, msg)
}

func (s *serviceImpl) Contact(ctx context.Context, req dto.ContactRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Contact")
	defer scope.End()
	defer scope.TraceIfError(err)

	if s.cfg.Mail.OperatorAddress == "" {
		log.Warn().Str("from", req.Email).Msg("contact message received without operator address, dropping")

		return nil
	}

	msg, err := template.Render(model.KindContactOperator, constant.DefaultLocale, []string{s.cfg.Mail.OperatorAddress}, req.ToData())
	if err != nil {
		return fmt.Errorf("failed to render contact notification: %w", err)
	}

	msg.ReplyTo = req.Email

	return s.Dispatch(ctx, msg)
}
