package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"realty/config"
	"realty/infras/kafka"
	"realty/infras/otel"
	"realty/internal/domains/notification/digest"
	notifService "realty/internal/domains/notification/service"
	resService "realty/internal/domains/reservation/service"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const digestTimeout = 2 * time.Minute

type Worker struct {
	Config       *config.Config
	Kafka        kafka.Client
	Notification notifService.Notification
	Digest       digest.Digest
	Reservation  resService.Reservation
}

func New(
	cfg *config.Config,
	kafka kafka.Client,
	notification notifService.Notification,
	digest digest.Digest,
	reservation resService.Reservation,
) *Worker {
	return &Worker{
		Config:       cfg,
		Kafka:        kafka,
		Notification: notification,
		Digest:       digest,
		Reservation:  reservation,
	}
}

// Serve runs until SIGINT or SIGTERM.
func (w *Worker) Serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Bool("kafka", w.Config.Kafka.Enable).
		Bool("digest", w.Config.Digest.Enable).
		Msg("Starting up worker.")

	if err := w.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Worker stopped with error")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.Notification.Flush(flushCtx); err != nil {
		log.Error().Err(err).Msg("Pending notifications were not delivered")
	}

	if err := w.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	otel.Shutdown(flushCtx)

	log.Info().Msg("Worker stopped.")
}

// Run blocks until ctx is done or one of the loops fails.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.Config.Kafka.Enable {
		g.Go(func() error {
			return w.consume(ctx)
		})
	}

	if w.Config.Digest.Enable {
		scheduler, err := w.scheduler()
		if err != nil {
			return err
		}

		g.Go(func() error {
			scheduler.Start()

			<-ctx.Done()

			<-scheduler.Stop().Done()

			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	return nil
}

func (w *Worker) consume(ctx context.Context) error {
	topic := w.Config.Kafka.Topics.Notification

	log.Info().Str("topic", topic).Msg("Consuming notifications.")

	if err := w.Kafka.Consume(ctx, w.Config.Kafka.ConsumerGroup, topic, w.Notification.Handle); err != nil {
		return fmt.Errorf("consume %s: %w", topic, err)
	}

	return nil
}

// scheduler evaluates the digest schedule in the business timezone.
func (w *Worker) scheduler() (*cron.Cron, error) {
	loc := w.Reservation.Location()

	scheduler := cron.New(cron.WithLocation(loc))

	_, err := scheduler.AddFunc(w.Config.Digest.Cron, w.sendDigest)
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", w.Config.Digest.Cron, err)
	}

	log.Info().Str("schedule", w.Config.Digest.Cron).Str("timezone", loc.String()).Msg("Daily digest scheduled.")

	return scheduler, nil
}

func (w *Worker) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	res, err := w.Digest.Send(ctx, "")
	if err != nil {
		log.Error().Err(err).Msg("Scheduled daily digest failed")

		return
	}

	log.Info().Str("day", res.Date).Int("reservations", res.Count).Bool("sent", res.Sent).Msg("Scheduled daily digest done")
}
