// Package digest assembles the operator's daily agenda from the reservation book.
package digest

//go:generate go run go.uber.org/mock/mockgen -source=./digest.go -destination=../mocks/digest_mock.go -package=mocks

import (
	"context"
	"fmt"

	"realty/infras/otel"
	"realty/internal/domains/notification/model"
	"realty/internal/domains/notification/model/dto"
	notifService "realty/internal/domains/notification/service"
	resDto "realty/internal/domains/reservation/model/dto"
	resService "realty/internal/domains/reservation/service"
	"realty/shared/constant"
	"realty/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Digest interface {
	Send(ctx context.Context, day string) (dto.DigestResponse, error)
}

type digestImpl struct {
	reservation  resService.Reservation
	notification notifService.Notification
	otel         otel.Otel
}

func New(reservation resService.Reservation, notification notifService.Notification, otel otel.Otel) Digest {
	return &digestImpl{
		reservation:  reservation,
		notification: notification,
		otel:         otel,
	}
}

// Send mails the agenda of day, today in the business timezone when empty. Empty days send nothing.
func (d *digestImpl) Send(ctx context.Context, day string) (res dto.DigestResponse, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Digest.Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	loc := d.reservation.Location()

	if day == constant.Empty {
		day = timezone.Now().In(loc).Format(constant.DayFormat)
	}

	res.Date = day

	reservations, err := d.reservation.Today(ctx, day)
	if err != nil {
		return res, fmt.Errorf("failed to load reservations of %s: %w", day, err)
	}

	res.Count = len(reservations)

	if res.Count == 0 {
		log.Info().Str("day", day).Msg("no reservations, daily digest skipped")

		return res, nil
	}

	data := model.DigestData{
		Day:          day,
		TimeZone:     loc.String(),
		Reservations: make([]model.ReservationData, len(reservations)),
	}

	for i, r := range reservations {
		data.Reservations[i] = toData(r, loc.String())
	}

	if err = d.notification.Digest(ctx, data); err != nil {
		return res, fmt.Errorf("failed to send daily digest: %w", err)
	}

	res.Sent = true

	log.Info().Str("day", day).Int("count", res.Count).Msg("daily digest sent")

	return res, nil
}

func toData(r resDto.ReservationResponse, tz string) model.ReservationData {
	return model.ReservationData{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Message:  r.Message,
		Locale:   r.Locale,
		Status:   r.Status,
		Reason:   r.CancelReason,
		MeetLink: r.MeetLink,
		TimeZone: tz,
		StartAt:  r.StartAt,
		EndAt:    r.EndAt,
	}
}
