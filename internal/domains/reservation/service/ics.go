package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"realty/internal/domains/reservation/model"
	"realty/internal/domains/reservation/model/dto"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/failure"
	"realty/shared/timezone"

	"github.com/emersion/go-ical"
	"github.com/rs/zerolog/log"
)

const icsProductID = "-//realty//reservations//EN"

// ExportICS renders the non-cancelled reservations between two days, inclusive, as an iCalendar feed.
func (s *serviceImpl) ExportICS(ctx context.Context, req dto.ExportRequest) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExportICS")
	defer scope.End()
	defer scope.TraceIfError(err)

	from, errFrom := time.Parse(constant.DayFormat, req.From)
	to, errTo := time.Parse(constant.DayFormat, req.To)

	if errFrom != nil || errTo != nil {
		return res, failure.BadRequestFromString("from and to must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	if to.Before(from) {
		return res, failure.BadRequestFromString("to must not be before from") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName: "date_from", Field: model.FieldDate, Operator: gDto.FilterOperatorGreaterEq,
				Value: req.From, Table: model.TableName,
			},
			gDto.Filter{
				ArgName: "date_to", Field: model.FieldDate, Operator: gDto.FilterOperatorLessEq,
				Value: req.To, Table: model.TableName,
			},
			notCancelled(),
		},
	}

	models, err := s.repo.GetAll(ctx, byStart(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations for export")

		return res, fmt.Errorf("failed to get reservations for export: %w", err)
	}

	res, err = encodeCalendar(models, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to encode reservations calendar")

		return res, fmt.Errorf("failed to encode reservations calendar: %w", err)
	}

	return res, nil
}

func encodeCalendar(models []model.Reservation, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, m := range models {
		cal.Children = append(cal.Children, reservationEvent(m, stamp).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}

	return buf.Bytes(), nil
}

func reservationEvent(m model.Reservation, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, m.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, m.StartAt.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, m.EndAt.UTC())
	event.Props.SetText(ical.PropSummary, "Consultation: "+m.Name)
	event.Props.SetText(ical.PropDescription, describe(m))

	status := ical.EventTentative
	if m.Status == model.StatusConfirmed {
		status = ical.EventConfirmed
	}

	event.Props.SetText(ical.PropStatus, string(status))

	if m.MeetLink != constant.Empty {
		if u, err := url.Parse(m.MeetLink); err == nil {
			event.Props.SetURI(ical.PropURL, u)
		}
	}

	return event
}

func describe(m model.Reservation) string {
	desc := fmt.Sprintf("Email: %s", m.Email)

	if m.Phone != constant.Empty {
		desc += fmt.Sprintf("\nPhone: %s", m.Phone)
	}

	if m.Message != constant.Empty {
		desc += "\n\n" + m.Message
	}

	return desc
}
