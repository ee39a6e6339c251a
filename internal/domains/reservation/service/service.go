package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"realty/config"
	"realty/infras/gcal"
	"realty/infras/metrics"
	"realty/infras/otel"
	calService "realty/internal/domains/calendar/service"
	notifModel "realty/internal/domains/notification/model"
	notifService "realty/internal/domains/notification/service"
	"realty/internal/domains/reservation/model"
	"realty/internal/domains/reservation/model/dto"
	"realty/internal/domains/reservation/repository"
	"realty/shared"
	"realty/shared/cache"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/failure"
	"realty/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

const (
	defaultSlotMinutes = 60
	defaultOpenHour    = 9
	defaultCloseHour   = 18
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.PublicReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id string) error
	Today(ctx context.Context, day string) ([]dto.ReservationResponse, error)
	ExportICS(ctx context.Context, req dto.ExportRequest) ([]byte, error)
	Location() *time.Location
}

type serviceImpl struct {
	repo         repository.Reservation
	calendar     calService.Calendar
	notification notifService.Notification
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	loc          *time.Location
}

func New(
	repo repository.Reservation,
	calendar calService.Calendar,
	notification notifService.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:         repo,
		calendar:     calendar,
		notification: notification,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		loc:          timezone.Resolve(cfg.Booking.Timezone, cfg.App.Timezone),
	}
}

// Location is the business timezone every slot is expressed in.
func (s *serviceImpl) Location() *time.Location {
	return s.loc
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.PublicReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextGuest
	}

	start, end, err := s.slot(req.Date, req.Time)
	if err != nil {
		return res, err
	}

	taken, err := s.repo.Exist(ctx, slotTaken(start))
	if err != nil {
		log.Error().Err(err).Msg("failed to check slot availability")

		return res, fmt.Errorf("failed to check slot availability: %w", err)
	}

	if taken {
		return res, failure.Conflict("the selected slot is already booked") // nolint:wrapcheck
	}

	reservation := req.ToModel(user, start, end, timezone.Now())

	if err = s.repo.Insert(ctx, reservation); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict("the selected slot is already booked") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	metrics.ObserveReservation(model.StatusPending)

	if event, ok := s.createEvent(ctx, reservation); ok {
		fields := map[string]any{
			model.FieldCalendarEventID: event.ID,
			model.FieldMeetLink:        event.MeetLink,
		}

		filter := shared.FilterByID(reservation.ID, model.FieldID, model.TableName)
		if err := s.repo.Update(ctx, fields, filter); err != nil {
			log.Error().Err(err).Str("reservation", reservation.ID).Msg("failed to store calendar event on reservation")
		} else {
			reservation.CalendarEventID = event.ID
			reservation.MeetLink = event.MeetLink
		}
	}

	if err := s.notification.ReservationCreated(ctx, s.notificationData(reservation)); err != nil {
		log.Error().Err(err).Str("reservation", reservation.ID).Msg("failed to dispatch reservation notifications")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateReservationRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if reservation exists")

		return fmt.Errorf("failed to check if reservation exists: %w", err)
	}

	if !exist {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	reservation, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.Status == req.Status {
		res.FromModel(reservation)

		return res, nil
	}

	if !model.CanTransition(reservation.Status, req.Status) {
		msg := fmt.Sprintf("cannot change reservation status from %s to %s", reservation.Status, req.Status)

		return res, failure.BadRequestFromString(msg) // nolint:wrapcheck
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	switch req.Status {
	case model.StatusCancelled:
		if err = s.deleteEvent(ctx, reservation.CalendarEventID); err != nil {
			return res, err
		}

		fields[model.FieldCalendarEventID] = constant.Empty
		fields[model.FieldMeetLink] = constant.Empty
		fields[model.FieldCancelReason] = req.Reason

		reservation.CalendarEventID = constant.Empty
		reservation.MeetLink = constant.Empty
		reservation.CancelReason = req.Reason
	case model.StatusConfirmed:
		if reservation.CalendarEventID == constant.Empty {
			if event, ok := s.createEvent(ctx, reservation); ok {
				fields[model.FieldCalendarEventID] = event.ID
				fields[model.FieldMeetLink] = event.MeetLink

				reservation.CalendarEventID = event.ID
				reservation.MeetLink = event.MeetLink
			}
		}
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation status")

		return res, fmt.Errorf("failed to update reservation status: %w", err)
	}

	reservation.Status = req.Status
	reservation.ModifiedAt = now
	reservation.ModifiedBy = user

	metrics.ObserveReservation(req.Status)

	if err := s.notification.ReservationStatusChanged(ctx, s.notificationData(reservation)); err != nil {
		log.Error().Err(err).Str("reservation", id).Msg("failed to dispatch status notification")
	}

	s.invalidate(ctx, id)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	reservation, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldCalendarEventID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if err = s.deleteEvent(ctx, reservation.CalendarEventID); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Today lists the non-cancelled reservations of day ordered by start time.
func (s *serviceImpl) Today(ctx context.Context, day string) (res []dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Today")
	defer scope.End()
	defer scope.TraceIfError(err)

	if day == constant.Empty {
		day = timezone.Now().In(s.loc).Format(constant.DayFormat)
	}

	if _, err = time.Parse(constant.DayFormat, day); err != nil {
		return res, failure.BadRequestFromString("date must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldDate, Operator: gDto.FilterOperatorEq, Value: day, Table: model.TableName},
			notCancelled(),
		},
	}

	models, err := s.repo.GetAll(ctx, byStart(), filter)
	if err != nil {
		log.Error().Err(err).Str("day", day).Msg("failed to get reservations of the day")

		return res, fmt.Errorf("failed to get reservations of the day: %w", err)
	}

	res = make([]dto.ReservationResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
	}

	return res, nil
}

// slot resolves date and clock in the business timezone and checks the booking rules.
func (s *serviceImpl) slot(date, clock string) (start, end time.Time, err error) {
	start, err = time.ParseInLocation(constant.DayTimeFormat, date+" "+clock, s.loc)
	if err != nil {
		return start, end, failure.BadRequestFromString("invalid reservation date or time") // nolint:wrapcheck
	}

	booking := s.cfg.Booking

	slotMinutes := valueOr(booking.SlotMinutes, defaultSlotMinutes)
	openHour := valueOr(booking.OpenHour, defaultOpenHour)
	closeHour := valueOr(booking.CloseHour, defaultCloseHour)

	end = start.Add(time.Duration(slotMinutes) * time.Minute)

	now := timezone.Now()
	if !start.After(now) {
		return start, end, failure.BadRequestFromString("the selected slot is in the past") // nolint:wrapcheck
	}

	if lead := time.Duration(booking.LeadMinutes) * time.Minute; start.Before(now.Add(lead)) {
		msg := fmt.Sprintf("reservations must be made at least %d minutes in advance", booking.LeadMinutes)

		return start, end, failure.BadRequestFromString(msg) // nolint:wrapcheck
	}

	year, month, day := start.Date()
	opening := time.Date(year, month, day, openHour, 0, 0, 0, s.loc)
	closing := time.Date(year, month, day, closeHour, 0, 0, 0, s.loc)

	if start.Before(opening) || end.After(closing) {
		msg := fmt.Sprintf("reservations are available between %02d:00 and %02d:00", openHour, closeHour)

		return start, end, failure.BadRequestFromString(msg) // nolint:wrapcheck
	}

	if int(start.Sub(opening).Minutes())%slotMinutes != 0 {
		msg := fmt.Sprintf("reservations start every %d minutes from %02d:00", slotMinutes, openHour)

		return start, end, failure.BadRequestFromString(msg) // nolint:wrapcheck
	}

	return start, end, nil
}

// createEvent books the meeting on the connected calendar. Failures never fail the caller.
func (s *serviceImpl) createEvent(ctx context.Context, m model.Reservation) (gcal.Event, bool) {
	event, err := s.calendar.CreateEvent(ctx, s.eventRequest(m))
	if err != nil {
		if errors.Is(err, calService.ErrNotConnected) {
			log.Warn().Str("reservation", m.ID).Msg("calendar not connected, reservation kept without meeting")
		} else {
			log.Error().Err(err).Str("reservation", m.ID).Msg("failed to create calendar event")
		}

		return event, false
	}

	return event, true
}

func (s *serviceImpl) deleteEvent(ctx context.Context, eventID string) error {
	if eventID == constant.Empty {
		return nil
	}

	err := s.calendar.DeleteEvent(ctx, eventID)
	if err == nil {
		return nil
	}

	if errors.Is(err, calService.ErrNotConnected) {
		log.Warn().Str("event", eventID).Msg("calendar not connected, event left in place")

		return nil
	}

	log.Error().Err(err).Str("event", eventID).Msg("failed to delete calendar event")

	return fmt.Errorf("failed to delete calendar event: %w", err)
}

func (s *serviceImpl) eventRequest(m model.Reservation) gcal.EventRequest {
	var desc strings.Builder

	fmt.Fprintf(&desc, "Name: %s\nEmail: %s\n", m.Name, m.Email)

	if m.Phone != constant.Empty {
		fmt.Fprintf(&desc, "Phone: %s\n", m.Phone)
	}

	if m.Message != constant.Empty {
		fmt.Fprintf(&desc, "\n%s\n", m.Message)
	}

	return gcal.EventRequest{
		ID:            m.ID,
		Summary:       fmt.Sprintf("%s consultation: %s", s.cfg.App.Name, m.Name),
		Description:   desc.String(),
		Start:         m.StartAt,
		End:           m.EndAt,
		TimeZone:      s.loc.String(),
		AttendeeName:  m.Name,
		AttendeeEmail: m.Email,
	}
}

func (s *serviceImpl) notificationData(m model.Reservation) notifModel.ReservationData {
	return notifModel.ReservationData{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Phone:    m.Phone,
		Message:  m.Message,
		Locale:   m.Locale,
		Status:   m.Status,
		Reason:   m.CancelReason,
		MeetLink: m.MeetLink,
		TimeZone: s.loc.String(),
		StartAt:  m.StartAt,
		EndAt:    m.EndAt,
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func slotTaken(start time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStartAt, Operator: gDto.FilterOperatorEq, Value: start.UTC(), Table: model.TableName},
			notCancelled(),
		},
	}
}

func notCancelled() gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorNotEq,
		Value:    model.StatusCancelled,
		Table:    model.TableName,
	}
}

func byStart() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldStartAt, SortDir: gDto.SortDirAsc}
}

func valueOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}

	return v
}
