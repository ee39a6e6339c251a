package dto

import (
	"realty/internal/domains/reservation/model"
	"realty/shared"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	gModel "realty/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email,max=254"`
	Phone   string `json:"phone"   validate:"omitempty,max=30"`
	Message string `json:"message" validate:"omitempty,max=2000"`
	Date    string `json:"date"    validate:"required,day"         example:"2026-05-04"`
	Time    string `json:"time"    validate:"required,hhmm"        example:"10:00"`
	Locale  string `json:"locale"  validate:"omitempty,oneof=en tr"`
}

func (c *CreateReservationRequest) ToModel(user string, start, end, now time.Time) model.Reservation {
	locale := c.Locale
	if locale == constant.Empty {
		locale = constant.DefaultLocale
	}

	return model.Reservation{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Message:  c.Message,
		Locale:   locale,
		Date:     c.Date,
		Time:     c.Time,
		StartAt:  start.UTC(),
		EndAt:    end.UTC(),
		Status:   model.StatusPending,
		Metadata: gModel.NewMetadata(user, now),
	}
}

type UpdateReservationRequest struct {
	Name    string `db:"name"    json:"name"    validate:"omitempty,max=100"`
	Phone   string `db:"phone"   json:"phone"   validate:"omitempty,max=30"`
	Message string `db:"message" json:"message" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type ExportRequest struct {
	From string `validate:"required,day"`
	To   string `validate:"required,day"`
}

type ReservationResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Message         string    `json:"message"`
	Locale          string    `json:"locale"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Status          string    `json:"status"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	MeetLink        string    `json:"meet_link,omitempty"`
	CancelReason    string    `json:"cancel_reason,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(m model.Reservation) {
	r.ID = m.ID
	r.Name = m.Name
	r.Email = m.Email
	r.Phone = m.Phone
	r.Message = m.Message
	r.Locale = m.Locale
	r.Date = m.Date
	r.Time = m.Time
	r.StartAt = m.StartAt
	r.EndAt = m.EndAt
	r.Status = m.Status
	r.CalendarEventID = m.CalendarEventID
	r.MeetLink = m.MeetLink
	r.CancelReason = m.CancelReason
	r.Metadata.FromModel(m.Metadata)
}

// PublicReservationResponse is what the visitor sees after booking.
type PublicReservationResponse struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
	Status   string    `json:"status"`
	MeetLink string    `json:"meet_link,omitempty"`
}

func (r *PublicReservationResponse) FromModel(m model.Reservation) {
	r.ID = m.ID
	r.Date = m.Date
	r.Time = m.Time
	r.StartAt = m.StartAt
	r.EndAt = m.EndAt
	r.Status = m.Status
	r.MeetLink = m.MeetLink
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, m := range models {
		r.Reservations[i].FromModel(m)
	}
}
