package model

import (
	"realty/shared/model"
	"time"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID              = "id"
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldMessage         = "message"
	FieldLocale          = "locale"
	FieldDate            = "slot_date"
	FieldTime            = "slot_time"
	FieldStartAt         = "start_at"
	FieldEndAt           = "end_at"
	FieldStatus          = "status"
	FieldCalendarEventID = "calendar_event_id"
	FieldMeetLink        = "meet_link"
	FieldCancelReason    = "cancel_reason"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Reservation struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	Phone           string    `db:"phone"`
	Message         string    `db:"message"`
	Locale          string    `db:"locale"`
	Date            string    `db:"slot_date"`
	Time            string    `db:"slot_time"`
	StartAt         time.Time `db:"start_at"`
	EndAt           time.Time `db:"end_at"`
	Status          string    `db:"status"`
	CalendarEventID string    `db:"calendar_event_id"`
	MeetLink        string    `db:"meet_link"`
	CancelReason    string    `db:"cancel_reason"`
	model.Metadata
}

var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

// CanTransition reports whether a reservation in status from may move to status to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
