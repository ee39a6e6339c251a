package model

import "time"

const (
	KindReservationCustomer = "reservation.customer"
	KindReservationOperator = "reservation.operator"
	KindReservationStatus   = "reservation.status"
	KindDigestDaily         = "digest.daily"
	KindContactOperator     = "contact.operator"
)

// Message is the unit published on the notification topic and handed to the mailer.
type Message struct {
	Kind    string   `json:"kind"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`
}

type ReservationData struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Message  string
	Locale   string
	Status   string
	Reason   string
	MeetLink string
	TimeZone string
	StartAt  time.Time
	EndAt    time.Time
}

type DigestData struct {
	Day          string
	TimeZone     string
	Reservations []ReservationData
}

type ContactData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}
