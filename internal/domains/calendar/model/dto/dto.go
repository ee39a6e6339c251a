package dto

import (
	"realty/internal/domains/calendar/model"
	"time"
)

type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type CallbackRequest struct {
	State string `validate:"required"`
	Code  string `validate:"required"`
	Error string
}

type StatusResponse struct {
	Connected    bool       `json:"connected"`
	AccountEmail string     `json:"account_email,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
}

func (r *StatusResponse) FromModel(m model.CalendarCredential) {
	if m.ID == "" {
		return
	}

	connectedAt := m.ConnectedAt

	r.Connected = true
	r.AccountEmail = m.AccountEmail
	r.ConnectedAt = &connectedAt
}
