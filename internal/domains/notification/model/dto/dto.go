package dto

import "realty/internal/domains/notification/model"

type ContactRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email,max=254"`
	Phone   string `json:"phone"   validate:"omitempty,max=30"`
	Subject string `json:"subject" validate:"required,max=150"`
	Message string `json:"message" validate:"required,max=4000"`
}

func (r *ContactRequest) ToData() model.ContactData {
	return model.ContactData{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Subject: r.Subject,
		Message: r.Message,
	}
}

type DigestRequest struct {
	Date string `json:"date" validate:"omitempty,day"`
}

type DigestResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Sent  bool   `json:"sent"`
}
