package dto

import (
	"realty/internal/domains/heroslide/model"
	"realty/shared"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	gModel "realty/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateSlideRequest struct {
	Title    string `json:"title"     validate:"required,max=200"`
	Subtitle string `json:"subtitle"  validate:"omitempty,max=300"`
	ImageURL string `json:"image_url" validate:"required,url"`
	LinkURL  string `json:"link_url"  validate:"omitempty,max=1024"`
	Position int    `json:"position"  validate:"omitempty,min=0"`
	Active   *bool  `json:"active,omitempty"`
}

// ToModel treats a missing active flag as true.
func (c *CreateSlideRequest) ToModel(user string, now time.Time) model.HeroSlide {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.HeroSlide{
		ID:       uuid.NewString(),
		Title:    c.Title,
		Subtitle: c.Subtitle,
		ImageURL: c.ImageURL,
		LinkURL:  c.LinkURL,
		Position: c.Position,
		Active:   active,
		Metadata: gModel.NewMetadata(user, now),
	}
}

type UpdateSlideRequest struct {
	Title    string `db:"title"     json:"title"     validate:"omitempty,max=200"`
	Subtitle string `db:"subtitle"  json:"subtitle"  validate:"omitempty,max=300"`
	ImageURL string `db:"image_url" json:"image_url" validate:"omitempty,url"`
	LinkURL  string `db:"link_url"  json:"link_url"  validate:"omitempty,max=1024"`
	Position *int   `db:"position"  json:"position,omitempty" validate:"omitempty,min=0"`
	Active   *bool  `db:"active"    json:"active,omitempty"`
}

func (u *UpdateSlideRequest) IsEmpty() bool {
	return u.Title == constant.Empty && u.Subtitle == constant.Empty && u.ImageURL == constant.Empty &&
		u.LinkURL == constant.Empty && u.Position == nil && u.Active == nil
}

type SlideResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *SlideResponse) FromModel(m model.HeroSlide) {
	r.ID = m.ID
	r.Title = m.Title
	r.Subtitle = m.Subtitle
	r.ImageURL = m.ImageURL
	r.LinkURL = m.LinkURL
	r.Position = m.Position
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)
}

type GetSlidesResponse struct {
	Slides    []SlideResponse `json:"slides"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetSlidesResponse) FromModels(models []model.HeroSlide, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Slides = make([]SlideResponse, len(models))
	for i, m := range models {
		r.Slides[i].FromModel(m)
	}
}
