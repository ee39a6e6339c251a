package model

import "realty/shared/model"

const (
	TableName  = "hero_slides"
	EntityName = "heroslide"

	FieldID       = "id"
	FieldTitle    = "title"
	FieldSubtitle = "subtitle"
	FieldImageURL = "image_url"
	FieldLinkURL  = "link_url"
	FieldPosition = "position"
	FieldActive   = "active"
)

type HeroSlide struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Subtitle string `db:"subtitle"`
	ImageURL string `db:"image_url"`
	LinkURL  string `db:"link_url"`
	Position int    `db:"position"`
	Active   bool   `db:"active"`
	model.Metadata
}
