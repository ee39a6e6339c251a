package model

import (
	"realty/shared/model"
	"time"
)

const (
	TableName  = "blog_posts"
	EntityName = "blog"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldSlug        = "slug"
	FieldExcerpt     = "excerpt"
	FieldContent     = "content"
	FieldCoverImage  = "cover_image"
	FieldLocale      = "locale"
	FieldStatus      = "status"
	FieldFeatured    = "featured"
	FieldPublishedAt = "published_at"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type BlogPost struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Slug        string     `db:"slug"`
	Excerpt     string     `db:"excerpt"`
	Content     string     `db:"content"`
	CoverImage  string     `db:"cover_image"`
	Locale      string     `db:"locale"`
	Status      string     `db:"status"`
	Featured    bool       `db:"featured"`
	PublishedAt *time.Time `db:"published_at"`
	model.Metadata
}
