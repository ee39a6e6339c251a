package dto

import (
	"realty/internal/domains/blog/model"
	"realty/shared"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	gModel "realty/shared/model"
	"realty/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Title      string `json:"title"       validate:"required,min=3,max=200"`
	Slug       string `json:"slug"        validate:"omitempty,slug,max=220"`
	Excerpt    string `json:"excerpt"     validate:"omitempty,max=500"`
	Content    string `json:"content"     validate:"required"`
	CoverImage string `json:"cover_image" validate:"omitempty,url"`
	Locale     string `json:"locale"      validate:"omitempty,oneof=en tr"`
	Status     string `json:"status"      validate:"omitempty,oneof=draft published"`
	Featured   bool   `json:"featured"`
}

// ToModel fills defaults: draft status, default locale and a slug derived from the title.
func (c *CreatePostRequest) ToModel(user string, now time.Time) model.BlogPost {
	post := model.BlogPost{
		ID:         uuid.NewString(),
		Title:      c.Title,
		Slug:       c.Slug,
		Excerpt:    c.Excerpt,
		Content:    c.Content,
		CoverImage: c.CoverImage,
		Locale:     c.Locale,
		Status:     c.Status,
		Featured:   c.Featured,
		Metadata:   gModel.NewMetadata(user, now),
	}

	if post.Slug == constant.Empty {
		post.Slug = shared.Slugify(c.Title)
	}

	if post.Locale == constant.Empty {
		post.Locale = constant.DefaultLocale
	}

	if post.Status == constant.Empty {
		post.Status = model.StatusDraft
	}

	if post.Status == model.StatusPublished {
		post.PublishedAt = &now
	}

	return post
}

type UpdatePostRequest struct {
	Title      string `db:"title"       json:"title"       validate:"omitempty,min=3,max=200"`
	Slug       string `db:"slug"        json:"slug"        validate:"omitempty,slug,max=220"`
	Excerpt    string `db:"excerpt"     json:"excerpt"     validate:"omitempty,max=500"`
	Content    string `db:"content"     json:"content"`
	CoverImage string `db:"cover_image" json:"cover_image" validate:"omitempty,url"`
	Locale     string `db:"locale"      json:"locale"      validate:"omitempty,oneof=en tr"`
	Status     string `db:"status"      json:"status"      validate:"omitempty,oneof=draft published"`
	Featured   *bool  `db:"featured"    json:"featured,omitempty"`
}

type PostResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content,omitempty"`
	CoverImage  string `json:"cover_image"`
	Locale      string `json:"locale"`
	Status      string `json:"status"`
	Featured    bool   `json:"featured"`
	PublishedAt string `json:"published_at,omitempty"`
	gDto.Metadata
}

func (r *PostResponse) FromModel(m model.BlogPost) {
	r.ID = m.ID
	r.Title = m.Title
	r.Slug = m.Slug
	r.Excerpt = m.Excerpt
	r.Content = m.Content
	r.CoverImage = m.CoverImage
	r.Locale = m.Locale
	r.Status = m.Status
	r.Featured = m.Featured

	if m.PublishedAt != nil {
		r.PublishedAt = timezone.Format(*m.PublishedAt, constant.DateFormat)
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetPostsResponse struct {
	Posts     []PostResponse `json:"posts"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetPostsResponse) FromModels(models []model.BlogPost, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Posts = make([]PostResponse, len(models))
	for i, m := range models {
		r.Posts[i].FromModel(m)
	}
}
