package dto

import (
	"realty/internal/domains/admin/model"
	"realty/shared"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	gModel "realty/shared/model"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateAdminRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Role     string `json:"role"      validate:"omitempty,oneof=superadmin admin"`
}

// ToModel stores the email lowercased, uniqueness is enforced on LOWER(email).
func (r *CreateAdminRequest) ToModel(user, hashedPassword string, now time.Time) model.AdminUser {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleAdmin
	}

	return model.AdminUser{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: hashedPassword,
		Role:     role,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(user, now),
	}
}

type AdminResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	FullName  string     `json:"full_name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	Active    bool       `json:"active"`
	gDto.Metadata
}

func (r *AdminResponse) FromModel(m model.AdminUser) {
	r.ID = m.ID
	r.Email = m.Email
	r.Role = m.Role
	r.FullName = m.FullName
	r.LastLogin = m.LastLogin
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)
}

type UpdateAdminRequest struct {
	FullName string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Role     string `db:"role"      json:"role,omitempty"      validate:"omitempty,oneof=superadmin admin"`
	Active   *bool  `db:"active"    json:"active,omitempty"`
}

type GetAdminsResponse struct {
	Admins    []AdminResponse `json:"admins"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetAdminsResponse) FromModels(models []model.AdminUser, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Admins = make([]AdminResponse, len(models))
	for i, mod := range models {
		r.Admins[i].FromModel(mod)
	}
}
