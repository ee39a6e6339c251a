package model

import (
	"realty/shared/model"
	"time"
)

const (
	TableName  = "admin_users"
	EntityName = "admin"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldFullName  = "full_name"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

type AdminUser struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	FullName  string     `db:"full_name"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}
