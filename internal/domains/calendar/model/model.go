package model

import (
	"realty/shared/model"
	"time"
)

const (
	TableName  = "calendar_credentials"
	EntityName = "calendar_credential"

	// CredentialID is the only row, one operator account is connected at a time.
	CredentialID = "google"

	FieldID           = "id"
	FieldAccountEmail = "account_email"
	FieldRefreshToken = "refresh_token"
	FieldScopes       = "scopes"
	FieldConnectedAt  = "connected_at"
)

type CalendarCredential struct {
	ID           string    `db:"id"`
	AccountEmail string    `db:"account_email"`
	RefreshToken string    `db:"refresh_token"`
	Scopes       string    `db:"scopes"`
	ConnectedAt  time.Time `db:"connected_at"`
	model.Metadata
}
