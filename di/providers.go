package di

import (
	"net/http"
	"realty/internal/domains/admin/service"
	"realty/internal/domains/notification/digest"
	notifService "realty/internal/domains/notification/service"
	"realty/transport/http/middleware"
	"realty/transport/http/router"
)

// Commands carries what the ctl binary drives outside of HTTP.
type Commands struct {
	Digest       digest.Digest
	Notification notifService.Notification
	Admin        service.Admin
}

// ProvideGuards orders the /v1 chain: the API key may mark a request trusted before JWT auth and RBAC run.
func ProvideGuards(authRole middleware.AuthRole, app middleware.AppMiddleware) router.Guards {
	return router.Guards{
		Chain: []func(http.Handler) http.Handler{
			authRole.APIKey,
			authRole.Auth,
			authRole.RBAC,
		},
		Limit: app.RateLimit(),
	}
}
