package router

import (
	"net/http"
	"realty/internal/handlers/admin"
	"realty/internal/handlers/auth"
	"realty/internal/handlers/blog"
	"realty/internal/handlers/calendar"
	"realty/internal/handlers/heroslide"
	"realty/internal/handlers/notification"
	"realty/internal/handlers/property"
	"realty/internal/handlers/reservation"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	Admin        admin.Handler
	Reservation  reservation.Handler
	Calendar     calendar.Handler
	Notification notification.Handler
	Blog         blog.Handler
	Property     property.Handler
	HeroSlide    heroslide.Handler
}

// Guards are applied to every /v1 route in order. Limit wraps public write endpoints only.
type Guards struct {
	Chain []func(http.Handler) http.Handler
	Limit func(http.Handler) http.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Guards         Guards
}

func (r *Router) SetupRoutes(router chi.Router) {
	limit := r.Guards.Limit
	if limit == nil {
		limit = passThrough
	}

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.Guards.Chain...)

		r.DomainHandlers.Auth.Router(routerGroup, limit)
		r.DomainHandlers.Admin.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup, limit)
		r.DomainHandlers.Calendar.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup, limit)
		r.DomainHandlers.Blog.Router(routerGroup)
		r.DomainHandlers.Property.Router(routerGroup)
		r.DomainHandlers.HeroSlide.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, guards Guards) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Guards:         guards,
	}
}

func passThrough(next http.Handler) http.Handler {
	return next
}
