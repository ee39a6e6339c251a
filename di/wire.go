//go:build wireinject
// +build wireinject

package di

import (
	"realty/config"
	"realty/infras/gcal"
	"realty/infras/jwt"
	"realty/infras/kafka"
	"realty/infras/mailer"
	"realty/infras/otel"
	"realty/infras/postgres"
	"realty/infras/redis"
	"realty/infras/s3"
	"realty/permissions"
	"realty/shared/cache"
	"realty/transport/http"
	"realty/transport/http/middleware"
	"realty/transport/http/router"
	"realty/transport/worker"

	"github.com/google/wire"

	adminRepository "realty/internal/domains/admin/repository"
	adminService "realty/internal/domains/admin/service"
	authService "realty/internal/domains/auth/service"
	blogRepository "realty/internal/domains/blog/repository"
	blogService "realty/internal/domains/blog/service"
	calendarRepository "realty/internal/domains/calendar/repository"
	calendarService "realty/internal/domains/calendar/service"
	heroSlideRepository "realty/internal/domains/heroslide/repository"
	heroSlideService "realty/internal/domains/heroslide/service"
	"realty/internal/domains/notification/digest"
	notificationService "realty/internal/domains/notification/service"
	propertyRepository "realty/internal/domains/property/repository"
	propertyService "realty/internal/domains/property/service"
	reservationRepository "realty/internal/domains/reservation/repository"
	reservationService "realty/internal/domains/reservation/service"

	adminHandler "realty/internal/handlers/admin"
	authHandler "realty/internal/handlers/auth"
	blogHandler "realty/internal/handlers/blog"
	calendarHandler "realty/internal/handlers/calendar"
	heroSlideHandler "realty/internal/handlers/heroslide"
	notificationHandler "realty/internal/handlers/notification"
	propertyHandler "realty/internal/handlers/property"
	reservationHandler "realty/internal/handlers/reservation"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	gcal.New,
	mailer.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	ProvideGuards,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var adminDomain = wire.NewSet(
	adminRepository.New,
	adminService.New,
	authService.New,
)

var bookingDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
	calendarRepository.New,
	calendarService.New,
	notificationService.New,
	digest.New,
)

var contentDomain = wire.NewSet(
	blogRepository.New,
	blogService.New,
	propertyRepository.New,
	propertyService.New,
	heroSlideRepository.New,
	heroSlideService.New,
)

var domains = wire.NewSet(
	adminDomain,
	bookingDomain,
	contentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	adminHandler.New,
	reservationHandler.New,
	calendarHandler.New,
	notificationHandler.New,
	blogHandler.New,
	propertyHandler.New,
	heroSlideHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Worker {
	wire.Build(
		config.Get,
		infrastructures,
		sharedHelpers,
		bookingDomain,
		worker.New,
	)

	return &worker.Worker{}
}

func InitializeCommands() *Commands {
	wire.Build(
		config.Get,
		infrastructures,
		sharedHelpers,
		bookingDomain,
		adminRepository.New,
		adminService.New,
		wire.Struct(new(Commands), "*"),
	)

	return &Commands{}
}
