package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"realty/config"
	"realty/infras/metrics"
	"realty/infras/otel"
	notifService "realty/internal/domains/notification/service"
	"realty/shared/constant"
	"realty/transport/http/middleware"
	"realty/transport/http/response"
	"realty/transport/http/router"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "realty/docs"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	flushTimeout      = 15 * time.Second
)

type HTTP struct {
	Config       *config.Config
	Router       router.Router
	Middleware   middleware.AppMiddleware
	Notification notifService.Notification
	state        atomic.Int32
	mux          *chi.Mux
	server       *http.Server
}

func New(cfg *config.Config, r router.Router, m middleware.AppMiddleware, notification notifService.Notification) *HTTP {
	return &HTTP{
		Config:       cfg,
		Router:       r,
		Middleware:   m,
		Notification: notification,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// Adaptor exposes the router to serverless runtimes, which own the process lifecycle. The
// instance may be frozen once a handler returns, so mail queued by the request is sent first.
func (h *HTTP) Adaptor() http.HandlerFunc {
	h.setupRoutes()
	h.state.Store(int32(ServerStateReady))

	return func(w http.ResponseWriter, r *http.Request) {
		h.mux.ServeHTTP(w, r)

		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), flushTimeout)
		defer cancel()

		h.flush(ctx)
	}
}

func (h *HTTP) flush(ctx context.Context) {
	if err := h.Notification.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("Pending notifications were not delivered")
	}
}

func (h *HTTP) setup() {
	h.setupRoutes()
	h.setupGracefulShutdown()
	h.state.Store(int32(ServerStateReady))
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RequestID)
	h.mux.Use(chiMiddleware.RealIP)
	h.mux.Use(chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	h.mux.Use(h.Middleware.Tracing)

	if h.Config.Metrics.Enable {
		h.mux.Use(h.Middleware.Metrics)
	}

	h.mux.Use(h.Middleware.Logger)

	if h.Config.Metrics.Enable {
		h.mux.Handle(h.Config.Metrics.Path, metrics.Handler())
	}

	h.mux.Get("/health", h.health)
	h.mux.Get("/swagger/*", httpSwagger.WrapHandler)

	h.Router.SetupRoutes(h.mux)
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

// respondToSigterm keeps serving during the grace period while /health reports 503,
// then gives in-flight requests the cleanup period to finish.
func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
		h.shutdown(time.Second)

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) shutdown(timeout time.Duration) {
	if h.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain in time")
	}

	h.flush(ctx)

	otel.Shutdown(ctx)
}
