package handler

import (
	"net/http"
	"realty/config"
	"realty/di"
	"realty/shared/logger"
	"sync"
)

var (
	once    sync.Once
	handler http.HandlerFunc
)

// Handler is the serverless entry point. The dependency graph is built on the first request only.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.Setup(cfg)

		handler = di.InitializeService().Adaptor()
	})

	handler(w, r)
}
