package main

import (
	"realty/config"
	"realty/di"
	"realty/shared/logger"
)

func main() {
	cfg := config.Get()

	defer logger.Setup(cfg)()

	worker := di.InitializeWorker()
	worker.Serve()
}
