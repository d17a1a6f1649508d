package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/jovincart/storefront/config"
	"github.com/jovincart/storefront/logger"
	"github.com/jovincart/storefront/stubserver"
)

func main() {
	cfg := config.LoadStub()
	logger.Initialize(cfg.Env)
	log := logger.Get()

	srv, err := stubserver.New(cfg, log)
	if err != nil {
		log.Error("failed to start stub backend", zap.Error(err))
		os.Exit(1)
	}
	defer srv.Close()

	if err := srv.Run(); err != nil {
		log.Error("stub backend stopped", zap.Error(err))
		os.Exit(1)
	}
}
