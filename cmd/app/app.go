package main

import (
	"os"

	"github.com/DRSN-tech/inventory-backend/internal/app"
	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

// @title           Inventory Management API
// @version         1.0.0
// @description     Categories and products with referential integrity.
// @BasePath        /api
func main() {
	// До загрузки конфигурации уровень и формат логов неизвестны.
	bootLog := logger.NewLogrusLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg, err := config.Load(bootLog)
	if err != nil {
		bootLog.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	log := logger.NewLogrusLogger(cfg.Log.Level, cfg.Log.Format)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
