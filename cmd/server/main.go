package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/taskflowhq/taskflow/internal/config"
	"github.com/taskflowhq/taskflow/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Server.LogLevel)

	// Initialize database, services and schedulers
	svc := bootstrap(cfg)
	defer svc.shutdown()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	registerRoutes(r, svc)

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
