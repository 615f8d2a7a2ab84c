package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livesell/internal/config"
	"livesell/internal/database"
	"livesell/internal/logging"
	"livesell/internal/sales"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadSalesConfig()
	logger := logging.New("sales-service", cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting sales service", zap.String("port", cfg.Port))

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repo := sales.NewRepository(db, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	handler := sales.NewHandler(repo, logger)

	router := gin.Default()

	router.POST("/sales", handler.CreateSale)
	router.GET("/sales", handler.ListSales)
	router.GET("/sales/:saleId", handler.GetSale)
	router.GET("/sales/:saleId/receipt", handler.GetReceipt)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
