package main

import (
	"sync"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"livesell/internal/broadcast"
	"livesell/internal/catalog"
	"livesell/internal/config"
	"livesell/internal/logging"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadCatalogConfig()
	logger := logging.New("catalog-service", cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting catalog service", zap.String("port", cfg.Port))

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store := catalog.NewStore()
	handler := catalog.NewHandler(store, logger)

	// Completed sales come back over the broadcast exchange and move
	// authoritative stock.
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer conn.Close()

	consumer, err := broadcast.NewConsumer(conn, cfg.BroadcastExchange, "catalog-service", logger)
	if err != nil {
		logger.Fatal("failed to create broadcast consumer", zap.Error(err))
	}

	var wg sync.WaitGroup
	if err := consumer.Start(&wg, catalog.StockDeductor(store, logger)); err != nil {
		logger.Fatal("failed to start broadcast consumer", zap.Error(err))
	}

	router := gin.Default()

	router.POST("/items", handler.CreateItem)
	router.GET("/items", handler.ListItems)
	router.GET("/items/:itemId", handler.GetItem)
	router.PUT("/items/:itemId", handler.UpdateItem)
	router.PATCH("/items/:itemId/availability", handler.SetAvailability)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
