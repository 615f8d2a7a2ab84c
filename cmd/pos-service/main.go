package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livesell/internal/broadcast"
	"livesell/internal/checkout"
	"livesell/internal/clients"
	"livesell/internal/config"
	"livesell/internal/logging"
	"livesell/internal/pos"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadPosConfig()
	logger := logging.New("pos-service", cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting POS service", zap.String("port", cfg.Port))

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := broadcast.NewChannelPool(cfg.RabbitMQURL, cfg.BroadcastExchange, cfg.ChannelPoolSize, logger)
	if err != nil {
		logger.Fatal("failed to create RabbitMQ channel pool", zap.Error(err))
	}
	defer pool.Close()

	publisher := broadcast.NewPublisher(pool, cfg.BroadcastExchange, logger)
	salesClient := clients.NewSalesClient(cfg.SalesServiceURL)
	catalogClient := clients.NewCatalogClient(cfg.CatalogServiceURL)

	sessions := pos.NewSessionManager(func(id string) *checkout.Session {
		return checkout.NewSession(id, salesClient, publisher,
			checkout.Config{SubmitTimeout: cfg.SubmitTimeout}, logger)
	})
	handler := pos.NewHandler(sessions, catalogClient, logger)

	router := gin.Default()

	router.GET("/catalog", handler.GetCatalog)
	router.POST("/sessions", handler.CreateSession)
	router.DELETE("/sessions/:sessionId", handler.CloseSession)
	router.GET("/sessions/:sessionId/cart", handler.GetCart)
	router.POST("/sessions/:sessionId/cart/items", handler.AddItem)
	router.PATCH("/sessions/:sessionId/cart/items", handler.AdjustItem)
	router.DELETE("/sessions/:sessionId/cart/items/:itemId", handler.RemoveItem)
	router.GET("/sessions/:sessionId/preview", handler.Preview)
	router.POST("/sessions/:sessionId/checkout", handler.Checkout)
	router.GET("/sessions/:sessionId/receipt", handler.Receipt)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
