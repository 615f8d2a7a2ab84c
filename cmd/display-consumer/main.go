package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"livesell/internal/broadcast"
	"livesell/internal/clients"
	"livesell/internal/config"
	"livesell/internal/display"
	"livesell/internal/logging"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadDisplayConfig()
	logger := logging.New("display-consumer", cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting live-inventory display", zap.String("port", cfg.Port))

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	catalogClient := clients.NewCatalogClient(cfg.CatalogServiceURL)
	view := display.NewStockView()
	refresher := display.NewRefresher(view, catalogClient, logger)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := refresher.Seed(seedCtx); err != nil {
		// The next broadcast triggers a full refresh, so an empty seed
		// is degraded service, not a startup failure.
		logger.Warn("initial catalog seed failed", zap.Error(err))
	}
	cancel()

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}

	consumer, err := broadcast.NewConsumer(conn, cfg.BroadcastExchange, "display-consumer", logger)
	if err != nil {
		logger.Fatal("failed to create broadcast consumer", zap.Error(err))
	}

	var wg sync.WaitGroup
	if err := consumer.Start(&wg, refresher.HandleSale); err != nil {
		logger.Fatal("failed to start broadcast consumer", zap.Error(err))
	}

	router := gin.Default()
	router.GET("/display/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": view.Items()})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
	conn.Close()
	wg.Wait()
	logger.Info("display shut down gracefully")
}
