package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/omondi/sokocart/internal/pkg/config"
	"github.com/omondi/sokocart/internal/pkg/database"
	"github.com/omondi/sokocart/internal/pkg/health"
	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/middleware"
	natspkg "github.com/omondi/sokocart/internal/pkg/nats"
	nrpkg "github.com/omondi/sokocart/internal/pkg/newrelic"
	"github.com/omondi/sokocart/internal/pkg/server"
	"github.com/omondi/sokocart/services/orders/gateway"
	httpHandler "github.com/omondi/sokocart/services/orders/handler/http"
	natsHandler "github.com/omondi/sokocart/services/orders/handler/nats"
	"github.com/omondi/sokocart/services/orders/repository"
	"github.com/omondi/sokocart/services/orders/usecase"
)

func main() {
	appName := "orders-service"
	configs := config.InitConfig("config/orders.env")

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgresClient.Close()

	// Initialize NATS
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	// Initialize repository
	orderRepo := repository.NewOrderRepository(configs, postgresClient.GetDB())

	// Initialize gateway
	paymentClient := gateway.NewPaymentClient(configs.Services.PaymentServiceURL, 30*time.Second)
	orderGW := gateway.NewOrderGW(paymentClient, natsClient, gateway.NewLogNotifier())

	// Initialize use case
	orderUC := usecase.NewOrderUC(configs, orderRepo, orderGW)

	// Start NATS consumers for payment outcomes
	consumers, err := natsHandler.NewHandler(orderUC, natsClient)
	if err != nil {
		zapLogger.Fatal("Failed to start NATS consumers", zap.Error(err))
	}
	defer consumers.Close()

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName)

	orderHandler := httpHandler.NewOrderHandler(orderUC)
	orderHandler.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server shutdown error", zap.Error(err))
	}
}
