package main

import (
	"context"
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
	"github.com/omondi/sokocart/services/payments/gateway"
	httpHandler "github.com/omondi/sokocart/services/payments/handler/http"
	"github.com/omondi/sokocart/services/payments/repository"
	"github.com/omondi/sokocart/services/payments/usecase"
)

func main() {
	appName := "payments-service"
	configs := config.InitConfig("config/payments.env")

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

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize NATS
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	// Initialize repository
	paymentRepo := repository.NewPaymentRepository(configs, postgresClient.GetDB(), redisClient)

	// Initialize gateway
	mpesaClient := gateway.NewMpesaClient(configs.Mpesa, zapLogger)
	paymentGW := gateway.NewPaymentGW(mpesaClient, natsClient)

	// Initialize use case
	paymentUC := usecase.NewPaymentUC(configs, paymentRepo, paymentGW)

	// Start the timeout sweeper
	sweeper := usecase.NewSweeper(paymentUC,
		time.Duration(configs.Payment.SweepIntervalSeconds)*time.Second)
	sweeper.Start()

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName)

	paymentHandler := httpHandler.NewPaymentHandler(paymentUC)
	paymentHandler.RegisterRoutes(e)

	// Register component shutdown
	shutdownManager := server.NewShutdownManager(zapLogger)
	shutdownManager.Register(sweeper.Shutdown)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server shutdown error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	shutdownManager.Shutdown(ctx)
}
