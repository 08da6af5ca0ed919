package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongoadapter "github.com/propertyhub/transaction-service/internal/adapter/mongo"
	natsadapter "github.com/propertyhub/transaction-service/internal/adapter/nats"
	redisadapter "github.com/propertyhub/transaction-service/internal/adapter/redis"
	"github.com/propertyhub/transaction-service/internal/app/config"
	"github.com/propertyhub/transaction-service/internal/platform/logger"
	httpport "github.com/propertyhub/transaction-service/internal/port/http"
	"github.com/propertyhub/transaction-service/internal/service"
	natsio "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	sweeper     *service.ReservationSweeper
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *natsio.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, ReserveOnInitiate: %t",
		cfg.Env, cfg.HTTPServer.Port, cfg.Purchase.ReserveOnInitiate)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}

	appLogger.Info("Initializing NATS connection...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
	}
	msgPublisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}

	propertyRepo := mongoadapter.NewPropertyRepository(mongoClient, cfg.MongoDB)
	transactionRepo := mongoadapter.NewTransactionRepository(mongoClient, cfg.MongoDB)
	userLookup := mongoadapter.NewUserLookup(mongoClient, cfg.MongoDB)
	propertyCache := redisadapter.NewPropertyCache(redisClient)
	appLogger.Info("Repositories initialized")

	purchaseService := service.NewPurchaseService(
		propertyRepo,
		transactionRepo,
		userLookup,
		propertyCache,
		msgPublisher,
		appLogger,
		service.PurchaseServiceConfig{
			ReserveOnInitiate: cfg.Purchase.ReserveOnInitiate,
			PropertyCacheTTL:  cfg.Purchase.PropertyCacheTTL,
		},
	)

	var sweeper *service.ReservationSweeper
	if cfg.Purchase.ReserveOnInitiate {
		sweeper = service.NewReservationSweeper(
			purchaseService,
			transactionRepo,
			appLogger,
			cfg.Purchase.SweepInterval,
			cfg.Purchase.ReservationTTL,
		)
	}

	router := httpport.NewRouter(
		httpport.NewPurchaseHandler(purchaseService, appLogger),
		httpport.NewPropertyHandler(purchaseService, appLogger),
	)
	server := httpport.NewServer(appLogger, httpport.ServerConfig{
		Port:         cfg.HTTPServer.Port,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}, router)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		sweeper:     sweeper,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	if a.sweeper != nil {
		go a.sweeper.Start(workerCtx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}

	a.log.Info("Closing connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
}
