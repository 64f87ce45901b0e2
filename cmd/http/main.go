package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mediline-service/cmd/migration"
	"mediline-service/internal/app/config"
	"mediline-service/internal/app/delivery/http/controllers"
	"mediline-service/internal/app/delivery/http/middlewares"
	"mediline-service/internal/app/delivery/http/routers"
	"mediline-service/internal/app/drivers/database"
	"mediline-service/internal/app/drivers/logger"
	"mediline-service/internal/app/drivers/messaging"
	"mediline-service/internal/app/drivers/storage"
	"mediline-service/internal/app/models"
	"mediline-service/internal/app/services/core/balances"
	"mediline-service/internal/app/services/core/callbacks"
	"mediline-service/internal/app/services/core/orders"
	"mediline-service/internal/app/services/core/payments"
	"mediline-service/internal/app/services/core/pricing"
	"mediline-service/internal/app/services/core/refunds"
	"mediline-service/internal/app/services/shared/archive"
	"mediline-service/internal/app/services/shared/locker"
	"mediline-service/internal/app/services/shared/notifier"
	"mediline-service/internal/app/services/shared/payment_gateway"
	"mediline-service/internal/app/services/shared/redis"
	"mediline-service/internal/pkg/utils"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		zapLogger.Fatal("failed to load timezone", zap.Error(err))
	}
	time.Local = location

	postgresDB := database.NewPostgresDB(driverConfig)
	if utils.GetEnvBool("POSTGRES_AUTO_MIGRATE", false) {
		migration.Run(postgresDB)
	}
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		PostgresDB:     postgresDB,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitConn,
		Minio:          minioClient,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}
	bootstrapTheApp(&bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", internalConfig.App.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	zapLogger.Info("shutdown signal received; draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("error while closing resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) {
	// Shared infrastructure
	transactionManager := database.NewTransactionManager(bootstrap.PostgresDB)
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	archiveService := archive.NewMinioArchive(bootstrap.Minio, bootstrap.InternalConfig.Payment.CallbackBucketName)

	notificationService, err := notifier.NewRabbitMQNotifier(
		bootstrap.RabbitMQ,
		bootstrap.InternalConfig.Payment.NotificationQueue,
		bootstrap.Logger,
	)
	if err != nil {
		bootstrap.Logger.Fatal("failed to set up notification publisher", zap.Error(err))
	}

	// Gateway adapters
	wechatService := payment_gateway.NewWechatService(bootstrap.InternalConfig)
	alipayService, err := payment_gateway.NewAlipayService(bootstrap.InternalConfig)
	if err != nil {
		bootstrap.Logger.Fatal("failed to set up alipay adapter", zap.Error(err))
	}

	// Pricing
	priceRepository := pricing.NewPricePostgresRepository(bootstrap.PostgresDB)
	pricingService := pricing.NewPricingService(priceRepository, bootstrap.Logger)

	// Balance ledger
	balanceRepository := balances.NewBalancePostgresRepository(bootstrap.PostgresDB)
	balanceEntryRepository := balances.NewBalanceEntryPostgresRepository(bootstrap.PostgresDB)
	ledger := balances.NewLedgerUsecase(balanceRepository, balanceEntryRepository, transactionManager, bootstrap.Logger)

	// Orders
	orderRepository := orders.NewOrderPostgresRepository(bootstrap.PostgresDB)
	orderUsecase := orders.NewOrderUsecase(orderRepository, pricingService, transactionManager, bootstrap.InternalConfig, bootstrap.Logger)

	// Payments
	transactionRepository := payments.NewTransactionPostgresRepository(bootstrap.PostgresDB)
	paymentUsecase := payments.NewPaymentUsecase(
		orderRepository,
		transactionRepository,
		transactionManager,
		notificationService,
		bootstrap.Logger,
		payments.NewBalanceStrategy(ledger, orderUsecase, transactionRepository),
		payments.NewGatewayStrategy(models.PaymentMethodWechat, wechatService, transactionRepository),
		payments.NewGatewayStrategy(models.PaymentMethodAlipay, alipayService, transactionRepository),
	)

	// Refunds
	refundRepository := refunds.NewRefundPostgresRepository(bootstrap.PostgresDB)
	refundUsecase := refunds.NewRefundUsecase(
		refundRepository,
		orderRepository,
		transactionRepository,
		orderUsecase,
		ledger,
		transactionManager,
		notificationService,
		bootstrap.Logger,
		wechatService,
		alipayService,
	)

	// Callbacks
	callbackUsecase := callbacks.NewCallbackUsecase(
		orderRepository,
		transactionRepository,
		refundRepository,
		orderUsecase,
		ledger,
		transactionManager,
		notificationService,
		archiveService,
		bootstrap.Logger,
	)

	// Expiry sweeper, guarded by a distributed lock so one replica runs it
	expiryWorker := orders.NewExpiryWorker(bootstrap.Logger, bootstrap.InternalConfig, lockerService, orderUsecase)
	expiryWorker.Start(context.Background())
	bootstrap.ExpiryWorkerStop = expiryWorker.Stop

	// HTTP delivery
	httpMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	orderController := controllers.NewOrderController(bootstrap.Logger, bootstrap.InternalConfig, orderUsecase)
	paymentController := controllers.NewPaymentController(bootstrap.Logger, bootstrap.InternalConfig, paymentUsecase)
	refundController := controllers.NewRefundController(bootstrap.Logger, bootstrap.InternalConfig, refundUsecase)
	balanceController := controllers.NewBalanceController(bootstrap.Logger, bootstrap.InternalConfig, ledger)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, bootstrap.InternalConfig, callbackUsecase, wechatService, alipayService)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		httpMiddlewares,
		orderController,
		paymentController,
		refundController,
		balanceController,
		webhookController,
	)
}
