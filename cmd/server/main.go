package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	cartcontrollers "github.com/Herzon-Palma/Coders/cart/controllers"
	cartrepo "github.com/Herzon-Palma/Coders/cart/repository"
	cartroutes "github.com/Herzon-Palma/Coders/cart/routes"
	cartservices "github.com/Herzon-Palma/Coders/cart/services"
	checkoutcontrollers "github.com/Herzon-Palma/Coders/checkout/controllers"
	checkoutrepo "github.com/Herzon-Palma/Coders/checkout/repository"
	checkoutroutes "github.com/Herzon-Palma/Coders/checkout/routes"
	checkoutservices "github.com/Herzon-Palma/Coders/checkout/services"
	"github.com/Herzon-Palma/Coders/config"
	inventorycontrollers "github.com/Herzon-Palma/Coders/inventory/controllers"
	inventoryrepo "github.com/Herzon-Palma/Coders/inventory/repository"
	inventoryroutes "github.com/Herzon-Palma/Coders/inventory/routes"
	inventoryservices "github.com/Herzon-Palma/Coders/inventory/services"
	ordercontrollers "github.com/Herzon-Palma/Coders/order/controllers"
	orderrepo "github.com/Herzon-Palma/Coders/order/repository"
	orderroutes "github.com/Herzon-Palma/Coders/order/routes"
	orderservices "github.com/Herzon-Palma/Coders/order/services"
	paymentservices "github.com/Herzon-Palma/Coders/payment/services"
	"github.com/Herzon-Palma/Coders/pkg/awsx"
	"github.com/Herzon-Palma/Coders/pkg/events"
	"github.com/Herzon-Palma/Coders/pkg/validation"
	promotioncontrollers "github.com/Herzon-Palma/Coders/promotion/controllers"
	promotionmodels "github.com/Herzon-Palma/Coders/promotion/models"
	promotionrepo "github.com/Herzon-Palma/Coders/promotion/repository"
	promotionroutes "github.com/Herzon-Palma/Coders/promotion/routes"
	promotionservices "github.com/Herzon-Palma/Coders/promotion/services"
)

func main() {

	// Load environment configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := validation.Register(); err != nil {
		logger.Fatal("failed to register validators", zap.Error(err))
	}

	// Postgres holds checkouts, orders and coupons
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to Postgres", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&checkoutrepo.CheckoutRecord{},
		&orderrepo.OrderRow{},
		&orderrepo.OrderItemRow{},
		&orderrepo.StatusChangeRow{},
		&promotionmodels.Coupon{},
	); err != nil {
		logger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	// Redis holds active carts
	redisClient, err := cartrepo.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	// Mongo holds stock levels
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, mongoDB, err := inventoryrepo.NewMongoDatabase(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	// Kafka carries every domain event on a single topic
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic, logger)

	// SNS fan-out is best effort; the service runs without AWS credentials
	var snsClient awsx.SNSPublisher
	if awsCfg, err := awsx.LoadConfig(context.Background()); err != nil {
		logger.Warn("AWS config unavailable, SNS publishing disabled", zap.Error(err))
	} else {
		snsClient = awsx.NewSNSClient(awsCfg)
	}

	cartRepository := cartrepo.NewRedisCartRepository(redisClient, cfg.CartTTL)
	checkoutRepository := checkoutrepo.NewGormCheckoutRepository(db)
	orderRepository := orderrepo.NewGormOrderRepository(db)
	couponRepository := promotionrepo.NewGormCouponRepository(db)
	inventoryRepository := inventoryrepo.NewMongoInventoryRepository(mongoDB)

	stockService := inventoryservices.NewStockService(inventoryRepository, logger)
	couponService := promotionservices.NewCouponService(couponRepository, logger)
	couponPolicy := promotionservices.NewCouponPolicyAdapter(couponRepository, snsClient, cfg.SNSTopicArn, logger)
	paymentPolicy := paymentservices.NewRoutingPaymentPolicy(
		paymentservices.NewStripePaymentPolicy(cfg.StripeSecretKey, logger),
		paymentservices.NewOfflinePaymentPolicy(logger),
	)
	cartService := cartservices.NewCartService(cartRepository, publisher, logger)
	checkoutService := checkoutservices.NewCheckoutService(
		checkoutRepository,
		cartRepository,
		stockService,
		couponPolicy,
		paymentPolicy,
		stockService,
		publisher,
		logger,
	)
	orderService := orderservices.NewOrderService(orderRepository, publisher, logger)

	// The consumer turns checkout requests into persisted orders
	consumer := orderservices.NewOrderRequestConsumer(cfg.KafkaBrokers, cfg.EventsTopic, cfg.OrdersGroup, orderService, logger)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go consumer.Start(consumerCtx)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Register routes
	cartroutes.RegisterCartRoutes(router, cartcontrollers.NewCartController(cartService))
	checkoutroutes.RegisterCheckoutRoutes(router, checkoutcontrollers.NewCheckoutController(checkoutService))
	orderroutes.RegisterOrderRoutes(router, ordercontrollers.NewOrderController(orderService))
	promotionroutes.RegisterCouponRoutes(router, promotioncontrollers.NewCouponController(couponService))
	inventoryroutes.RegisterInventoryRoutes(router, inventorycontrollers.NewInventoryController(stockService))

	// Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("order pipeline is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down gracefully")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	stopConsumer()
	if err := consumer.Close(); err != nil {
		logger.Error("failed to close consumer", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Error("failed to close publisher", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error("failed to disconnect MongoDB", zap.Error(err))
	}
	logger.Info("server shutdown complete")
}
