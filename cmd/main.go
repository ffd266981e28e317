package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/events"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/handler"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/repository"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/service"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/ws"
	"github.com/cloud-wave-best-zizon/catalog-service/pkg/config"
	"github.com/cloud-wave-best-zizon/catalog-service/pkg/middleware"
	pkgtls "github.com/cloud-wave-best-zizon/catalog-service/pkg/tls"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

func main() {
	// Logger 초기화
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// .env가 있으면 로드
	_ = godotenv.Load()

	// Config 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Store 초기화 (LOCAL_MODE는 in-memory, 그 외 DynamoDB)
	var productStore repository.ProductStore
	var orderStore repository.OrderStore
	if cfg.LocalMode {
		logger.Info("Running in local mode with in-memory stores")
		productStore = repository.NewMemoryProductStore()
		orderStore = repository.NewMemoryOrderStore()
	} else {
		dynamoClient, err := repository.NewDynamoDBClient(cfg)
		if err != nil {
			log.Fatal("Failed to create DynamoDB client:", err)
		}
		productStore = repository.NewDynamoProductStore(dynamoClient, cfg.ProductTableName)
		orderStore = repository.NewDynamoOrderStore(dynamoClient, cfg.OrderTableName)
	}

	// Event producer 초기화
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaEnabled {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers, logger)
		defer producer.Close()
		publisher = producer
	}

	// Service, Handler 초기화
	productService := service.NewProductService(productStore, publisher, logger)
	skuValidator := service.NewSKUValidator(productStore)
	orderService := service.NewOrderService(orderStore, productStore, skuValidator, publisher, logger)

	hub := ws.NewHub(logger)
	notifier := ws.NewCatalogNotifier(hub, productService, logger)

	productHandler := handler.NewProductHandler(productService, notifier, logger)
	orderHandler := handler.NewOrderHandler(orderService, notifier, logger)

	// Gin Router 설정
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", productHandler.ListProducts)
		v1.POST("/products", productHandler.CreateProduct)
		v1.GET("/products/:id", productHandler.GetProduct)
		v1.PUT("/products/:id", productHandler.UpdateProduct)
		v1.DELETE("/products/:id", productHandler.DeleteProduct)

		v1.GET("/orders", orderHandler.ListOrders)
		v1.POST("/orders", orderHandler.CreateOrder)
		v1.GET("/orders/:id", orderHandler.GetOrder)
		v1.PUT("/orders/:id", orderHandler.UpdateOrder)
		v1.DELETE("/orders/:id", orderHandler.DeleteOrder)

		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "healthy"})
		})
	}
	router.GET("/ws/products", func(c *gin.Context) {
		hub.HandleConnection(c.Writer, c.Request)
	})

	// TLS 설정 (옵션)
	var tlsCfg pkgtls.TLSConfig
	if err := envconfig.Process("", &tlsCfg); err != nil {
		log.Fatal("Failed to load TLS config:", err)
	}
	tlsSource, err := pkgtls.Load(context.Background(), &tlsCfg, logger)
	if err != nil {
		log.Fatal("Failed to load TLS config:", err)
	}
	defer tlsSource.Close()

	// Server 시작
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	if tlsSource != nil {
		srv.TLSConfig = tlsSource.Config
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
