package main

import (
	"log"
	"os"
	"time"

	"resto-pos-api/config"
	"resto-pos-api/handlers"
	"resto-pos-api/kitchen"
	"resto-pos-api/logging"
	"resto-pos-api/middleware"
	"resto-pos-api/notify"
	"resto-pos-api/orders"
	"resto-pos-api/processor"
	"resto-pos-api/recommend"
	"resto-pos-api/routes"
	"resto-pos-api/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	logger := logging.Init("resto-pos", "./logs/app.log")

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.InitDB()

	// The processor ships as a mock until real credentials exist; the retry
	// wrapper gives every implementation the retry-once-with-same-key policy.
	proc := processor.WithRetry(processor.NewMock(), logging.New("processor"))

	smsCfg := config.SMS()
	notifier := notify.NewNotifier(smsCfg, logging.New("notify"))

	hub := kitchen.NewHub(logging.New("kitchen"))

	orderSvc := orders.NewService(
		config.DB, proc, hub, notifier,
		config.TaxRate(), smsCfg.AlertTo,
		logging.New("orders"),
	)

	recClient := recommend.NewClient(config.Inference(), logging.New("recommend"))
	recCache := recommend.NewCache()

	// Scheduled sync jobs
	runner := scheduler.New(logging.New("scheduler"))
	err := runner.Register(scheduler.Jobs(scheduler.Deps{
		DB:        config.DB,
		Processor: proc,
		Orders:    orderSvc,
		Recommend: recClient,
		RecCache:  recCache,
		Notifier:  notifier,
		AlertTo:   smsCfg.AlertTo,
		Log:       logging.New("jobs"),
	}))
	if err != nil {
		log.Fatal("Failed to register scheduled jobs:", err)
	}
	runner.Start()
	defer runner.Stop()

	r := gin.Default()
	r.Use(middleware.RequestLogger())

	// CORS for the dashboard and kitchen display frontends
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", handlers.SignatureHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Restaurant POS API",
		})
	})

	api := &handlers.API{Orders: orderSvc, RecCache: recCache}
	routes.SetupRoutes(r, api, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
