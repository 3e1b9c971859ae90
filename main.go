package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mirtech/salesdash-go/api"
	"github.com/mirtech/salesdash-go/cache"
	"github.com/mirtech/salesdash-go/config"
	"github.com/mirtech/salesdash-go/services"
	"github.com/mirtech/salesdash-go/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	// Initialize cache manager and background cleanup
	cacheManager := cache.NewManager()
	cache.StartCleanupRoutine(cacheManager)
	log.Println("Cache manager initialized")

	// Connect to the fact dataset
	db, err := store.NewDB()
	if err != nil {
		log.Fatalf("Failed to connect to fact dataset: %v", err)
	}
	defer db.Close()

	factStore := store.NewFactStore(db)
	aggregation := services.NewAggregationService(cacheManager, factStore)
	pagination := services.NewPaginationService(cacheManager, factStore)
	handlers := api.NewHandlers(aggregation, pagination, factStore)

	// Warm long-horizon periods in the background; failures are non-fatal
	warmer := services.NewCacheWarmingService(aggregation, pagination)
	warmer.Start()

	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// Configure CORS to allow localhost dashboard origins
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173", // Vite dev server
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		AllowMethods: []string{
			"GET", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "X-Requested-With",
		},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		stats := v1.Group("/stats")
		{
			stats.GET("/charts", handlers.ChartStatsHandler)
			stats.GET("/summary", handlers.SummaryStatsHandler)
		}

		v1.GET("/facts", handlers.FactsHandler)
		v1.GET("/products/search", handlers.ProductSearchHandler)
		v1.GET("/db/status", handlers.DBStatusHandler)
	}

	log.Printf("Starting server on :%s", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
