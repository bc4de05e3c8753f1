package main

import (
	"os"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"moodmixserver.com/m/v2/internal/catalog"
	"moodmixserver.com/m/v2/internal/db"
	"moodmixserver.com/m/v2/internal/engine"
	"moodmixserver.com/m/v2/internal/gateway"
	"moodmixserver.com/m/v2/internal/service"
)

func main() {
	var logger *zap.Logger
	var err error

	if os.Getenv("DEBUG") == "true" {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		err = godotenv.Load("../../.env")
		if err != nil {
			logger.Warn("Warning: .env file not found. Using system environment variables.")
		}
		gin.SetMode(gin.DebugMode)
	} else {
		logger, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
		gin.SetMode(gin.ReleaseMode)
	}
	defer logger.Sync()

	// Initialize loggers for all packages
	gateway.InitializeLogger(logger)
	catalog.InitializeLogger(logger)
	engine.InitializeLogger(logger)
	db.InitializeLogger(logger)
	service.InitializeLogger(logger)

	gw := gateway.New().WithMetrics(gateway.NewMetrics())
	client, err := catalog.NewClient(gw)
	if err != nil {
		logger.Fatal("Failed to configure catalog client", zap.Error(err))
	}

	tagSources := []engine.TagSource{
		catalog.NewScrobbleTags(client),
		catalog.NewCatalogGenres(client),
	}

	engineMetrics := engine.NewMetrics()
	classifier := engine.NewClassifier(client, tagSources, engine.NewMoodCache()).
		WithMetrics(engineMetrics)
	aggregator := engine.NewAggregator(client, classifier).
		WithMetrics(engineMetrics)

	svc := service.New(aggregator, classifier)

	router := gin.New()

	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(service.RequestIDMiddleware())

	router.GET("/", service.HomeHandler)
	router.GET("/health", service.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1", service.RequireAPIKey())
	api.GET("/mix", svc.MixHandler)
	api.GET("/artists/moods", svc.ArtistMoodsHandler)
	api.GET("/tracks", svc.TracksHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		logger.Info("Defaulting to port", zap.String("port", port))
	}

	logger.Info("Server starting", zap.String("port", port))
	err = router.Run(":" + port)
	if err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
