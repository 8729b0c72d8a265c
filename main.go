package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinesage/api"
	"cinesage/config"
	"cinesage/handlers"
	"cinesage/services/catalog"
	"cinesage/services/metadata"
	"cinesage/services/recommend"
	"cinesage/utils"
)

const version = "1.0.0"

func main() {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
		}))
	}

	if cfg.GeminiAPIKey == "" {
		log.Printf("[main] GEMINI_API_KEY not set, search catalogs will be empty")
	}
	if cfg.TMDBAPIKey == "" {
		log.Printf("[main] TMDB_API_KEY not set, results cannot be enriched")
	}

	recommendSvc := recommend.NewService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.RecommendTTL)
	metadataSvc := metadata.NewService(cfg.TMDBAPIKey, cfg.MetadataTTL, cfg.MetadataCacheSize)
	catalogSvc := catalog.NewService(recommendSvc, metadataSvc)

	router := utils.NewRouter()
	router.Use(api.RequestIDMiddleware(), api.AccessLogMiddleware())

	catalogHandler := handlers.NewCatalogHandler(catalogSvc)
	router.HandleFunc("/manifest.json", handlers.GetManifest(version)).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/catalog/{type}/{id}/{extra}.json", catalogHandler.GetCatalog).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/catalog/{type}/{id}.json", catalogHandler.GetCatalog).Methods(http.MethodGet, http.MethodOptions)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[main] cinesage %s listening on %s", version, cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[main] server error: %v", err)
	}
}
