package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"farmland-portal/internal/auth"
	"farmland-portal/internal/cache"
	"farmland-portal/internal/config"
	"farmland-portal/internal/database"
	"farmland-portal/internal/handlers"
	"farmland-portal/internal/ratelimit"
	"farmland-portal/internal/scheduler"
	"farmland-portal/internal/search"
	"farmland-portal/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "config/portal.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", configPath, err)
	}
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Loaded configuration from %s", configPath)

	// Database
	db, err := database.NewDB(appConfig.Database.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Cache backend
	store := newCacheStore(appConfig)
	defer store.Close()

	// Search is optional; everything else degrades to database queries
	var searchClient *search.SearchClient
	if appConfig.Search.Enabled {
		searchClient = search.NewSearchClient(appConfig.Search.Meilisearch.Host, appConfig.Search.Meilisearch.APIKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Search is disabled, using database fallback")
	}

	appStorage := storage.New(db.DB(), store, appConfig.Cache.CacheTTL())
	tokens := auth.NewTokenIssuer(appConfig.Auth.JWTSecret, appConfig.Auth.TokenTTL())

	// Nightly maintenance
	appScheduler := scheduler.NewScheduler(appStorage, searchClient, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Rate limit tiers
	rl := appConfig.RateLimit
	limiters := handlers.Limiters{
		Global: ratelimit.NewLimiter(rl.GlobalMax, rl.Window(), rl.Enabled),
		Strict: ratelimit.NewLimiter(rl.StrictMax, rl.Window(), rl.Enabled),
		Auth:   ratelimit.NewLimiter(rl.AuthMax, rl.Window(), rl.Enabled),
	}
	log.Printf("Rate limiter initialized: %d/%d/%d requests per %dm (enabled: %v)",
		rl.GlobalMax, rl.StrictMax, rl.AuthMax, rl.WindowMinutes, rl.Enabled)
	go sweepLimiters(limiters)

	// Router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-Id"},
		AllowCredentials: true,
	}))

	h := handlers.New(appStorage, searchClient, tokens, appScheduler, appConfig)
	h.RegisterRoutes(router, limiters)

	addr := fmt.Sprintf(":%d", appConfig.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newCacheStore picks the cache backend from config. A failing Redis falls
// back to the in-memory store rather than blocking startup.
func newCacheStore(cfg *config.Config) cache.Store {
	switch cfg.Cache.Type {
	case "redis":
		store, err := cache.NewRedis(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			log.Printf("Warning: Redis unavailable (%v), falling back to in-memory cache", err)
			return cache.NewMemory()
		}
		log.Printf("Using Redis cache at %s", cfg.Cache.Redis.Addr)
		return store
	case "memory":
		log.Println("Using in-memory cache")
		return cache.NewMemory()
	default:
		log.Println("Caching disabled")
		return cache.Noop{}
	}
}

// sweepLimiters periodically drops idle IPs from the limiter maps
func sweepLimiters(limiters handlers.Limiters) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		limiters.Global.Sweep()
		limiters.Strict.Sweep()
		limiters.Auth.Sweep()
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
