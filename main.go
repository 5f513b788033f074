package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"pricewatch/config"
	"pricewatch/database"
	"pricewatch/detector"
	"pricewatch/fetch"
	"pricewatch/handlers"
	"pricewatch/middleware"
	"pricewatch/models"
	"pricewatch/notify"
	"pricewatch/scheduler"
	"pricewatch/store"
	"pricewatch/tracker"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	retailers, err := config.LoadRetailers(cfg.RetailersFile)
	if err != nil {
		log.Fatalf("Failed to load retailers: %v", err)
	}
	log.Printf("Loaded %d retailers from %s", len(retailers), cfg.RetailersFile)

	obsStore, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize observation store: %v", err)
	}
	defer cleanup()

	// Browser fetching is only started when some retailer needs it.
	httpFetcher := fetch.NewHTTP(cfg.UserAgent, cfg.FetchTimeout)
	var renderer fetch.Fetcher
	if anyRendered(retailers) {
		browser, err := fetch.NewBrowser()
		if err != nil {
			log.Fatalf("Failed to start browser fetcher: %v", err)
		}
		defer browser.Close()
		renderer = browser
	}

	var notifier notify.Notifier
	if cfg.DiscordWebhookURL != "" {
		notifier = notify.NewDiscord(cfg.DiscordWebhookURL)
	} else {
		log.Println("DISCORD_WEBHOOK_URL is not set; printing notifications instead")
		notifier = notify.NewLog()
	}

	det := detector.New(cfg.RealertPolicy)
	trk := tracker.New(httpFetcher, renderer, obsStore, det, cfg.CheckDelay)

	checker := scheduler.NewChecker(trk, notifier, retailers)
	if err := checker.Start(cfg.CheckSchedule); err != nil {
		log.Fatalf("Failed to schedule price checker: %v", err)
	}
	defer checker.Stop()

	h := handlers.NewHandlers(retailers, obsStore, checker)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimit))
	r.Use(middleware.APIKeyMiddleware(cfg.APIKey))

	r.HandleFunc("/health", h.Health).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/retailers", h.GetRetailers).Methods("GET")
	apiV1.HandleFunc("/retailers/{name}", h.GetRetailer).Methods("GET")
	apiV1.HandleFunc("/check", h.CheckNow).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("🌐 Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, c.Handler(r)))
}

// buildStore picks the observation store backend from configuration.
func buildStore(cfg *config.App) (store.ObservationStore, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Println("Using in-memory observation store (state is lost on restart)")
		return store.NewMemory(), func() {}, nil

	case "postgres":
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.CreateSchema(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.NewPostgres(db), func() { db.Close() }, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return store.NewRedis(rdb), func() { rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func anyRendered(retailers []models.Retailer) bool {
	for _, r := range retailers {
		if r.Render {
			return true
		}
	}
	return false
}
