package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"zenitsuos/backend/internal/api/handler"
	"zenitsuos/backend/internal/middleware"
	"zenitsuos/backend/internal/notify"
	"zenitsuos/backend/internal/realtime"
	"zenitsuos/backend/internal/session"
	"zenitsuos/backend/internal/storage"
)

func setupStore() (storage.Store, *redis.Client) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "file"
	}

	switch backend {
	case "postgres":
		dsn := os.Getenv("DATABASE_DSN")
		if dsn == "" {
			log.Fatal("DATABASE_DSN required for the postgres store backend")
		}
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect PostgreSQL: %v", err)
		}
		store, err := storage.NewGormStore(db)
		if err != nil {
			log.Fatalf("Failed to prepare state table: %v", err)
		}
		log.Println("State store: postgres")
		return store, setupRedis(false)

	case "redis":
		rdb := setupRedis(true)
		log.Println("State store: redis")
		return storage.NewRedisStore(rdb), rdb

	case "file":
		dir := os.Getenv("STATE_DIR")
		if dir == "" {
			dir = "data"
		}
		store, err := storage.NewFileStore(dir)
		if err != nil {
			log.Fatalf("Failed to open state dir: %v", err)
		}
		log.Printf("State store: file (%s)", dir)
		return store, setupRedis(false)

	default:
		log.Fatalf("Unknown STORE_BACKEND %q", backend)
		return nil, nil
	}
}

// setupRedis connects when REDIS_ADDR is set; required=true makes a missing
// address fatal. The optional client backs the complaint rate limiter.
func setupRedis(required bool) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		if required {
			log.Fatal("REDIS_ADDR required for the redis store backend")
		}
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}
	return rdb
}

func main() {
	log.Println("Starting Zenitsu OS backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found")
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET not set")
	}

	store, rdb := setupStore()

	// The container must finish restoring before any route is served:
	// views never observe a half-initialized state.
	container := session.New(store)
	container.Restore()
	log.Println("Session state restored")

	hub := realtime.NewHub()
	go hub.Run()
	go hub.Forward(container.Subscribe())

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_ADMIN_CHAT_ID: %v", err)
		}
		notifier, err := notify.NewTelegramNotifier(token, chatID)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		go notifier.Run(container.Subscribe())
	}

	r := gin.Default()
	h := handler.NewHandler(container, hub, secret)

	r.POST("/api/auth/login", h.RequireReady(), h.Login)
	r.GET("/ws/state", h.ServeStateFeed)

	authed := r.Group("/api", h.RequireReady(), middleware.AuthMiddleware(secret))
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/auth/me", h.Me)
		authed.GET("/state", h.GetState)

		createComplaint := []gin.HandlerFunc{}
		if rdb != nil {
			limit := 10
			if v, err := strconv.Atoi(os.Getenv("COMPLAINTS_PER_DAY")); err == nil && v > 0 {
				limit = v
			}
			createComplaint = append(createComplaint, middleware.ComplaintRateLimiter(rdb, limit))
		}
		createComplaint = append(createComplaint, h.CreateComplaint)
		authed.POST("/complaints", createComplaint...)

		authed.GET("/complaints", h.ListComplaints)
		authed.PUT("/complaints/:id/status", h.UpdateComplaintStatus)

		authed.POST("/communities", h.CreateCommunity)
		authed.POST("/communities/:id/members", h.AddMember)
		authed.GET("/communities/current", h.CurrentCommunity)
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Listening on %s", addr)
	log.Fatal(server.ListenAndServe())
}
