package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"railcrm/backend/internal/api/handler"
	"railcrm/backend/internal/complaint"
	"railcrm/backend/internal/config"
	"railcrm/backend/internal/feed"
	"railcrm/backend/internal/genai"
	"railcrm/backend/internal/models"
	"railcrm/backend/internal/notify"
	"railcrm/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting RailCRM Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set!")
	}

	// 1. Dependencies
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	classifier, err := genai.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to create classification client: %v", err)
	}

	events := feed.NewRedisSource(rdb)
	complaintSvc := complaint.NewService(s, classifier, events)

	// 2. Broadcast delivery worker (optional: needs a bot token)
	ctx := context.Background()
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		notifier, err := notify.NewTelegramNotifier(token, s, rdb)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		go notifier.Run(ctx)
	} else {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, broadcast delivery disabled")
	}

	// 3. Gin routing
	r := gin.Default()
	h := handler.NewHandler(s, complaintSvc, []byte(jwtSecret))

	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	authed := r.Group("/", h.AuthRequired())
	{
		authed.GET("/profile", h.GetProfile)
		authed.POST("/complaints", h.SubmitComplaint)
		authed.GET("/complaints", h.ListOwnComplaints)
		authed.GET("/ws/complaints", h.ServeComplaintFeed)
		authed.GET("/notifications", h.ListNotifications)
	}

	admin := r.Group("/admin", h.AuthRequired(), h.AdminRequired())
	{
		admin.POST("/complaints/:id/feedback", h.SubmitFeedback)
		admin.POST("/customers", h.CreateCustomer)
		admin.GET("/customers", h.ListCustomers)
		admin.POST("/notifications", h.CreateNotification)
		admin.PUT("/notifications/:id", h.UpdateNotification)
		admin.DELETE("/notifications/:id", h.DeleteNotification)
	}

	// 4. HTTP server
	server := &http.Server{
		Addr:           config.ServerAddr,
		Handler:        r,
		ReadTimeout:    config.ServerReadTimeout,
		WriteTimeout:   config.ServerWriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
