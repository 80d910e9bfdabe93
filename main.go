package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/movietrack/backend/internal/client"
	"github.com/movietrack/backend/internal/config"
	"github.com/movietrack/backend/internal/db"
	"github.com/movietrack/backend/internal/handler"
	"github.com/movietrack/backend/internal/service"
)

// @title MovieTrack API
// @version 1.0
// @description Movie tracking backend with email/password auth and per-user movie ownership.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres init failed: %v", err)
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	mailer := client.NewMailer(cfg.SMTP, cfg.App.FrontendURL)

	authSvc, err := service.NewAuthService(store, mailer, cfg.Auth)
	if err != nil {
		log.Fatalf("auth init failed: %v", err)
	}
	movieSvc := service.NewMovieService(store)

	var posterStorage handler.PosterStorage
	if cfg.Storage.Bucket != "" {
		storageClient, err := client.NewStorageClient(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("storage init failed: %v", err)
		}
		posterStorage = storageClient
	} else {
		log.Println("[Storage] S3 not configured, poster uploads disabled")
	}

	reminder := service.NewReminderService(store, mailer, 24*time.Hour)
	reminder.Start()
	defer reminder.Stop()

	router := gin.Default()
	if len(cfg.App.AllowedOrigins) > 0 {
		router.Use(handler.CORSMiddleware(cfg.App.AllowedOrigins))
	}

	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	userHandler := handler.NewUserHandler(authSvc)
	movieHandler := handler.NewMovieHandler(movieSvc, posterStorage)
	authRequired := handler.AuthMiddleware(authSvc)

	users := router.Group("/api/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/forgot-password", userHandler.ForgotPassword)
		users.POST("/reset-password", userHandler.ResetPassword)

		users.GET("", authRequired, userHandler.ListUsers)
		users.GET("/profile", authRequired, userHandler.GetProfile)
		users.PATCH("/profile", authRequired, userHandler.UpdateProfile)
		users.DELETE("/profile", authRequired, userHandler.DeleteAccount)
	}

	movies := router.Group("/api/movies", authRequired)
	{
		movies.GET("", movieHandler.List)
		movies.GET("/my-movies", movieHandler.ListMine)
		movies.POST("", movieHandler.Create)
		movies.GET("/:id", movieHandler.Get)
		movies.PATCH("/:id", movieHandler.Update)
		movies.DELETE("/:id", movieHandler.Delete)
	}

	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
