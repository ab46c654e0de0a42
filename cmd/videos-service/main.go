package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/clipdeck/videos-service/docs"
	"github.com/clipdeck/videos-service/internal/cache"
	"github.com/clipdeck/videos-service/internal/config"
	"github.com/clipdeck/videos-service/internal/events"
	"github.com/clipdeck/videos-service/internal/http/handlers/thumbnails"
	"github.com/clipdeck/videos-service/internal/http/handlers/users"
	"github.com/clipdeck/videos-service/internal/http/handlers/videos"
	wsHandlers "github.com/clipdeck/videos-service/internal/http/handlers/websocket"
	"github.com/clipdeck/videos-service/internal/http/middleware"
	"github.com/clipdeck/videos-service/internal/probe"
	mediaService "github.com/clipdeck/videos-service/internal/services/media"
	"github.com/clipdeck/videos-service/internal/storage/postgres"
	"github.com/clipdeck/videos-service/internal/upload"
	"github.com/clipdeck/videos-service/internal/websocket"
)

// @title Videos Service API
// @version 1.0
// @description Video upload and ingestion service
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config
	cfg := config.MustLoad()

	// database setup
	db, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	slog.Info("Connected to Postgres database")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	slog.Info("Connected to Redis")

	store := cache.NewCacheService(db, redisClient)

	// object storage and the ingestion pipeline
	media, err := mediaService.NewService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize media service:", err)
	}

	staging, err := upload.NewStaging(cfg.Uploads.ScratchDir)
	if err != nil {
		log.Fatal("Failed to initialize staging store:", err)
	}

	if err := os.MkdirAll(cfg.Uploads.AssetsDir, 0755); err != nil {
		log.Fatal("Failed to create assets dir:", err)
	}

	videoPolicy := upload.Policy{
		MaxBytes:     cfg.Uploads.VideoMaxBytes,
		AllowedTypes: cfg.Uploads.VideoMimeTypes,
	}
	thumbnailPolicy := upload.Policy{
		MaxBytes:     cfg.Uploads.ThumbnailMaxBytes,
		AllowedTypes: cfg.Uploads.ThumbnailMimeTypes,
	}

	ingestor := upload.NewIngestor(videoPolicy, staging, probe.NewFFProbe(cfg.Uploads.FFProbeBin), media, store)

	// real-time events
	hub := websocket.NewHub()
	go hub.Run()
	publisher := events.NewEventPublisher(hub)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	rateLimits := middleware.NewRateLimitConfig(redisClient)

	// setup server
	router := http.NewServeMux()

	router.HandleFunc("POST /signup", users.SignUp(store))
	router.HandleFunc("POST /login", users.Login(store, cfg.JWTSecret))

	router.Handle("POST /videos", auth(rateLimits.RateLimitedHandler("videos", videos.CreateVideo(store))))
	router.Handle("GET /videos", auth(videos.ListVideos(store)))
	router.Handle("GET /videos/{videoID}", auth(videos.GetVideo(store)))
	router.Handle("POST /videos/{videoID}", auth(rateLimits.RateLimitedHandler("video_upload",
		videos.Upload(store, ingestor, publisher, cfg.Uploads.VideoMaxBytes))))
	router.Handle("GET /videos/{videoID}/download-url", auth(videos.DownloadURL(store, media)))

	thumbnailHandler := thumbnails.NewHandler(store, publisher, thumbnailPolicy, cfg.Uploads.AssetsDir, cfg.Uploads.AssetsURLBase)
	router.Handle("POST /thumbnails/{videoID}", auth(rateLimits.RateLimitedHandler("thumbnail_upload", thumbnailHandler.Upload())))

	router.HandleFunc("GET /ws", wsHandlers.WebSocketHandler(hub, cfg.JWTSecret))
	router.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.Uploads.AssetsDir))))
	router.Handle("/swagger/", httpSwagger.WrapHandler)

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: router,
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
