package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Waver/internal/api/middleware"
	"Waver/internal/api/routes"
	"Waver/internal/config"
	"Waver/internal/core/attachments"
	"Waver/internal/core/waves"
	postgresRepo "Waver/internal/db/postgres"
	minioStore "Waver/internal/storage/minio"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}
	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	blobStore, err := minioStore.New(minioStore.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		log.Fatal("Failed to connect to object store:", err)
	}
	if err := blobStore.EnsureBucket(context.Background()); err != nil {
		log.Fatal("Failed to ensure attachment bucket:", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Repositories and services
	userRepo := postgresRepo.NewUserRepository(db)
	attachmentRepo := postgresRepo.NewAttachmentRepository(db)
	waveRepo := postgresRepo.NewWaveRepository(db)

	attachmentService := attachments.NewAttachmentService(attachmentRepo, blobStore)
	waveService := waves.NewWaveService(waveRepo, userRepo, attachmentService)

	// The reaper runs on its own timer, independent of request handling
	reaper := attachments.NewReaper(attachmentRepo, blobStore, cfg.ReaperPeriod, cfg.ReaperRetention, registry)

	authMiddleware := middleware.NewBasicAuthMiddleware(userRepo)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	metrics := middleware.NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(rateLimiter.Middleware)
	r.Use(metrics.Middleware)

	r.Route("/api/1.0", func(r chi.Router) {
		routes.RegisterWaveRoutes(r, waveService, authMiddleware)
		routes.RegisterAttachmentRoutes(r, attachmentService, authMiddleware)
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reaper.Start(ctx)

	go func() {
		log.Printf("Waver starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	// Shutdown stops scheduling further reaper runs and drains in-flight
	// requests
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down")
	reaper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
