package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/imoveis/catalog/config"
	"github.com/imoveis/catalog/internal/api"
	"github.com/imoveis/catalog/internal/api/handlers"
	"github.com/imoveis/catalog/internal/core/auth"
	"github.com/imoveis/catalog/internal/core/contact"
	"github.com/imoveis/catalog/internal/core/inquiry"
	"github.com/imoveis/catalog/internal/core/listing"
	"github.com/imoveis/catalog/internal/core/media"
	"github.com/imoveis/catalog/internal/core/validation"
	"github.com/imoveis/catalog/internal/events"
	"github.com/imoveis/catalog/internal/mailer"
	"github.com/imoveis/catalog/internal/platform/logger"
	"github.com/imoveis/catalog/internal/platform/metrics"
	"github.com/imoveis/catalog/internal/storage/postgres"
	redisstore "github.com/imoveis/catalog/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	ctx := context.Background()
	m := metrics.New()
	validator := validation.NewValidator()

	var (
		listingRepo listing.Repository
		contactRepo contact.Repository
		userStore   auth.UserStore
		listingOpts []listing.Option
	)

	if cfg.Database.Enabled() {
		db, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to prepare database schema", zap.Error(err))
		}
		log.Info("connected to database", zap.String("host", cfg.Database.Host))

		listingRepo = listing.NewPostgresRepository(db)
		contactRepo = contact.NewPostgresRepository(db)
		userStore = auth.NewRepository(db)
	} else {
		log.Warn("no database configured, serving the example catalog from memory")
		listingRepo = listing.NewMemoryRepository(listing.ExampleListings())
		contactRepo = contact.NewMemoryRepository()
		userStore = auth.NewMemoryStore()
		listingOpts = append(listingOpts, listing.WithExampleData())
	}

	if cfg.Redis.Address != "" {
		rdb, err := redisstore.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, listing cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			listingRepo = listing.NewCachedRepository(listingRepo, rdb, cfg.Redis.ListingTTL, cfg.Redis.SearchTTL, log)
			log.Info("listing cache enabled", zap.String("address", cfg.Redis.Address))
		}
	}

	var notifiers []contact.Notifier
	if cfg.NATS.URL != "" {
		pub, err := events.NewPublisher(cfg.NATS.URL, log)
		if err != nil {
			log.Warn("nats unavailable, events disabled", zap.Error(err))
		} else {
			defer pub.Close()
			notifiers = append(notifiers, events.NewContactNotifier(pub))
			listingOpts = append(listingOpts, listing.WithEvents(pub))
		}
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.AdminEmail != "" {
		notifiers = append(notifiers, mailer.NewAdminNotifier(&cfg.SMTP))
	}

	listingOpts = append(listingOpts, listing.WithMetrics(m))

	authService := auth.NewService(userStore, &cfg.JWT, &cfg.Auth)
	if !cfg.Database.Enabled() {
		if !cfg.Admin.Enabled() {
			log.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, no admin account in memory mode")
		} else if err := seedAdmin(ctx, authService, cfg.Admin, log); err != nil {
			log.Fatal("failed to seed admin account", zap.Error(err))
		}
	}
	listingService := listing.NewService(listingRepo, validator, log, listingOpts...)
	contactService := contact.NewService(contactRepo, validator, m, log, notifiers...)
	inquiryService := inquiry.NewService(inquiry.NewComposer(listingService, log), contactService)

	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService)
	contactHandler := handlers.NewContactHandler(inquiryService, contactService)

	var (
		uploadHandler *handlers.UploadHandler
		localUploads  string
	)
	if cfg.Upload.WatermarkPath == "" {
		log.Warn("UPLOAD_WATERMARK_PATH is empty, image uploads disabled")
	} else {
		watermarker, err := media.LoadWatermarker(cfg.Upload.WatermarkPath)
		if err != nil {
			log.Fatal("failed to load watermark logo", zap.Error(err))
		}

		var store media.Store
		if cfg.Storage.Endpoint != "" {
			store, err = media.NewS3Store(ctx, &cfg.Storage, log)
		} else {
			store, err = media.NewLocalStore(cfg.Storage.LocalDir, api.LocalUploadsPath)
			localUploads = cfg.Storage.LocalDir
		}
		if err != nil {
			log.Fatal("failed to initialize image storage", zap.Error(err))
		}
		mediaService := media.NewService(store, watermarker, cfg.Upload.MaxBytes, m, log)
		uploadHandler = handlers.NewUploadHandler(mediaService)
	}

	router := api.NewRouter(authService, authHandler, listingHandler, contactHandler, uploadHandler, log, m)
	if localUploads != "" {
		router.ServeLocalUploads(localUploads)
	}
	engine := router.Setup(cfg.Server.Mode)

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        corsOptions.Handler(engine),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		contactService.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(cfg.Server.ShutdownTimeout):
		log.Warn("pending contact notifications abandoned")
	}
	log.Info("server stopped")
}

// seedAdmin creates the configured admin account, or resets its password.
// The in-memory user store starts empty on every boot.
func seedAdmin(ctx context.Context, svc *auth.Service, cfg config.AdminConfig, log *zap.Logger) error {
	if !cfg.Enabled() {
		return nil
	}
	created, err := svc.EnsureAdmin(ctx, cfg.Email, cfg.Password, cfg.Name)
	if err != nil {
		return err
	}
	log.Info("admin account ready", zap.String("email", cfg.Email), zap.Bool("created", created))
	return nil
}
