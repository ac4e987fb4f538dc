package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amora-backend/internal/config"
	"amora-backend/internal/handlers"
	"amora-backend/internal/middleware"
	"amora-backend/internal/repository"
	"amora-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Apply schema
	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	designRepo := repository.NewDesignRepository(db)

	// Initialize services
	wsHub := services.NewWSHub()
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret)
	userService := services.NewUserService(userRepo)
	memoryService := services.NewMemoryService(memoryRepo, userRepo, wsHub)
	designService := services.NewDesignService(designRepo, cfg.Limits)
	storageService, err := services.NewStorageService(cfg.AWS, cfg.Limits.MaxUploadBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage service")
	}
	pushService, err := services.NewPushService(cfg.APNS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}
	invitationService := services.NewInvitationService(invitationRepo, userRepo, wsHub, pushService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, wsHub)
	memoryHandler := handlers.NewMemoryHandler(memoryService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	designHandler := handlers.NewDesignHandler(designService)
	uploadHandler := handlers.NewUploadHandler(storageService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, authService, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))

			r.Get("/user/me", userHandler.Me)
			r.Put("/user/profile", userHandler.UpdateProfile)
			r.Put("/user/push-token", userHandler.UpdatePushToken)
			r.Post("/user/code", userHandler.GenerateCode)
			r.Post("/user/pair", userHandler.Pair)
			r.Post("/user/unpair", userHandler.Unpair)

			r.Get("/memories", memoryHandler.List)
			r.Post("/memories", memoryHandler.Create)
			r.Delete("/memories/{id}", memoryHandler.Delete)

			r.Post("/invitations", invitationHandler.Create)
			r.Get("/invitations", invitationHandler.List)
			r.Put("/invitations/{id}/respond", invitationHandler.Respond)

			r.Get("/designs", designHandler.List)
			r.Get("/designs/{id}", designHandler.Get)
			r.Post("/designs", designHandler.Create)
			r.Put("/designs/{id}", designHandler.Update)
			r.Delete("/designs/{id}", designHandler.Delete)

			r.Post("/uploads", uploadHandler.Presign)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
