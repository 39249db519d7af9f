package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nalia-backend/internal/cache"
	"nalia-backend/internal/config"
	"nalia-backend/internal/handlers"
	"nalia-backend/internal/jobs"
	"nalia-backend/internal/middleware"
	"nalia-backend/internal/repository"
	"nalia-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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

	// Connect to redis for the unread-badge cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping redis")
	}
	log.Info().Msg("Redis connection established")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	interestRepo := repository.NewInterestRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	dmRepo := repository.NewDirectMessageRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	unreadCache := cache.NewUnreadCache(rdb)
	feedHub := services.NewFeedHub()
	userService := services.NewUserService(profileRepo, cfg.JWT.Secret)
	pushService, err := services.NewPushService(cfg.APNs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}
	mediaService, err := services.NewMediaService(cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media service")
	}
	notificationService := services.NewNotificationService(notificationRepo, profileRepo, feedHub, pushService, unreadCache)
	profileService := services.NewProfileService(profileRepo, interestRepo, feedHub)
	eventService := services.NewEventService(eventRepo, attendeeRepo, profileRepo, feedHub, notificationService)
	chatService := services.NewChatService(messageRepo, dmRepo, attendeeRepo, friendshipRepo, notificationRepo, feedHub, notificationService, unreadCache)
	friendshipService := services.NewFriendshipService(friendshipRepo, profileRepo, feedHub, notificationService)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService)
	eventHandler := handlers.NewEventHandler(eventService)
	chatHandler := handlers.NewChatHandler(chatService)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	wsHandler := handlers.NewWebSocketHandler(feedHub, userService)

	// Start the recurring-events maintenance job
	recurringJob, err := jobs.NewRecurringEventsJob(eventRepo, feedHub, cfg.Jobs.RecurringEvents)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create recurring events job")
	}
	recurringJob.Start()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/profiles/me", profileHandler.GetMe)
			r.Put("/profiles/me", profileHandler.UpdateMe)
			r.Put("/profiles/me/push-token", profileHandler.UpdatePushToken)
			r.Get("/profiles/nearby", profileHandler.Nearby)

			r.Get("/events", eventHandler.List)
			r.Post("/events", eventHandler.Create)
			r.Get("/events/mine", eventHandler.ListMine)
			r.Get("/events/{event_id}", eventHandler.Get)
			r.Delete("/events/{event_id}", eventHandler.Delete)
			r.Post("/events/{event_id}/join", eventHandler.Join)
			r.Get("/events/{event_id}/attendees", eventHandler.Attendees)
			r.Post("/events/{event_id}/attendees/{user_id}/approve", eventHandler.Approve)
			r.Delete("/events/{event_id}/attendees/{user_id}", eventHandler.RemoveAttendee)

			r.Get("/events/{event_id}/messages", chatHandler.EventMessages)
			r.Post("/events/{event_id}/messages", chatHandler.SendEventMessage)
			r.Post("/events/{event_id}/messages/read", chatHandler.MarkEventRead)
			r.Get("/messages/{peer_id}", chatHandler.DirectMessages)
			r.Post("/messages/{peer_id}", chatHandler.SendDirectMessage)
			r.Post("/messages/{peer_id}/read", chatHandler.MarkDirectRead)
			r.Get("/unread", chatHandler.Unread)

			r.Get("/friends", friendshipHandler.List)
			r.Get("/friends/requests", friendshipHandler.Requests)
			r.Post("/friends/{user_id}", friendshipHandler.Request)
			r.Post("/friends/{user_id}/accept", friendshipHandler.Accept)
			r.Delete("/friends/{user_id}", friendshipHandler.Remove)

			r.Get("/notifications", notificationHandler.List)
			r.Post("/notifications/read-all", notificationHandler.MarkAllRead)
			r.Post("/notifications/{notification_id}/read", notificationHandler.MarkRead)

			r.Post("/media/upload-url", mediaHandler.UploadURL)
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

	recurringJob.Stop()
	feedHub.Close()

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
