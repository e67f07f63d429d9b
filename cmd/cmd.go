package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plates-console/internal/apiclient"
	"plates-console/internal/config"
	"plates-console/internal/handlers"
	"plates-console/internal/middleware"
	"plates-console/internal/models"
	"plates-console/internal/repository"
	"plates-console/internal/services"
	"plates-console/internal/session"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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

	// Open session store
	store, closeStore, err := openStore(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer closeStore()

	sess, err := session.New(store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load session")
	}

	// The hub is created after the client it polls through
	var hub *services.NotificationHub
	api := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, sess, apiclient.WithExpiredHook(func() {
		if hub != nil {
			hub.Refresh()
		}
	}))

	// Initialize repositories
	userRepo := repository.NewUserRepository(api)
	donorRepo := repository.NewDonorRepository(api)
	ngoRepo := repository.NewNGORepository(api)
	donationRepo := repository.NewDonationRepository(api)
	capacityRepo := repository.NewCapacityRepository(api)
	searchRepo := repository.NewSearchRepository(api)
	ratingRepo := repository.NewRatingRepository(api)
	notificationRepo := repository.NewNotificationRepository(api)
	adminRepo := repository.NewAdminRepository(api)

	// Initialize services
	validator := services.NewValidator()
	hub = services.NewNotificationHub(notificationRepo, sess, cfg.Notifications.PollInterval)
	authService := services.NewAuthService(userRepo, sess, validator)
	donorService := services.NewDonorService(donorRepo, donationRepo, ngoRepo, ratingRepo, validator)
	matchService := services.NewMatchService(searchRepo, donorRepo, validator, cfg.Search)
	ngoService := services.NewNGOService(ngoRepo, donationRepo, ratingRepo, validator)
	capacityService := services.NewCapacityService(capacityRepo, validator)
	adminService := services.NewAdminService(adminRepo, donationRepo)
	notificationService := services.NewNotificationService(notificationRepo, hub)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Resume a stored session
	user, err := authService.Restore(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Stored session could not be restored")
	case user != nil:
		log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("Session restored")
	}

	go hub.Run(ctx)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(authService)
	donorHandler := handlers.NewDonorHandler(donorService, matchService)
	ngoHandler := handlers.NewNGOHandler(ngoService, capacityService)
	adminHandler := handlers.NewAdminHandler(adminService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.Console.AllowedOrigins)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Console.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.NewInFlight().Handler)

	// Public routes
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/login", userHandler.LoginStatus)
	r.Post("/login", userHandler.Login)
	r.Post("/register/donor", userHandler.RegisterDonor)
	r.Post("/register/ngo", userHandler.RegisterNGO)

	// Any signed-in user
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sess))
		r.Get("/me", userHandler.Me)
		r.Put("/me/password", userHandler.ChangePassword)
		r.Post("/logout", userHandler.Logout)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Delete("/", notificationHandler.ClearAll)
			r.Get("/unread", notificationHandler.Unread)
			r.Put("/read-all", notificationHandler.MarkAllRead)
			r.Put("/{id}/read", notificationHandler.MarkRead)
			r.Delete("/{id}", notificationHandler.Delete)
		})

		r.Get("/ws", wsHandler.HandleWebSocket)
	})

	r.Route("/donor", func(r chi.Router) {
		r.Use(middleware.RequireRole(sess, models.RoleDonor))
		r.Get("/dashboard", donorHandler.Dashboard)
		r.Get("/profile", donorHandler.GetProfile)
		r.Put("/profile", donorHandler.UpdateProfile)
		r.Get("/search", donorHandler.SearchNGOs)
		r.Post("/smart-donate", donorHandler.SmartDonate)
		r.Get("/ngos", donorHandler.VerifiedNGOs)
		r.Get("/ngos/{id}", donorHandler.NGODetails)
		r.Get("/locations/{id}/availability", donorHandler.Availability)
		r.Get("/donations", donorHandler.ListDonations)
		r.Post("/donations", donorHandler.CreateDonation)
		r.Get("/donations/{id}", donorHandler.GetDonation)
		r.Post("/donations/{id}/cancel", donorHandler.CancelDonation)
		r.Post("/donations/{id}/rating", donorHandler.RateDonation)
		r.Get("/ratings", donorHandler.ListRatings)
		r.Delete("/ratings/{id}", donorHandler.DeleteRating)
	})

	r.Route("/ngo", func(r chi.Router) {
		r.Use(middleware.RequireRole(sess, models.RoleNGO))
		r.Get("/dashboard", ngoHandler.Dashboard)
		r.Get("/profile", ngoHandler.GetProfile)
		r.Put("/profile", ngoHandler.UpdateProfile)
		r.Get("/locations", ngoHandler.ListLocations)
		r.Post("/locations", ngoHandler.CreateLocation)
		r.Get("/locations/{id}", ngoHandler.GetLocation)
		r.Put("/locations/{id}", ngoHandler.UpdateLocation)
		r.Delete("/locations/{id}", ngoHandler.DeleteLocation)
		r.Get("/locations/{id}/calendar", ngoHandler.Calendar)
		r.Get("/locations/{id}/calendar/select", ngoHandler.SelectDay)
		r.Get("/locations/{id}/capacity", ngoHandler.GetCapacity)
		r.Post("/locations/{id}/capacity", ngoHandler.SetCapacity)
		r.Delete("/locations/{id}/capacity", ngoHandler.ClearCapacity)
		r.Get("/locations/{id}/capacity/day", ngoHandler.DayCapacity)
		r.Get("/locations/{id}/capacity/manual", ngoHandler.ListManualCapacity)
		r.Get("/requests", ngoHandler.ListRequests)
		r.Get("/requests/{id}", ngoHandler.GetRequest)
		r.Post("/requests/{id}/confirm", ngoHandler.ConfirmRequest)
		r.Post("/requests/{id}/reject", ngoHandler.RejectRequest)
		r.Post("/requests/{id}/complete", ngoHandler.CompleteRequest)
		r.Get("/ratings", ngoHandler.Ratings)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(sess, models.RoleAdmin))
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/ngos", adminHandler.ListNGOs)
		r.Get("/ngos/pending", adminHandler.PendingNGOs)
		r.Get("/ngos/{id}", adminHandler.GetNGO)
		r.Post("/ngos/{id}/verify", adminHandler.ApproveNGO)
		r.Post("/ngos/{id}/reject", adminHandler.RejectNGO)
		r.Get("/users", adminHandler.ListUsers)
		r.Post("/users/{id}/activate", adminHandler.ActivateUser)
		r.Post("/users/{id}/deactivate", adminHandler.DeactivateUser)
		r.Get("/donations", adminHandler.ListDonations)
		r.Get("/reports", adminHandler.Report)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:        cfg.Console.Addr(),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// month calendars fan out a request per day
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Console.Host).
			Int("port", cfg.Console.Port).
			Str("api", cfg.API.BaseURL).
			Msg("Starting console")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Console failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down console...")

	// Stop polling and close notification streams
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Console forced to shutdown")
	}

	log.Info().Msg("Console exited")
}

// openStore opens the configured session store and returns its closer
func openStore(cfg config.SessionConfig) (session.Store, func(), error) {
	if cfg.Store == config.SessionStoreRedis {
		store, err := session.DialRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key, cfg.Redis.TTL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis session store")
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis session store")
			}
		}, nil
	}

	log.Info().Str("path", cfg.Path).Msg("Using file session store")
	return session.NewFileStore(cfg.Path), func() {}, nil
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
