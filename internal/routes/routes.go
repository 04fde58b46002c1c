package routes

import (
	"github.com/gofiber/adaptor/v2"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Mimesse/fit-coach-hub/internal/config"
	"github.com/Mimesse/fit-coach-hub/internal/handlers"
	"github.com/Mimesse/fit-coach-hub/internal/metrics"
	"github.com/Mimesse/fit-coach-hub/internal/middleware"
	"github.com/Mimesse/fit-coach-hub/internal/repository"
	"github.com/Mimesse/fit-coach-hub/internal/services"
	"github.com/Mimesse/fit-coach-hub/internal/sessionhub"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	userRepo := repository.NewUserRepository(db)
	trainerRepo := repository.NewTrainerProfileRepository(db)
	studentRepo := repository.NewStudentProfileRepository(db)
	tokenStore := services.NewTokenStore(rdb)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	var mailer services.Mailer
	if cfg.SMTPHost != "" && cfg.SMTPUsername != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	hub := sessionhub.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		trainerRepo,
		studentRepo,
		tokenStore,
		mailer,
		hub,
		collector,
		cfg.JWTSecret,
		cfg.AppBaseURL,
	)
	profileHandler := handlers.NewProfileHandler(trainerRepo, storageService, hub, collector)
	discoveryHandler := handlers.NewTrainerDiscoveryHandler(trainerRepo)
	contentHandler := handlers.NewContentHandler()
	sessionEventsHandler := handlers.NewSessionEventsHandler(hub, tokenStore, cfg.JWTSecret)

	authLimiter := middleware.NewRateLimiter(middleware.DefaultAuthRateLimiterConfig())

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authLimiter.Handle(), authHandler.Register)
	auth.Post("/login", authLimiter.Handle(), authHandler.Login)
	auth.Post("/logout", middleware.AuthRequired(cfg.JWTSecret, tokenStore), authHandler.Logout)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret, tokenStore), authHandler.Me)
	auth.Get("/confirm", authHandler.ConfirmEmail)
	auth.Post("/forgot-password", authLimiter.Handle(), authHandler.ForgotPassword)
	auth.Post("/reset-password", authLimiter.Handle(), authHandler.ResetPassword)

	api.Get("/trainers", discoveryHandler.ListTrainers)
	api.Get("/content/landing", contentHandler.GetLandingContent)

	// Registered before the /v1 group so the group's Bearer-only middleware
	// never shadows the query-token websocket auth.
	api.Use("/v1/ws", sessionEventsHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(sessionEventsHandler.HandleWebSocket))

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret, tokenStore))

	trainers := authProtected.Group("/trainers")
	trainers.Get("/profile", profileHandler.GetProfile)
	trainers.Put("/profile", profileHandler.UpdateProfile)
	trainers.Post("/profile/avatar", profileHandler.UploadAvatar)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))
}
