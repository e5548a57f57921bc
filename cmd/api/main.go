package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "camara-formacion/docs" // This is for Swagger
	"camara-formacion/internal/auth"
	"camara-formacion/internal/config"
	"camara-formacion/internal/database"
	"camara-formacion/internal/handlers"
	"camara-formacion/internal/logger"
	"camara-formacion/internal/middleware"
	"camara-formacion/internal/models"
	"camara-formacion/internal/seed"
	"camara-formacion/internal/service"
	"camara-formacion/internal/store"
	"camara-formacion/internal/store/memory"
	"camara-formacion/internal/store/postgres"
	"camara-formacion/internal/vault"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Camara Formacion API
// @version 1.0
// @description Document lifecycle backend for the Camara de Comercio de Menorca training programs

// @contact.name API Support
// @contact.email soporte@camara-menorca.es

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize the store
	var (
		st     store.Store
		db     *database.Database
		dbPing handlers.Pinger
	)
	if cfg.App.UseMemoryStore {
		slog.Info("Using in-memory store")
		st = memory.New()
	} else {
		db, err = database.New(&cfg.Database)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func(db *database.Database) {
			if err := db.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}(db)
		slog.Info("Database connection established")

		if err := db.RunMigrations("./migrations"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed")

		st = postgres.New(db.DB)
		dbPing = handlers.PingerFunc(db.Ping)
	}

	// Initialize the signature cipher (if Vault is enabled)
	var cipher service.SignatureCipher
	var vaultPing handlers.Pinger
	if cfg.Vault.Enabled {
		vaultClient, err := vault.NewClient(&vault.Config{
			Address:      cfg.Vault.Address,
			Token:        cfg.Vault.Token,
			TransitMount: cfg.Vault.TransitMount,
		})
		if err != nil {
			slog.Error("Failed to initialize Vault client", "error", err)
			os.Exit(1)
		}
		cipher = vaultClient
		vaultPing = handlers.PingerFunc(vaultClient.Health)
		slog.Info("Vault signature encryption enabled", "vault_addr", cfg.Vault.Address)
	} else {
		slog.Warn("Vault is disabled - signature blobs are stored unencrypted")
	}

	// Initialize services
	authService, err := auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		slog.Error("Failed to initialize auth service", "error", err)
		os.Exit(1)
	}
	services := service.New(st, authService, cipher)

	// Load the demo dataset
	if cfg.App.SeedDemo {
		if err := seed.Load(st, services, cfg.App.DemoPassword); err != nil {
			slog.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
		slog.Info("Demo dataset loaded")
	}

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	rbacMw := middleware.NewRBACMiddleware()
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg.App.EnableRegistration)
	courseHandler := handlers.NewCourseHandler(services.Courses)
	participantHandler := handlers.NewParticipantHandler(services.Participants, services.Phases)
	annexHandler := handlers.NewAnnexHandler(services.Annexes, services.Signatures, services.Export)
	attendanceHandler := handlers.NewAttendanceHandler(services.Attendance)
	dashboardHandler := handlers.NewDashboardHandler(services.Dashboards)
	auditHandler := handlers.NewAuditHandler(services.Audit)
	healthHandler := handlers.NewHealthHandler(cfg.App.Version, map[string]handlers.Pinger{
		"database": dbPing,
		"vault":    vaultPing,
	})

	authenticated := func(h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(http.HandlerFunc(h))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(rbacMw.RequireRole(models.RoleAdministrator)(http.HandlerFunc(h)))
	}
	staffOnly := func(h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(rbacMw.RequireStaff()(http.HandlerFunc(h)))
	}

	// Setup router
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Authenticated routes
	mux.Handle("GET /api/v1/auth/me", authenticated(authHandler.Me))

	mux.Handle("GET /api/v1/courses", authenticated(courseHandler.List))
	mux.Handle("GET /api/v1/courses/{id}", authenticated(courseHandler.Get))

	mux.Handle("GET /api/v1/participants", authenticated(participantHandler.List))
	mux.Handle("POST /api/v1/participants", adminOnly(participantHandler.Create))
	mux.Handle("GET /api/v1/participants/me", authenticated(participantHandler.Me))
	mux.Handle("GET /api/v1/participants/{id}", authenticated(participantHandler.Get))
	mux.Handle("PUT /api/v1/participants/{id}", adminOnly(participantHandler.Update))
	mux.Handle("GET /api/v1/participants/{id}/phases", authenticated(participantHandler.Phases))
	mux.Handle("POST /api/v1/participants/{id}/progress", staffOnly(participantHandler.ProgressPhase))
	mux.Handle("POST /api/v1/participants/{id}/instructors", adminOnly(participantHandler.AssignInstructor))

	mux.Handle("GET /api/v1/participants/{id}/annexes", authenticated(annexHandler.List))
	mux.Handle("POST /api/v1/participants/{id}/annexes", staffOnly(annexHandler.Generate))
	mux.Handle("GET /api/v1/annexes/{id}", authenticated(annexHandler.Get))
	mux.Handle("GET /api/v1/annexes/{id}/download", authenticated(annexHandler.Download))
	mux.Handle("POST /api/v1/annexes/{id}/signatures", authenticated(annexHandler.Sign))
	mux.Handle("GET /api/v1/annexes/{id}/signatures", authenticated(annexHandler.Signatures))
	mux.Handle("POST /api/v1/annexes/export", authenticated(annexHandler.Export))

	mux.Handle("GET /api/v1/participants/{id}/attendance", authenticated(attendanceHandler.List))
	mux.Handle("POST /api/v1/participants/{id}/attendance", staffOnly(attendanceHandler.Mark))

	mux.Handle("GET /api/v1/dashboards/admin", adminOnly(dashboardHandler.Admin))
	mux.Handle("GET /api/v1/dashboards/instructor", authMw.Authenticate(rbacMw.RequireRole(models.RoleInstructor)(http.HandlerFunc(dashboardHandler.Instructor))))
	mux.Handle("GET /api/v1/dashboards/participant", authenticated(dashboardHandler.Participant))

	mux.Handle("GET /api/v1/admin/audit-logs", adminOnly(auditHandler.List))

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
