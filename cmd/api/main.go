package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/nomadecampers/nomade-api/docs" // Swagger docs
	"github.com/nomadecampers/nomade-api/internal/config"
	"github.com/nomadecampers/nomade-api/internal/database"
	"github.com/nomadecampers/nomade-api/internal/handlers"
	"github.com/nomadecampers/nomade-api/internal/jobs"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/repository"
	"github.com/nomadecampers/nomade-api/internal/services"
	"github.com/nomadecampers/nomade-api/internal/storage"
	"github.com/nomadecampers/nomade-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// staleLeadAge is how long a lead may go without contact before sellers are nudged
const staleLeadAge = 14 * 24 * time.Hour

// @title Nomade Campers API
// @version 1.0
// @description REST API for the Nomade Campers camperization workshop CRM

// @contact.name API Support
// @contact.email soporte@nomadecampers.com

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Set them in .env and ensure the From domain is verified in Resend dashboard.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.PUT("/users/:user_id/toggle_status", h.User.ToggleStatus)
				admin.POST("/users/:user_id/restore", h.User.Restore)

				// Catalog maintenance
				admin.POST("/catalog/engines", h.Catalog.SaveEngine)
				admin.POST("/catalog/models", h.Catalog.SaveModel)
				admin.POST("/catalog/colors", h.Catalog.SaveColor)
				admin.POST("/catalog/packs", h.Catalog.SavePack)
				admin.POST("/catalog/electric_systems", h.Catalog.SaveElectricSystem)
				admin.POST("/catalog/additional_items", h.Catalog.SaveAdditionalItem)

				// Destructive operations
				admin.DELETE("/projects/:project_id", h.Project.Delete)
				admin.DELETE("/clients/:client_id", h.Client.Delete)
				admin.DELETE("/contracts/:contract_id", h.Contract.Delete)
				admin.POST("/invoices/:invoice_id/cancel", h.Billing.Cancel)

				// Audits
				admin.GET("/audits", h.Audit.Index)
			}

			// Staff routes (admin and sellers)
			staff := protected.Group("")
			staff.Use(middleware.RequireRole("admin", "seller"))
			{
				staff.GET("/users", h.User.Index)
				staff.GET("/users/:user_id", h.User.Show)

				// Clients
				staff.GET("/clients", h.Client.Index)
				staff.POST("/clients", h.Client.Create)
				staff.GET("/clients/:client_id", h.Client.Show)
				staff.PUT("/clients/:client_id", h.Client.Update)
				staff.PUT("/clients/:client_id/status", h.Client.ChangeStatus)
				staff.POST("/clients/:client_id/register_contact", h.Client.RegisterContact)

				// Catalog (read)
				staff.GET("/catalog", h.Catalog.Index)

				// Projects and pipeline
				staff.GET("/projects", h.Project.Index)
				staff.GET("/projects/pipeline", h.Project.Pipeline)
				staff.POST("/projects", h.Project.Create)
				staff.GET("/projects/:project_id", h.Project.Show)
				staff.PUT("/projects/:project_id", h.Project.Update)
				staff.POST("/projects/:project_id/start_production", h.Project.StartProduction)
				staff.POST("/projects/:project_id/deliver", h.Project.Deliver)
				staff.POST("/projects/:project_id/close", h.Project.Close)
				staff.POST("/projects/:project_id/cancel", h.Project.Cancel)

				// Budgets
				staff.POST("/budgets/compute", h.Budget.Compute)
				staff.GET("/projects/:project_id/budgets", h.Budget.Index)
				staff.POST("/projects/:project_id/budgets", h.Budget.Create)
				staff.GET("/budgets/:budget_id", h.Budget.Show)
				staff.PUT("/budgets/:budget_id", h.Budget.Update)
				staff.DELETE("/budgets/:budget_id", h.Budget.Delete)
				staff.POST("/budgets/:budget_id/send", h.Budget.Send)
				staff.POST("/budgets/:budget_id/accept", h.Budget.Accept)
				staff.POST("/budgets/:budget_id/reject", h.Budget.Reject)
				staff.POST("/budgets/:budget_id/rework", h.Budget.Rework)
				staff.POST("/budgets/:budget_id/set_primary", h.Budget.SetPrimary)

				// Contracts
				staff.GET("/contracts/templates", h.Contract.Templates)
				staff.GET("/projects/:project_id/contracts", h.Contract.Index)
				staff.GET("/projects/:project_id/contracts/preview", h.Contract.Preview)
				staff.POST("/projects/:project_id/contracts", h.Contract.Generate)
				staff.GET("/contracts/:contract_id", h.Contract.Show)
				staff.POST("/contracts/:contract_id/sign", h.Contract.Sign)
				staff.GET("/contracts/:contract_id/pdf", h.Contract.DownloadPDF)

				// Billing
				staff.GET("/invoices", h.Billing.Index)
				staff.GET("/invoices/stats", h.Billing.Stats)
				staff.GET("/invoices/:invoice_id", h.Billing.Show)
				staff.POST("/invoices/:invoice_id/mark_paid", h.Billing.MarkPaid)
				staff.GET("/projects/:project_id/invoices", h.Billing.ByProject)
				staff.POST("/projects/:project_id/invoices", h.Billing.GenerateTranches)

				// Reports
				staff.GET("/reports/projects_csv", h.Report.ProjectsCSV)
				staff.GET("/reports/invoices_csv", h.Report.InvoicesCSV)
				staff.GET("/reports/pipeline_xlsx", h.Report.PipelineXLSX)
				staff.GET("/reports/billing_summary_pdf", h.Report.BillingSummaryPDF)

				// Background jobs
				staff.GET("/jobs/status", h.Job.Status)
			}

			// Profile routes (admin or profile owner)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)
			protected.POST("/users/:user_id/resend_confirmation", h.User.ResendConfirmation)
			protected.PATCH("/users/:user_id/update_locale", h.User.UpdateLocale)
			protected.POST("/users/:user_id/avatar", h.User.UploadAvatar)

			// Notifications (users manage their own)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.GET("/:notification_id", h.Notification.Show)
				notifications.PUT("/:notification_id", h.Notification.Update)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Nudge sellers about leads that have gone quiet
	worker.ScheduleEvery(time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking stale leads...")
		count, err := svcs.Client.NotifyStaleLeads(ctx, staleLeadAge)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("[Job] Stale leads notified", "count", count)
		}
		return nil
	})

	// Chase unpaid invoices once a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue invoices...")
		count, err := svcs.Billing.CheckOverdueInvoices(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("[Job] Overdue invoices flagged", "count", count)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
