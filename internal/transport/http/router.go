package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/config"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/db"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
	"github.com/wiserse/toolbox/internal/transport/http/handlers"
	httpmw "github.com/wiserse/toolbox/internal/transport/http/middleware"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config
}

// SetupRoutes wires repositories, services and handlers and registers every
// route. It returns the aggregator so main can stop its poll loop on
// shutdown.
func SetupRoutes(app *fiber.App, cfg RouterConfig) *services.Aggregator {
	// Initialize repositories
	checkRepo := db.NewCheckRepository(cfg.DB, cfg.Logger)
	batchRepo := db.NewBatchRepository(cfg.DB, cfg.Logger)
	userRepo := db.NewUserRepository(cfg.DB, cfg.Logger)
	studyRepo := db.NewStudyRepository(cfg.DB, cfg.Logger)

	webhookClient := webhook.NewClient(cfg.Config.Webhooks, cfg.Logger)

	// Initialize services
	aggregator := services.NewAggregator(services.AggregatorConfig{
		Store:         checkRepo,
		Logger:        cfg.Logger,
		Interval:      cfg.Config.Polling.Interval,
		EvictionDelay: cfg.Config.Polling.EvictionDelay,
	})

	batchService := services.NewBatchService(batchRepo, cfg.Logger)

	checkService := services.NewCheckService(services.CheckServiceConfig{
		Checks:      checkRepo,
		Batches:     batchService,
		Aggregator:  aggregator,
		Submitter:   webhookClient,
		Logger:      cfg.Logger,
		CacheMaxAge: cfg.Config.Polling.CacheMaxAge,
	})

	chatService := services.NewChatService(webhookClient, cfg.Logger)
	storeService := services.NewStoreService(webhookClient, cfg.Logger)
	salesforceService := services.NewSalesforceService(webhookClient, cfg.Logger)
	userService := services.NewUserService(userRepo, cfg.Logger)
	performanceService := services.NewPerformanceService(studyRepo, cfg.Logger)

	// Initialize handlers
	checkHandler := handlers.NewCheckHandler(checkService, cfg.Logger)
	batchHandler := handlers.NewBatchHandler(batchService, cfg.Logger)
	chatHandler := handlers.NewChatHandler(chatService, cfg.Logger)
	storeHandler := handlers.NewStoreHandler(storeService, cfg.Logger)
	salesforceHandler := handlers.NewSalesforceHandler(salesforceService, cfg.Logger)
	userHandler := handlers.NewUserHandler(userService, cfg.Logger)
	performanceHandler := handlers.NewPerformanceHandler(performanceService, cfg.Logger)
	updatesHandler := handlers.NewUpdatesHandler(aggregator, cfg.Logger)

	// Websocket upgrade gate
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws/updates", websocket.New(updatesHandler.Handle))

	// API v1 routes
	api := app.Group("/api/v1")

	// Domain check routes
	checks := api.Group("/checks")
	checks.Post("/", checkHandler.SubmitChecks)
	checks.Get("/recent", checkHandler.ListRecent)
	checks.Get("/cached/:domain", checkHandler.GetCached)
	checks.Get("/sessions/:id", checkHandler.GetSession)
	checks.Delete("/sessions/:id", checkHandler.CloseSession)
	checks.Post("/sessions/:id/tasks/:taskId/cancel", checkHandler.CancelTask)
	checks.Get("/tasks/:id", checkHandler.GetTaskStatus)

	// Batch routes
	batches := api.Group("/batches")
	batches.Post("/", batchHandler.CreateBatch)
	batches.Get("/", batchHandler.GetBatches)
	batches.Get("/:id", batchHandler.GetBatch)
	batches.Patch("/:id/status", batchHandler.UpdateStatus)
	batches.Delete("/:id", batchHandler.DeleteBatch)

	// Chat routes
	api.Post("/chat/messages", chatHandler.SendMessage)

	// Store collection routes
	api.Post("/stores/collections", storeHandler.StartCollection)

	// CRM lookup routes
	api.Post("/salesforce/lookup", salesforceHandler.LookupAccounts)

	// Performance dashboard routes
	api.Get("/performance/report", performanceHandler.GetReport)

	// Admin user routes
	users := api.Group("/admin/users", httpmw.AdminAuth(cfg.Config))
	users.Get("/", userHandler.GetUsers)
	users.Get("/roles", userHandler.GetRoles)
	users.Post("/:id/role", userHandler.AssignRole)
	users.Post("/:id/activate", userHandler.ActivateUser)
	users.Post("/:id/deactivate", userHandler.DeactivateUser)
	users.Patch("/:id/profile", userHandler.UpdateProfile)
	users.Delete("/:id", userHandler.DeleteUser)

	return aggregator
}
