// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"coursa/internal/config"
	"coursa/internal/handlers"
	"coursa/internal/middleware"
	"coursa/internal/models"
	"coursa/internal/repositories"
	"coursa/internal/services/auth"
	"coursa/internal/services/catalog"
	"coursa/internal/services/checkout"
	"coursa/internal/services/fees"
	"coursa/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	courseRepo := repositories.NewCourseRepository(db, repositories.CacheService)
	purchaseRepo := repositories.NewPurchaseRepository(db)

	// Fee constants are process-wide and immutable; every money path
	// shares this one calculator.
	calc := fees.NewCalculator(fees.Config{
		PlatformFeePercent:     config.GetInt64Env("PLATFORM_FEE_PERCENT", 15),
		ProcessorPercentFee:    config.GetFloatEnv("PROCESSOR_PERCENT_FEE", 2.9),
		ProcessorFixedFeeCents: config.GetInt64Env("PROCESSOR_FIXED_FEE_CENTS", 30),
	})

	// Initialize services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	catalogService := catalog.NewService(courseRepo, userRepo)
	checkoutService := checkout.NewService(
		courseRepo,
		userRepo,
		purchaseRepo,
		checkout.NewStripeGateway(),
		calc,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	courseHandler := handlers.NewCourseHandler(catalogService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	webhookHandler := handlers.NewWebhookHandler(
		checkoutService,
		config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Coursa API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Get("/health", handlers.HealthCheck)
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/courses", courseHandler.ListCourses)
	api.Get("/courses/:id", courseHandler.GetCourse)

	// Stripe calls this; it authenticates with its signature header.
	api.Post("/webhooks/stripe", webhookHandler.HandleStripeEvent)

	// Everything below requires a valid access token.
	api.Use(authMiddleware.Handler)

	api.Post("/logout", authHandler.Logout)
	api.Post("/change-password", authHandler.ChangePassword)
	api.Get("/me", userHandler.GetProfile)
	api.Put("/me", userHandler.UpdateProfile)
	api.Post("/me/payout-account", userHandler.ConnectPayoutAccount)

	// Student routes
	api.Post("/checkout", middleware.HasPermission(models.PermissionPurchaseWrite), checkoutHandler.CreateSession)
	api.Get("/checkout/verify", middleware.HasPermission(models.PermissionPurchaseWrite), checkoutHandler.VerifySession)
	api.Get("/library", middleware.HasPermission(models.PermissionPurchaseRead), checkoutHandler.Library)
	api.Get("/library/courses/:id", middleware.HasPermission(models.PermissionPurchaseRead), checkoutHandler.WatchCourse)

	// Instructor routes
	instructor := api.Group("/instructor", middleware.HasPermission(models.PermissionCourseWrite))
	instructor.Get("/courses", courseHandler.ListMyCourses)
	instructor.Post("/courses", courseHandler.CreateCourse)
	instructor.Put("/courses/:id", courseHandler.UpdateCourse)
	instructor.Post("/courses/:id/publish", middleware.HasPermission(models.PermissionCoursePublish), courseHandler.PublishCourse)
	instructor.Post("/courses/:id/archive", courseHandler.ArchiveCourse)
	instructor.Delete("/courses/:id", courseHandler.DeleteCourse)
	instructor.Get("/sales", middleware.HasPermission(models.PermissionSalesRead), checkoutHandler.Sales)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/users", userHandler.ListUsers)
}
