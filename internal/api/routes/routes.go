package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/api/handlers"
	"github.com/nahcon/mealtrack/internal/api/middleware"
	"github.com/nahcon/mealtrack/internal/config"
	"github.com/nahcon/mealtrack/internal/models"
	"github.com/nahcon/mealtrack/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.AuditEntry{},
		&models.MealRequest{},
		&models.MealAssessment{},
		&models.AssessmentReview{},
		&models.Accommodation{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	auditService := services.NewAuditService(db)
	authService := services.NewAuthService(db, auditService, cfg)
	userService := services.NewUserService(db, auditService)
	roleService := services.NewRoleService(db, auditService)
	requestService := services.NewMealRequestService(db, auditService)
	assessmentService := services.NewAssessmentService(db, auditService)
	settingsService := services.NewSettingsService(db, auditService)

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService)
	authMiddleware := middleware.AuthMiddleware(authService)

	// Login, logout and the guard endpoint stay outside the auth
	// middleware: logout without a session is a no-op, and the guard
	// endpoint answers for unauthenticated navigations too.
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/verify", authHandler.Verify)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/me", authHandler.Me)

		userHandler := handlers.NewUserHandler(userService)
		userHandler.RegisterRoutes(protected)

		roleHandler := handlers.NewRoleHandler(roleService)
		roleHandler.RegisterRoutes(protected)

		settingsHandler := handlers.NewSettingsHandler(settingsService)
		settingsHandler.RegisterRoutes(protected)

		reportsHandler := handlers.NewReportsHandler(assessmentService, userService)
		protected.GET("/reports", reportsHandler.Summary)

		// Meal assessments: submission is for administrators and staff,
		// reviews for the representative roles.
		assessmentHandler := handlers.NewAssessmentHandler(assessmentService, userService)
		protected.GET("/meals", assessmentHandler.List)
		protected.GET("/meals/:id", assessmentHandler.Get)
		protected.POST("/meals",
			middleware.RequireRole(models.RoleAdministrator, models.RoleNAHCONStaff),
			assessmentHandler.Create)
		protected.POST("/meals/:id/review",
			middleware.RequireRole(models.RoleAdministrator, models.RoleStateRep, models.RoleKitchenRep),
			assessmentHandler.Review)

		// Meal requests: opened by state representatives, reviewed by
		// staff, delivered by kitchen representatives.
		requestHandler := handlers.NewMealRequestHandler(requestService, userService)
		protected.GET("/meal-requests",
			middleware.RequireRole(models.RoleAdministrator, models.RoleNAHCONStaff, models.RoleStateRep),
			requestHandler.List)
		protected.POST("/meal-requests",
			middleware.RequireRole(models.RoleStateRep),
			requestHandler.Create)
		protected.POST("/meal-requests/:id/status",
			middleware.RequireRole(models.RoleAdministrator, models.RoleNAHCONStaff),
			requestHandler.SetStatus)
		protected.GET("/kitchen-requests",
			middleware.RequireRole(models.RoleKitchenRep),
			requestHandler.List)
		protected.POST("/kitchen-requests/:id/deliver",
			middleware.RequireRole(models.RoleKitchenRep),
			requestHandler.Deliver)

		auditHandler := handlers.NewAuditHandler(auditService)
		auditGroup := protected.Group("/")
		auditGroup.Use(middleware.RequireRole(models.RoleAdministrator))
		auditHandler.RegisterRoutes(auditGroup)
	}

	return nil
}
