package routes

import (
	"net/http"

	"crm-service/internal/config"
	"crm-service/internal/delivery/http/handler"
	"crm-service/internal/infrastructure/database/postgres"
	"crm-service/internal/logger"
	"crm-service/internal/middleware"
	"crm-service/internal/storage"
	"crm-service/internal/usecase/auth"
	"crm-service/internal/usecase/customer"
	"crm-service/internal/usecase/user"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires repositories, services and handlers into one engine.
// images may be nil when no object store is configured.
func SetupRoutes(cfg *config.Config, db *postgres.DB, images storage.ImageStorage) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	if cfg.RateLimit.GeneralRPS > 0 {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))
	}

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	userRepository := postgres.NewUserRepository(db)
	customerRepository := postgres.NewCustomerRepository(db)

	authService := auth.NewService(userRepository, cfg)
	userService := user.NewService(userRepository)
	customerService := customer.NewService(customerRepository, images)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	customerHandler := handler.NewCustomerHandler(customerService)

	authHandler.RegisterRoutes(&router.RouterGroup)

	authenticated := router.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))
	{
		customerHandler.RegisterRoutes(authenticated)

		admin := authenticated.Group("")
		admin.Use(middleware.AdminOnly())
		{
			userHandler.RegisterRoutes(admin)
		}
	}

	logger.Info("All routes initialized")
	return router
}
