package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/controllers"
	"github.com/styledecor/styledecor-api/middleware"
	"github.com/styledecor/styledecor-api/models"
	"github.com/styledecor/styledecor-api/services"
)

func main() {
	log.Println("Starting StyleDecor API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Service{}, &models.Booking{}, &models.Payment{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize external collaborators
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)
	services.InitCheckoutService(cfg)

	router := setupRouter(cfg)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Serve until interrupted, then drain and release the store handle
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := config.CloseDatabase(); err != nil {
		log.Printf("Database shutdown error: %v", err)
	}
}

// setupRouter wires all routes with their authentication and role
// requirements. Role checks re-read the caller's record per request; the
// roles listed here are the sole authorization source for mutations.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	auth := middleware.EnsureValidToken(cfg)

	// Health check
	router.GET("/", healthCheck)

	// Users
	router.POST("/user", controllers.RegisterUser)
	router.PATCH("/update-user", auth, controllers.UpdateMyProfile)
	router.GET("/users", auth, middleware.RequireRole(models.RoleAdmin), controllers.ListUsers)
	router.PATCH("/user/login", controllers.RefreshLogin)
	router.GET("/users/me", auth, middleware.RequireRole(), controllers.GetMyProfile)
	router.GET("/user/role", auth, middleware.RequireRole(), controllers.GetMyRole)

	// Service catalog
	router.POST("/service", auth, middleware.RequireRole(models.RoleAdmin), controllers.CreateService)
	router.DELETE("/service/:id", auth, middleware.RequireRole(models.RoleAdmin), controllers.DeleteService)
	router.GET("/services", controllers.ListServices)
	router.GET("/service/:id", controllers.GetService)
	router.POST("/service-image", auth, middleware.RequireRole(models.RoleAdmin), controllers.UploadServiceImage)

	// Bookings
	router.POST("/new-booking", auth, middleware.RequireRole(models.RoleUser), controllers.CreateBooking)
	router.PATCH("/booking/:id", auth, middleware.RequireRole(models.RoleUser), controllers.UpdateBooking)
	router.PATCH("/booking-cancel/:id", auth, middleware.RequireRole(models.RoleUser), controllers.CancelBooking)
	router.GET("/bookings", auth, middleware.RequireRole(), controllers.ListBookings)
	router.PATCH("/booking-assigned/:id", auth, middleware.RequireRole(models.RoleAdmin), controllers.AssignBooking)

	// Payments
	router.POST("/checkout-session", controllers.CreateCheckoutSession)
	router.POST("/payment-success", auth, middleware.RequireRole(), controllers.ConfirmPayment)
	router.GET("/payments", auth, middleware.RequireRole(), controllers.ListPayments)

	// Decorators
	router.PATCH("/add-decorator", auth, middleware.RequireRole(models.RoleAdmin), controllers.PromoteDecorator)
	router.GET("/decorators", auth, middleware.RequireRole(models.RoleAdmin), controllers.ListDecorators)

	// Unmatched routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  404,
			"message": "invalid API call!",
		})
	})

	return router
}

// healthCheck handles the root health endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "api working fine!",
	})
}
