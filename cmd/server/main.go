package main

import (
	"log"
	"time"

	"estate_flow_go/config"
	"estate_flow_go/db"
	"estate_flow_go/handlers"
	"estate_flow_go/middleware"
	"estate_flow_go/models"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{}, &models.Session{},
		&models.Property{}, &models.Booking{}, &models.UnavailableDate{},
		&models.Reservation{}, &models.Availability{}, &models.Contact{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the standard visiting hours on first boot
	if err := services.SeedDefaultAvailability(db.DB); err != nil {
		log.Fatalf("Failed to seed availability: %v", err)
	}

	// Initialize image storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()
	e.Validator = handlers.NewRequestValidator()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Uploaded images when running on local storage
	e.Static("/uploads", cfg.UploadDir)

	e.GET("/health", handlers.HealthHandler)

	// Public routes (no authentication required)
	api := e.Group("/api")
	{
		api.POST("/auth/login", handlers.LoginHandler)
		api.POST("/auth/logout", handlers.LogoutHandler)

		api.GET("/properties", handlers.ListPropertiesHandler)
		api.GET("/properties/:id", handlers.GetPropertyHandler)
		api.GET("/properties/:id/unavailable-dates", handlers.GetUnavailableDatesHandler)

		api.POST("/bookings", handlers.CreateBookingHandler)

		api.GET("/reservations/available-slots/:propertyId/:date", handlers.AvailableSlotsHandler)
		api.POST("/reservations/public", handlers.CreateReservationHandler)

		api.POST("/contacts", handlers.CreateContactHandler)
	}

	// Protected back-office routes
	admin := e.Group("/api/admin")
	admin.Use(middleware.RequireAuth())
	{
		admin.GET("/me", handlers.MeHandler)

		admin.GET("/properties", handlers.AdminListPropertiesHandler)
		admin.GET("/properties/:id", handlers.AdminGetPropertyHandler)
		admin.POST("/properties", handlers.CreatePropertyHandler)
		admin.PUT("/properties/:id", handlers.UpdatePropertyHandler)
		admin.PATCH("/properties/:id/toggle-active", handlers.TogglePropertyHandler)
		admin.POST("/properties/:id/images", handlers.UploadPropertyImageHandler)
		admin.DELETE("/properties/:id/images", handlers.DeletePropertyImageHandler)
		admin.POST("/properties/:id/unavailable-dates", handlers.CreateUnavailableDateHandler)
		admin.DELETE("/properties/:id/unavailable-dates/:dateId", handlers.DeleteUnavailableDateHandler)

		admin.GET("/bookings", handlers.AdminListBookingsHandler)
		admin.GET("/bookings/:id", handlers.AdminGetBookingHandler)
		admin.PATCH("/bookings/:id", handlers.UpdateBookingHandler)
		admin.PATCH("/bookings/:id/cancel", handlers.CancelBookingHandler)
		admin.PATCH("/bookings/:id/confirm", handlers.ConfirmBookingHandler)
		admin.GET("/bookings/:id/confirmation.pdf", handlers.BookingConfirmationPDFHandler)

		admin.GET("/reservations", handlers.AdminListReservationsHandler)
		admin.GET("/reservations/statistics", handlers.ReservationStatisticsHandler)
		admin.GET("/reservations/:id", handlers.AdminGetReservationHandler)
		admin.POST("/reservations", handlers.AdminCreateReservationHandler)
		admin.PATCH("/reservations/:id/status", handlers.UpdateReservationStatusHandler)
		admin.PATCH("/reservations/:id/cancel", handlers.CancelReservationHandler)

		admin.GET("/availabilities", handlers.ListAvailabilitiesHandler)
		admin.POST("/availabilities", handlers.CreateAvailabilityHandler)
		admin.PUT("/availabilities/:id", handlers.UpdateAvailabilityHandler)
		admin.DELETE("/availabilities/:id", handlers.DeleteAvailabilityHandler)

		admin.GET("/contacts", handlers.AdminListContactsHandler)
		admin.PATCH("/contacts/:id/status", handlers.UpdateContactStatusHandler)
		admin.DELETE("/contacts/:id", handlers.DeleteContactHandler)

		admin.GET("/export/bookings.xlsx", handlers.ExportBookingsHandler)
		admin.GET("/export/contacts.xlsx", handlers.ExportContactsHandler)

		// Destructive routes need the admin role
		adminOnly := admin.Group("")
		adminOnly.Use(middleware.RequireRole("admin"))
		{
			adminOnly.DELETE("/properties/:id", handlers.DeletePropertyHandler)
			adminOnly.DELETE("/bookings/:id", handlers.DeleteBookingHandler)
			adminOnly.DELETE("/reservations/:id", handlers.DeleteReservationHandler)
		}
	}

	// Background maintenance jobs
	expiryWindow := time.Duration(cfg.ReservationExpiryHours) * time.Hour
	scheduler := cron.New()
	scheduler.AddFunc("@hourly", func() {
		if n, err := services.ExpireStaleReservations(db.DB, expiryWindow); err != nil {
			log.Printf("Error expiring stale reservations: %v", err)
		} else if n > 0 {
			log.Printf("Expired %d stale reservations", n)
		}

		if n, err := services.CompletePastReservations(db.DB); err != nil {
			log.Printf("Error completing past reservations: %v", err)
		} else if n > 0 {
			log.Printf("Completed %d past reservations", n)
		}

		if err := services.CleanupExpiredSessions(db.DB); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
