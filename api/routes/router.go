package routes

import (
	"net/http"
	"time"

	"homestay/internal/auth"
	"homestay/internal/bookings"
	"homestay/internal/homestays"
	"homestay/internal/notifications"
	"homestay/internal/payments"
	"homestay/internal/reviews"
	"homestay/internal/rooms"
	"homestay/internal/shared/config"
	"homestay/internal/shared/database"
	"homestay/internal/uploads"
	"homestay/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	notifier     *notifications.Service

	// Services shared across route groups
	homestayService homestays.Service
	roomService     rooms.Service
	paymentService  payments.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier *notifications.Service) *Router {
	r := &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
	if db.Redis != nil {
		r.cacheService = cache.NewService(db.GetRedisClient())
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded images are served straight from local disk.
	engine.Static(uploads.URLPrefix, r.config.Upload.Dir)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupHomestayRoutes(api)
		r.setupRoomRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupReviewRoutes(api)
		r.setupUploadRoutes(api)
	}

	// Rooms implement the availability filter homestay search relies on;
	// wired after both services exist.
	r.homestayService.SetAvailabilityChecker(r.roomService)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "homestay-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "homestay-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

func (r *Router) setupHomestayRoutes(rg *gin.RouterGroup) {
	homestayRepo := homestays.NewRepository(r.db.GetPostgreSQL())
	r.homestayService = homestays.NewService(homestayRepo, r.cacheService, r.config.Redis.CacheTTL)
	homestayController := homestays.NewController(r.homestayService)
	homestayRouter := homestays.NewRouter(homestayController, r.config)

	homestayRouter.SetupRoutes(rg)
}

func (r *Router) setupRoomRoutes(rg *gin.RouterGroup) {
	roomRepo := rooms.NewRepository(r.db.GetPostgreSQL())
	r.roomService = rooms.NewService(roomRepo, r.cacheService, r.config.Redis.ListCacheTTL)
	roomController := rooms.NewController(r.roomService)
	roomRouter := rooms.NewRouter(roomController, r.config)

	roomRouter.SetupRoutes(rg)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	// Payment service is created here so bookings can record deposits; the
	// payment routes reuse it below.
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	r.paymentService = payments.NewService(paymentRepo)

	var notifier bookings.NotificationPublisher
	if r.notifier != nil {
		notifier = r.notifier
	}

	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.roomService, r.paymentService, notifier)
	bookingController := bookings.NewController(bookingService)
	bookingRouter := bookings.NewRouter(bookingController, r.config)

	bookingRouter.SetupRoutes(rg)
}

func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentController := payments.NewController(r.paymentService)
	paymentRouter := payments.NewRouter(paymentController, r.config)

	paymentRouter.SetupRoutes(rg)
}

func (r *Router) setupUploadRoutes(rg *gin.RouterGroup) {
	uploadController := uploads.NewController(r.config)
	uploadRouter := uploads.NewRouter(uploadController, r.config)

	uploadRouter.SetupRoutes(rg)
}

func (r *Router) setupReviewRoutes(rg *gin.RouterGroup) {
	reviewRepo := reviews.NewRepository(r.db.GetPostgreSQL())
	reviewService := reviews.NewService(reviewRepo, r.cacheService)
	reviewController := reviews.NewController(reviewService)
	reviewRouter := reviews.NewRouter(reviewController, r.config)

	reviewRouter.SetupRoutes(rg)
}
