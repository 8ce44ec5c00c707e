package bookings

import (
	"homestay/internal/shared/config"
	"homestay/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles booking-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers guest, host and admin booking routes
func (bookingRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Guest routes (any authenticated user)
	guest := rg.Group("/bookings")
	guest.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	{
		guest.POST("", bookingRouter.controller.Create)
		guest.GET("", bookingRouter.controller.ListMine)
		guest.GET("/:id", bookingRouter.controller.GetByID)
		guest.GET("/code/:code", bookingRouter.controller.GetByCode)
		guest.PUT("/:id/cancel", bookingRouter.controller.Cancel)
	}

	// Host routes (HOST or ADMIN role required)
	host := rg.Group("/host/bookings")
	host.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	host.Use(middleware.RequireHost())
	{
		host.GET("", bookingRouter.controller.ListForHost)
		host.POST("", bookingRouter.controller.Create)
		host.PATCH("/:id/status", bookingRouter.controller.UpdateStatus)
	}

	// Admin routes
	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", bookingRouter.controller.ListAll)
	}
}
