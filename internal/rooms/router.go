package rooms

import (
	"homestay/internal/shared/config"
	"homestay/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles room-related routes
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

// SetupRoutes registers public room browsing and host management routes
func (roomRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Public routes (no authentication required)
	rg.GET("/homestays/:id/rooms", roomRouter.controller.List)

	public := rg.Group("/rooms")
	{
		public.GET("/:id", roomRouter.controller.GetByID)
		public.GET("/:id/availability", roomRouter.controller.CheckAvailability)
	}

	// Host routes (HOST or ADMIN role required)
	host := rg.Group("/host")
	host.Use(middleware.JWTAuthWithConfig(roomRouter.config))
	host.Use(middleware.RequireHost())
	{
		host.POST("/homestays/:id/rooms", roomRouter.controller.Create)
		host.PUT("/rooms/:id", roomRouter.controller.Update)
		host.DELETE("/rooms/:id", roomRouter.controller.Delete)
		host.POST("/rooms/:id/availability", roomRouter.controller.SetAvailability)
		host.GET("/rooms/:id/availability", roomRouter.controller.ListAvailability)
		host.PUT("/rooms/availability/:id", roomRouter.controller.UpdateAvailability)
	}
}
