package homestays

import (
	"homestay/internal/shared/config"
	"homestay/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles homestay-related routes
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

// SetupRoutes registers public browsing routes and host management routes
func (homestayRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Public routes (no authentication required)
	public := rg.Group("/homestays")
	{
		public.GET("", homestayRouter.controller.Search)
		public.GET("/top", homestayRouter.controller.GetTop)
		public.GET("/:id", homestayRouter.controller.GetByID)
	}

	// Host routes (HOST or ADMIN role required)
	host := rg.Group("/host/homestays")
	host.Use(middleware.JWTAuthWithConfig(homestayRouter.config))
	host.Use(middleware.RequireHost())
	{
		host.POST("", homestayRouter.controller.Create)
		host.GET("", homestayRouter.controller.ListOwned)
		host.GET("/stats", homestayRouter.controller.GetOwnerStats)
		host.PUT("/:id", homestayRouter.controller.Update)
		host.PATCH("/:id/status", homestayRouter.controller.ToggleStatus)
		host.DELETE("/:id", homestayRouter.controller.Delete)
		host.GET("/:id/stats", homestayRouter.controller.GetStats)
	}
}
