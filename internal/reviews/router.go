package reviews

import (
	"homestay/internal/shared/config"
	"homestay/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles review-related routes
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

// SetupRoutes registers public review listing and guest review management
func (reviewRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Public routes (no authentication required)
	rg.GET("/homestays/:id/reviews", reviewRouter.controller.ListByHomestay)

	authed := rg.Group("/reviews")
	authed.Use(middleware.JWTAuthWithConfig(reviewRouter.config))
	{
		authed.POST("", reviewRouter.controller.Create)
		authed.DELETE("/:id", reviewRouter.controller.Delete)
	}
}
